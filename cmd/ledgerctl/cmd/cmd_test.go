package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	db     string
	driver string
}

// run executes one ledgerctl invocation and returns its stdout.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", c.db, "--driver", c.driver}, args...))

	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(stdin string, args ...string) string {
	c.t.Helper()
	out, err := c.run(stdin, args...)
	require.NoError(c.t, err, "ledgerctl %v", args)
	return out
}

var createdRe = regexp.MustCompile(`Created group (\S+)`)

const bill = `{
  "items": [
    {"id": "1", "name": "Pizza", "price": 90000, "quantity": 1, "assignedTo": ["a", "b", "c"], "splitType": "shared"}
  ],
  "charges": {"taxPercent": 10}
}`

func TestLedgerctl(t *testing.T) {
	for _, driver := range []string{"sqlite", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			t.Chdir(t.TempDir())
			c := &cli{t: t, db: filepath.Join(t.TempDir(), "ledger.db"), driver: driver}

			out := c.mustRun("", "group", "create", "--name", "Dinner", "--member", "a:Alice", "--member", "b:Bob", "--member", "c")
			m := createdRe.FindStringSubmatch(out)
			require.Len(t, m, 2, out)
			groupID := m[1]

			out = c.mustRun("", "group", "show", groupID)
			require.Contains(t, out, "Dinner")
			require.Contains(t, out, "Alice")

			out = c.mustRun("", "group", "list")
			require.Contains(t, out, groupID)

			out = c.mustRun(bill, "allocate", groupID)
			require.Contains(t, out, "Grand total: 99000")

			out = c.mustRun(bill, "split", groupID, "--payer", "a", "--note", "pizza")
			require.Contains(t, out, "33000")

			c.mustRun("", "post", groupID, "--payer", "b", "--share", "c=3000")

			out = c.mustRun("", "balances", groupID)
			require.Regexp(t, `a\s+66000\s+0\s+66000`, out)
			require.Regexp(t, `c\s+0\s+36000\s+-36000`, out)

			out = c.mustRun("", "simplify", groupID)
			require.Regexp(t, `c\s+a\s+36000`, out)
			require.Regexp(t, `b\s+a\s+30000`, out)

			exportPath := filepath.Join(t.TempDir(), "ledger.json")
			c.mustRun("", "export", groupID, "-o", exportPath)
			data, err := os.ReadFile(exportPath)
			require.NoError(t, err)
			require.Contains(t, string(data), `"groupId": "`+groupID+`"`)

			_, err = c.run("", "import", exportPath)
			require.ErrorContains(t, err, "already in group")

			out = c.mustRun("", "settle", groupID)
			require.Contains(t, out, "Settled 3 entries")

			out = c.mustRun("", "simplify", groupID)
			require.Contains(t, out, "All settled up")

			out = c.mustRun("", "entries", groupID, "--unsettled")
			require.Equal(t, 1, strings.Count(out, "\n"), "only the header row: %q", out)
		})
	}
}

func TestLedgerctl_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	c := &cli{t: t, db: filepath.Join(t.TempDir(), "ledger.db"), driver: "sqlite"}

	_, err := c.run("", "group", "show", "missing")
	require.ErrorContains(t, err, "not found")

	_, err = c.run("", "post", "missing", "--payer", "a", "--share", "b")
	require.ErrorContains(t, err, "want id=amount")

	_, err = c.run(`{"items": [], "tip": 5}`, "allocate", "missing")
	require.ErrorContains(t, err, "invalid bill")

	_, err = c.run("", "--driver", "postgres", "group", "list")
	require.Error(t, err)
}

func TestParseShares(t *testing.T) {
	totals, err := parseShares([]string{"a=100", " b = 250.5 ", "a=1"})
	require.NoError(t, err)
	require.EqualValues(t, 101, totals["a"])
	require.EqualValues(t, 251, totals["b"])

	_, err = parseShares([]string{"=5"})
	require.Error(t, err)
	_, err = parseShares([]string{"a=lots"})
	require.Error(t, err)
}

func TestParseMembers(t *testing.T) {
	members, err := parseMembers([]string{"a:Alice", "b"})
	require.NoError(t, err)
	require.Equal(t, "Alice", members[0].Name)
	require.Equal(t, "b", members[1].ID)
	require.Empty(t, members[1].Name)

	_, err = parseMembers([]string{":nobody"})
	require.Error(t, err)
}
