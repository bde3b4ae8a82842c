package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

func entry(from, to string, amount money.Money) models.LedgerEntry {
	return models.LedgerEntry{FromMemberID: from, ToMemberID: to, Amount: amount}
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.LedgerEntry
		members []string
		want    []models.Settlement
	}{
		{
			name:    "no entries",
			members: []string{"A", "B"},
			want:    []models.Settlement{},
		},
		{
			name: "pizza bill",
			entries: []models.LedgerEntry{
				entry("B", "A", 100000),
				entry("C", "A", 100000),
			},
			members: []string{"A", "B", "C"},
			want: []models.Settlement{
				{FromMemberID: "B", ToMemberID: "A", Amount: 100000},
				{FromMemberID: "C", ToMemberID: "A", Amount: 100000},
			},
		},
		{
			name: "repeated debts between the same pair aggregate",
			entries: []models.LedgerEntry{
				entry("B", "A", 50000),
				entry("B", "A", 100000),
				entry("C", "A", 100000),
			},
			members: []string{"A", "B", "C"},
			want: []models.Settlement{
				{FromMemberID: "B", ToMemberID: "A", Amount: 150000},
				{FromMemberID: "C", ToMemberID: "A", Amount: 100000},
			},
		},
		{
			name: "opposite debts cancel",
			entries: []models.LedgerEntry{
				entry("A", "B", 30000),
				entry("B", "A", 30000),
			},
			members: []string{"A", "B"},
			want:    []models.Settlement{},
		},
		{
			name: "chain collapses to one transfer",
			entries: []models.LedgerEntry{
				entry("A", "B", 20000),
				entry("B", "C", 20000),
			},
			members: []string{"A", "B", "C"},
			want: []models.Settlement{
				{FromMemberID: "A", ToMemberID: "C", Amount: 20000},
			},
		},
		{
			name: "settled entries are ignored",
			entries: []models.LedgerEntry{
				{FromMemberID: "B", ToMemberID: "A", Amount: 70000, Settled: true},
				entry("C", "A", 10000),
			},
			members: []string{"A", "B", "C"},
			want: []models.Settlement{
				{FromMemberID: "C", ToMemberID: "A", Amount: 10000},
			},
		},
		{
			name: "one unit balances are rounding noise",
			entries: []models.LedgerEntry{
				entry("B", "A", 1),
			},
			members: []string{"A", "B"},
			want:    []models.Settlement{},
		},
		{
			name: "largest debtor pays largest creditor first",
			entries: []models.LedgerEntry{
				entry("A", "C", 40000),
				entry("B", "D", 10000),
				entry("A", "D", 20000),
			},
			members: []string{"A", "B", "C", "D"},
			// A -60000, B -10000, C +40000, D +30000
			want: []models.Settlement{
				{FromMemberID: "A", ToMemberID: "C", Amount: 40000},
				{FromMemberID: "A", ToMemberID: "D", Amount: 20000},
				{FromMemberID: "B", ToMemberID: "D", Amount: 10000},
			},
		},
		{
			name: "ties keep member order",
			entries: []models.LedgerEntry{
				entry("C", "A", 5000),
				entry("B", "A", 5000),
			},
			members: []string{"A", "B", "C"},
			want: []models.Settlement{
				{FromMemberID: "B", ToMemberID: "A", Amount: 5000},
				{FromMemberID: "C", ToMemberID: "A", Amount: 5000},
			},
		},
		{
			name: "no members",
			entries: []models.LedgerEntry{
				entry("B", "C", 10000),
			},
			want: []models.Settlement{},
		},
		{
			name: "entries between non-members are ignored",
			entries: []models.LedgerEntry{
				entry("B", "C", 10000),
			},
			members: []string{"A"},
			want:    []models.Settlement{},
		},
		{
			name: "non-member side of an entry is dropped",
			entries: []models.LedgerEntry{
				entry("B", "A", 30000),
				entry("Z", "A", 20000),
				entry("B", "Z", 5000),
			},
			members: []string{"A", "B"},
			// A +50000, B -35000; Z is not a member
			want: []models.Settlement{
				{FromMemberID: "B", ToMemberID: "A", Amount: 35000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimplifyDebts(tt.entries, tt.members)
			if len(got) != len(tt.want) {
				t.Fatalf("SimplifyDebts() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("settlement %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNetBalances(t *testing.T) {
	entries := []models.LedgerEntry{
		entry("B", "A", 50000),
		entry("C", "A", 100000),
		entry("A", "C", 20000),
		entry("D", "B", 5000), // D is not a listed member
	}
	got := NetBalances(entries, []string{"A", "B", "C"})

	want := []models.MemberBalance{
		{MemberID: "A", Owed: 150000, Owes: 20000, Net: 130000},
		{MemberID: "B", Owed: 0, Owes: 50000, Net: -50000},
		{MemberID: "C", Owed: 20000, Owes: 100000, Net: -80000},
	}
	if len(got) != len(want) {
		t.Fatalf("NetBalances() = %+v, want %+v", got, want)
	}
	var sum money.Money
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("balance %d = %+v, want %+v", i, got[i], want[i])
		}
		sum += got[i].Net
	}
	if sum != 0 {
		t.Errorf("net balances sum to %d, want 0", sum)
	}
}

func TestNetBalances_NoMembers(t *testing.T) {
	got := NetBalances([]models.LedgerEntry{entry("A", "B", 100)}, nil)
	if len(got) != 0 {
		t.Errorf("NetBalances() = %+v, want none", got)
	}
}

// TestSimplifyDebts_Properties checks conservation and the settlement count
// bound over random ledgers.
func TestSimplifyDebts_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 2 + rng.Intn(8)
		members := make([]string, n)
		for i := range members {
			members[i] = fmt.Sprintf("m%d", i)
		}

		var entries []models.LedgerEntry
		for k := 0; k < rng.Intn(30); k++ {
			from, to := rng.Intn(n), rng.Intn(n)
			if from == to {
				continue
			}
			// Multiples of 10 keep every balance clear of the tolerance band.
			amount := money.Money(10 * (1 + rng.Intn(10000)))
			entries = append(entries, entry(members[from], members[to], amount))
		}

		settlements := SimplifyDebts(entries, members)

		if len(settlements) > len(members)-1 {
			t.Fatalf("run %d: %d settlements for %d members", run, len(settlements), len(members))
		}

		var paid, received money.Money
		applied := append([]models.LedgerEntry(nil), entries...)
		for _, s := range settlements {
			if s.Amount <= 0 {
				t.Fatalf("run %d: non-positive settlement %+v", run, s)
			}
			paid += s.Amount
			received += s.Amount
			// Paying a settlement is a debt in the opposite direction.
			applied = append(applied, entry(s.ToMemberID, s.FromMemberID, s.Amount))
		}
		if paid != received {
			t.Fatalf("run %d: paid %d != received %d", run, paid, received)
		}

		for _, b := range NetBalances(applied, members) {
			if b.Net.Abs() > money.Tolerance {
				t.Fatalf("run %d: member %s left with balance %d", run, b.MemberID, b.Net)
			}
		}
	}
}

// TestSimplifyDebts_Outsiders mixes in entries naming ids outside the member
// list and checks that only members are ever asked to pay or be paid.
func TestSimplifyDebts_Outsiders(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	outsiders := []string{"x", "y"}

	for run := 0; run < 200; run++ {
		members := make([]string, rng.Intn(5))
		isMember := make(map[string]bool, len(members))
		for i := range members {
			members[i] = fmt.Sprintf("m%d", i)
			isMember[members[i]] = true
		}
		ids := append(append([]string(nil), members...), outsiders...)

		var entries []models.LedgerEntry
		for k := 0; k < rng.Intn(30); k++ {
			from, to := ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))]
			if from == to {
				continue
			}
			entries = append(entries, entry(from, to, money.Money(10*(1+rng.Intn(10000)))))
		}

		settlements := SimplifyDebts(entries, members)

		limit := max(len(members)-1, 0)
		if len(settlements) > limit {
			t.Fatalf("run %d: %d settlements for %d members", run, len(settlements), len(members))
		}
		for _, s := range settlements {
			if !isMember[s.FromMemberID] || !isMember[s.ToMemberID] {
				t.Fatalf("run %d: settlement %+v names a non-member", run, s)
			}
		}
	}
}
