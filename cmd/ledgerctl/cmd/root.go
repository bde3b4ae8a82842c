// Package cmd provides CLI commands for ledgerctl.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/service"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/internal/storage/backend"
	"github.com/mmynk/groupledger/pkg/logging"
)

// app holds what every subcommand needs once the root has opened the store.
type app struct {
	cfgFile string
	dbPath  string
	driver  string
	debug   bool

	store  storage.Store
	groups *service.GroupService
	ledger *service.LedgerService
}

// Execute runs ledgerctl with os.Args.
// This is called by main.main().
func Execute() error {
	a := &app{}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newRootCmd builds the command tree. The caller closes a once the command
// has run, whether or not it failed.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Manage group ledgers from the command line",
		Long: `ledgerctl works directly on a local group ledger database.

It supports:
- Creating groups and adding members
- Allocating bills over members with tax, service and treats
- Posting bills to a group's ledger
- Showing balances and a simplified settlement plan
- Settling entries and exporting or importing a ledger

Example:
  ledgerctl group create --name Dinner --member a:Alice --member b:Bob
  ledgerctl split <group-id> --payer a --bill bill.json
  ledgerctl simplify <group-id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (default: LEDGER_CONFIG or built-in defaults)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides config)")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "storage driver: sqlite or bolt (overrides config)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	// Add subcommands
	root.AddCommand(
		newGroupCmd(a),
		newAllocateCmd(a),
		newPostCmd(a),
		newSplitCmd(a),
		newEntriesCmd(a),
		newSimplifyCmd(a),
		newBalancesCmd(a),
		newSettleCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.dbPath != "" {
		cfg.DB.Path = a.dbPath
	}
	if a.driver != "" {
		cfg.DB.Driver = a.driver
	}

	// Keep stderr quiet for normal use
	level := "warn"
	if a.debug {
		level = "debug"
	}
	logging.Configure(cmd.ErrOrStderr(), level, cfg.Log.Format)

	slog.Debug("Opening database", "driver", cfg.DB.Driver, "path", cfg.DB.Path)
	store, err := backend.Open(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.store = store
	a.groups = service.NewGroupService(store)
	a.ledger = service.NewLedgerService(store)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// row writes tab-separated cells followed by a newline.
func row(w io.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}
