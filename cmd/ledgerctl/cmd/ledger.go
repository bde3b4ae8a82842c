package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEntriesCmd(a *app) *cobra.Command {
	var unsettled bool
	cmd := &cobra.Command{
		Use:   "entries <group-id>",
		Short: "List the group's ledger entries in insertion order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.ledger.Entries(cmd.Context(), args[0], unsettled)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&unsettled, "unsettled", false, "only show unsettled entries")
	return cmd
}

func newSimplifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify <group-id>",
		Short: "Propose the transfers that settle the group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settlements, err := a.ledger.Simplify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(settlements) == 0 {
				fmt.Fprintln(out, "All settled up")
				return nil
			}
			tw := newTable(out)
			row(tw, "FROM", "TO", "AMOUNT")
			for _, s := range settlements {
				row(tw, s.FromMemberID, s.ToMemberID, s.Amount)
			}
			return tw.Flush()
		},
	}
}

func newBalancesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show each member's net position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balances, err := a.ledger.Balances(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			row(tw, "MEMBER", "OWED", "OWES", "NET")
			for _, b := range balances {
				row(tw, b.MemberID, b.Owed, b.Owes, b.Net)
			}
			return tw.Flush()
		},
	}
}

func newSettleCmd(a *app) *cobra.Command {
	var entryIDs []string
	cmd := &cobra.Command{
		Use:   "settle <group-id>",
		Short: "Mark entries settled (all unsettled entries unless --entry is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				n   int
				err error
			)
			if len(entryIDs) > 0 {
				n, err = a.ledger.SettleEntries(cmd.Context(), args[0], entryIDs)
			} else {
				n, err = a.ledger.SettleAll(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settled %d entries\n", n)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&entryIDs, "entry", nil, "entry id to settle (repeatable or comma-separated)")
	return cmd
}
