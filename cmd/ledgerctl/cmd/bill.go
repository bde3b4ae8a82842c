package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/api"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/service"
)

const billFileHelp = `The bill file is JSON ("-" reads stdin):

  {
    "items": [
      {"id": "1", "name": "Pizza", "price": 90000, "quantity": 1,
       "assignedTo": ["a", "b", "c"], "splitType": "shared"}
    ],
    "charges": {"taxPercent": 10, "servicePercent": 5},
    "treat": {"policy": "treat-partial", "treatingMemberId": "a", "percentage": 50}
  }`

func newAllocateCmd(a *app) *cobra.Command {
	var billFile string
	cmd := &cobra.Command{
		Use:   "allocate <group-id>",
		Short: "Show how a bill splits over the group without posting it",
		Long:  "Allocate a bill over the group's members.\n\n" + billFileHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bill, err := readBill(cmd, billFile)
			if err != nil {
				return err
			}
			alloc, err := a.ledger.AllocateBill(cmd.Context(), args[0], bill)
			if err != nil {
				return err
			}
			return printAllocation(cmd.OutOrStdout(), alloc)
		},
	}
	cmd.Flags().StringVar(&billFile, "bill", "-", "bill JSON file")
	return cmd
}

func newPostCmd(a *app) *cobra.Command {
	var (
		payer  string
		shares []string
		note   string
	)
	cmd := &cobra.Command{
		Use:     "post <group-id>",
		Short:   "Record that a member paid for others",
		Example: `  ledgerctl post <group-id> --payer a --share b=1500 --share c=2000 --note taxi`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, err := parseShares(shares)
			if err != nil {
				return err
			}
			entries, err := a.ledger.PostBill(cmd.Context(), args[0], payer, totals, note)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&payer, "payer", "", "member who paid")
	cmd.Flags().StringArrayVar(&shares, "share", nil, "member share as id=amount (repeatable)")
	cmd.Flags().StringVar(&note, "note", "", "note stored on every entry")
	_ = cmd.MarkFlagRequired("payer")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var (
		payer    string
		billFile string
		note     string
	)
	cmd := &cobra.Command{
		Use:   "split <group-id>",
		Short: "Allocate a bill and post it to the ledger",
		Long:  "Allocate a bill over the group's members and post the member totals.\n\n" + billFileHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bill, err := readBill(cmd, billFile)
			if err != nil {
				return err
			}
			alloc, entries, err := a.ledger.SplitBill(cmd.Context(), args[0], payer, bill, note)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printAllocation(out, alloc); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printEntries(out, entries)
		},
	}
	cmd.Flags().StringVar(&payer, "payer", "", "member who paid")
	cmd.Flags().StringVar(&billFile, "bill", "-", "bill JSON file")
	cmd.Flags().StringVar(&note, "note", "", "note stored on every entry")
	_ = cmd.MarkFlagRequired("payer")
	return cmd
}

func readBill(cmd *cobra.Command, path string) (service.Bill, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return service.Bill{}, fmt.Errorf("failed to read bill: %w", err)
	}

	var bill service.Bill
	if err := (api.Codec{}).Unmarshal(data, &bill); err != nil {
		return service.Bill{}, fmt.Errorf("invalid bill: %w", err)
	}
	return bill, nil
}

// parseShares parses "id=amount" values.
func parseShares(values []string) (map[string]money.Money, error) {
	totals := make(map[string]money.Money, len(values))
	for _, v := range values {
		id, amount, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid share %q: want id=amount", v)
		}
		m, err := money.Parse(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("invalid share %q: %w", v, err)
		}
		totals[strings.TrimSpace(id)] += m
	}
	return totals, nil
}

func printAllocation(w io.Writer, alloc *models.Allocation) error {
	tw := newTable(w)
	row(tw, "MEMBER", "SUBTOTAL", "TAX", "SERVICE", "TOTAL", "")
	for _, s := range alloc.Splits {
		treating := ""
		if s.Treating {
			treating = "treating"
		}
		row(tw, s.MemberID, s.Subtotal, s.Tax, s.Service, s.Total, treating)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSubtotal: %s  Tax: %s  Service: %s  Grand total: %s\n",
		alloc.Subtotal, alloc.TaxAmount, alloc.ServiceAmount, alloc.GrandTotal)
	for _, warning := range alloc.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning.Message)
	}
	return nil
}

func printEntries(w io.Writer, entries []models.LedgerEntry) error {
	tw := newTable(w)
	row(tw, "ID", "FROM", "TO", "AMOUNT", "SETTLED", "NOTE")
	for _, e := range entries {
		row(tw, e.ID, e.FromMemberID, e.ToMemberID, e.Amount, e.Settled, e.Note)
	}
	return tw.Flush()
}
