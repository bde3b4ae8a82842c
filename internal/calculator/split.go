package calculator

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

var (
	zeroPercent    = decimal.Zero
	hundredPercent = decimal.NewFromInt(100)
)

// AllocateBill computes how much each member owes for one bill.
//
// Algorithm:
//   - item_total = price × quantity
//   - shared items add item_total / assignees to every assignee,
//     individual items add the full item_total to every assignee
//   - member_total = member_subtotal × (1 + tax% + service%)
//   - with a treat, the treating member pays grand_total × p%, and everyone
//     else pays (grand_total - treat) × member_total / bill_subtotal
//
// All of the above is exact decimal arithmetic; only the reported amounts are
// rounded. Unassigned items count toward the subtotal but are charged to
// nobody, so the member totals may not add up to the grand total. That
// mismatch is reported as a warning, never corrected.
func AllocateBill(items []models.BillLineItem, charges models.BillCharges, treat models.Treat, members []string) (*models.Allocation, error) {
	index, err := memberIndex(members)
	if err != nil {
		return nil, err
	}
	taxPct, err := clampPercent("taxPercent", charges.TaxPercent)
	if err != nil {
		return nil, err
	}
	servicePct, err := clampPercent("servicePercent", charges.ServicePercent)
	if err != nil {
		return nil, err
	}
	treatingID, treatPct, err := resolveTreat(treat, index)
	if err != nil {
		return nil, err
	}

	// Accumulate each member's item share at full precision
	subtotals := make([]decimal.Decimal, len(members))
	for i := range subtotals {
		subtotals[i] = decimal.Zero
	}
	billSubtotal := decimal.Zero

	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return nil, err
		}

		itemTotal := item.Price.Decimal().Mul(decimal.NewFromInt(int64(item.Quantity)))
		billSubtotal = billSubtotal.Add(itemTotal)

		assignees := uniqueIDs(item.AssignedTo)
		if len(assignees) == 0 {
			continue
		}

		share := itemTotal
		if item.SplitType == models.SplitShared {
			share = itemTotal.Div(decimal.NewFromInt(int64(len(assignees))))
		}
		for _, id := range assignees {
			idx, ok := index[id]
			if !ok {
				slog.Debug("Item assigned to unknown member", "item", item.Name, "member_id", id)
				continue
			}
			subtotals[idx] = subtotals[idx].Add(share)
		}
	}

	taxAmount := money.Percent(billSubtotal, taxPct)
	serviceAmount := money.Percent(billSubtotal, servicePct)
	grandTotal := billSubtotal.Add(taxAmount).Add(serviceAmount)

	alloc := &models.Allocation{
		MemberTotals:  make(map[string]money.Money, len(members)),
		Splits:        make([]models.MemberSplit, len(members)),
		Subtotal:      money.Round(billSubtotal),
		TaxAmount:     money.Round(taxAmount),
		ServiceAmount: money.Round(serviceAmount),
		GrandTotal:    money.Round(grandTotal),
	}

	var treatAmount, remaining decimal.Decimal
	if treatingID != "" {
		treatAmount = money.Percent(grandTotal, treatPct)
		remaining = grandTotal.Sub(treatAmount)
	}

	for i, id := range members {
		tax := money.Percent(subtotals[i], taxPct)
		service := money.Percent(subtotals[i], servicePct)
		total := subtotals[i].Add(tax).Add(service)

		if treatingID != "" {
			switch {
			case id == treatingID:
				total = treatAmount
			case billSubtotal.IsZero():
				total = decimal.Zero
			default:
				total = remaining.Mul(total).Div(billSubtotal)
			}
		}

		rounded := money.Round(total)
		alloc.MemberTotals[id] = rounded
		alloc.Splits[i] = models.MemberSplit{
			MemberID: id,
			Subtotal: money.Round(subtotals[i]),
			Tax:      money.Round(tax),
			Service:  money.Round(service),
			Total:    rounded,
			Treating: id == treatingID,
		}
	}

	if w, ok := verify(alloc); !ok {
		alloc.Warnings = append(alloc.Warnings, w)
	}

	return alloc, nil
}

// verify compares the rounded member totals against the grand total.
func verify(alloc *models.Allocation) (models.Warning, bool) {
	allocated := alloc.Allocated()
	if allocated.Within(alloc.GrandTotal) {
		return models.Warning{}, true
	}
	diff := alloc.GrandTotal - allocated
	return models.Warning{
		Kind:       models.WarningVerificationDiscrepancy,
		Message:    fmt.Sprintf("member totals add up to %s, grand total is %s", allocated, alloc.GrandTotal),
		Expected:   alloc.GrandTotal,
		Allocated:  allocated,
		Difference: diff,
	}, false
}

func memberIndex(members []string) (map[string]int, error) {
	index := make(map[string]int, len(members))
	for i, id := range members {
		if id == "" {
			return nil, models.InvalidInput("member %d has an empty id", i)
		}
		if _, dup := index[id]; dup {
			return nil, models.InvalidInput("duplicate member id %q", id)
		}
		index[id] = i
	}
	return index, nil
}

func validateItem(i int, item models.BillLineItem) error {
	if item.Price < 0 {
		return models.InvalidInput("item %d (%s): price must not be negative", i, item.Name)
	}
	if item.Quantity < 0 {
		return models.InvalidInput("item %d (%s): quantity must not be negative", i, item.Name)
	}
	if item.Quantity == 0 {
		return models.InvalidInput("item %d (%s): quantity must be at least 1", i, item.Name)
	}
	switch item.SplitType {
	case models.SplitShared, models.SplitIndividual, "":
		return nil
	default:
		return models.InvalidInput("item %d (%s): unknown split type %q", i, item.Name, item.SplitType)
	}
}

// resolveTreat returns the treating member and percentage, or an empty id
// when no treat applies.
func resolveTreat(treat models.Treat, index map[string]int) (string, decimal.Decimal, error) {
	switch treat.Policy {
	case models.TreatSplit, "":
		return "", decimal.Zero, nil
	case models.TreatAll, models.TreatPartial:
	default:
		return "", decimal.Zero, models.InvalidInput("unknown treat policy %q", treat.Policy)
	}

	if treat.TreatingMemberID == "" {
		return "", decimal.Zero, models.InvalidInput("treat policy %q requires a treating member", treat.Policy)
	}
	if _, ok := index[treat.TreatingMemberID]; !ok {
		return "", decimal.Zero, models.InvalidInput("treating member %q is not a bill member", treat.TreatingMemberID)
	}

	pct := hundredPercent
	if treat.Percentage != nil {
		var err error
		pct, err = clampPercent("treat percentage", *treat.Percentage)
		if err != nil {
			return "", decimal.Zero, err
		}
	}
	return treat.TreatingMemberID, pct, nil
}

// clampPercent converts p to a decimal in [0, 100].
func clampPercent(field string, p float64) (decimal.Decimal, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return decimal.Zero, models.InvalidInput("%s is not a number", field)
	}
	d := decimal.NewFromFloat(p)
	switch {
	case d.LessThan(zeroPercent):
		return zeroPercent, nil
	case d.GreaterThan(hundredPercent):
		return hundredPercent, nil
	}
	return d, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
