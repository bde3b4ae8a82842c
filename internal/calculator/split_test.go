package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

func pct(p float64) *float64 { return &p }

func TestAllocateBill(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.BillLineItem
		charges      models.BillCharges
		treat        models.Treat
		members      []string
		wantErr      bool
		validateFunc func(t *testing.T, alloc *models.Allocation)
	}{
		{
			name: "shared pizza among three",
			items: []models.BillLineItem{
				{Name: "Pizza", Price: 300000, Quantity: 1, AssignedTo: []string{"A", "B", "C"}, SplitType: models.SplitShared},
			},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				for _, id := range []string{"A", "B", "C"} {
					if got := alloc.MemberTotals[id]; got != 100000 {
						t.Errorf("%s total = %d, want 100000", id, got)
					}
				}
				if alloc.GrandTotal != 300000 {
					t.Errorf("grand total = %d, want 300000", alloc.GrandTotal)
				}
				if len(alloc.Warnings) != 0 {
					t.Errorf("unexpected warnings: %+v", alloc.Warnings)
				}
			},
		},
		{
			name: "shared split conserves total within rounding",
			items: []models.BillLineItem{
				{Name: "Cake", Price: 100000, Quantity: 1, AssignedTo: []string{"A", "B", "C"}, SplitType: models.SplitShared},
			},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				// 100000 / 3 = 33333.33 each
				sum := alloc.Allocated()
				if diff := (money.Money(100000) - sum).Abs(); diff > 2 {
					t.Errorf("sum of shares = %d, want 100000 within 2", sum)
				}
				if alloc.MemberTotals["A"] != 33333 {
					t.Errorf("A total = %d, want 33333", alloc.MemberTotals["A"])
				}
			},
		},
		{
			name: "individual item charges each assignee in full",
			items: []models.BillLineItem{
				{Name: "Tea", Price: 20000, Quantity: 2, AssignedTo: []string{"A", "B", "C"}, SplitType: models.SplitIndividual},
			},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				for _, id := range []string{"A", "B", "C"} {
					if got := alloc.MemberTotals[id]; got != 40000 {
						t.Errorf("%s total = %d, want 40000", id, got)
					}
				}
				if alloc.Allocated() != 120000 {
					t.Errorf("allocated = %d, want 120000", alloc.Allocated())
				}
				// Subtotal counts the item once, so the bill does not reconcile.
				if alloc.Subtotal != 40000 {
					t.Errorf("subtotal = %d, want 40000", alloc.Subtotal)
				}
				if len(alloc.Warnings) != 1 || alloc.Warnings[0].Kind != models.WarningVerificationDiscrepancy {
					t.Errorf("expected one discrepancy warning, got %+v", alloc.Warnings)
				}
			},
		},
		{
			name: "tax and service are proportional to each member's subtotal",
			items: []models.BillLineItem{
				{Name: "Steak", Price: 200000, Quantity: 1, AssignedTo: []string{"A"}, SplitType: models.SplitIndividual},
				{Name: "Salad", Price: 100000, Quantity: 1, AssignedTo: []string{"B"}, SplitType: models.SplitIndividual},
			},
			charges: models.BillCharges{TaxPercent: 10, ServicePercent: 5},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				// A: 200000 + 20000 tax + 10000 service
				// B: 100000 + 10000 tax + 5000 service
				// C ordered nothing and pays nothing
				a, b, c := alloc.Splits[0], alloc.Splits[1], alloc.Splits[2]
				if a.Tax != 20000 || a.Service != 10000 || a.Total != 230000 {
					t.Errorf("A split = %+v, want tax 20000 service 10000 total 230000", a)
				}
				if b.Tax != 10000 || b.Service != 5000 || b.Total != 115000 {
					t.Errorf("B split = %+v, want tax 10000 service 5000 total 115000", b)
				}
				if c.Total != 0 {
					t.Errorf("C total = %d, want 0", c.Total)
				}
				if alloc.TaxAmount != 30000 || alloc.ServiceAmount != 15000 || alloc.GrandTotal != 345000 {
					t.Errorf("breakdown = %d/%d/%d, want 30000/15000/345000",
						alloc.TaxAmount, alloc.ServiceAmount, alloc.GrandTotal)
				}
			},
		},
		{
			name: "treat-all at 100 percent",
			items: []models.BillLineItem{
				{Name: "Noodles", Price: 50000, Quantity: 2, AssignedTo: []string{"A", "B"}, SplitType: models.SplitShared},
				{Name: "Juice", Price: 30000, Quantity: 1, AssignedTo: []string{"C"}, SplitType: models.SplitIndividual},
			},
			charges: models.BillCharges{TaxPercent: 8},
			treat:   models.Treat{Policy: models.TreatAll, TreatingMemberID: "B"},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if alloc.MemberTotals["B"] != alloc.GrandTotal {
					t.Errorf("B total = %d, want grand total %d", alloc.MemberTotals["B"], alloc.GrandTotal)
				}
				if alloc.MemberTotals["A"] != 0 || alloc.MemberTotals["C"] != 0 {
					t.Errorf("non-treating totals = A:%d C:%d, want 0", alloc.MemberTotals["A"], alloc.MemberTotals["C"])
				}
				if !alloc.Splits[1].Treating {
					t.Error("expected B to be marked as treating")
				}
				if len(alloc.Warnings) != 0 {
					t.Errorf("unexpected warnings: %+v", alloc.Warnings)
				}
			},
		},
		{
			name: "treat-partial redistributes remainder by subtotal share",
			items: []models.BillLineItem{
				{Name: "Rice", Price: 60000, Quantity: 1, AssignedTo: []string{"A"}, SplitType: models.SplitIndividual},
				{Name: "Soup", Price: 40000, Quantity: 1, AssignedTo: []string{"B"}, SplitType: models.SplitIndividual},
			},
			treat:   models.Treat{Policy: models.TreatPartial, TreatingMemberID: "A", Percentage: pct(50)},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				// A treats 50% of 100000; B pays 50000 × 40000/100000
				if alloc.MemberTotals["A"] != 50000 {
					t.Errorf("A total = %d, want 50000", alloc.MemberTotals["A"])
				}
				if alloc.MemberTotals["B"] != 20000 {
					t.Errorf("B total = %d, want 20000", alloc.MemberTotals["B"])
				}
				if len(alloc.Warnings) != 1 || alloc.Warnings[0].Difference != 30000 {
					t.Errorf("expected discrepancy of 30000, got %+v", alloc.Warnings)
				}
			},
		},
		{
			name: "treat-partial redistributes charged totals",
			items: []models.BillLineItem{
				{Name: "Burger", Price: 100000, Quantity: 1, AssignedTo: []string{"A"}, SplitType: models.SplitIndividual},
				{Name: "Pasta", Price: 100000, Quantity: 1, AssignedTo: []string{"B"}, SplitType: models.SplitIndividual},
				{Name: "Curry", Price: 100000, Quantity: 1, AssignedTo: []string{"C"}, SplitType: models.SplitIndividual},
			},
			charges: models.BillCharges{TaxPercent: 10},
			treat:   models.Treat{Policy: models.TreatPartial, TreatingMemberID: "A", Percentage: pct(50)},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				// grand 330000, A treats 165000
				// B and C each pay 165000 × 110000/300000
				if alloc.GrandTotal != 330000 {
					t.Errorf("grand total = %d, want 330000", alloc.GrandTotal)
				}
				if alloc.MemberTotals["A"] != 165000 {
					t.Errorf("A total = %d, want 165000", alloc.MemberTotals["A"])
				}
				for _, id := range []string{"B", "C"} {
					if got := alloc.MemberTotals[id]; got != 60500 {
						t.Errorf("%s total = %d, want 60500", id, got)
					}
				}
				if len(alloc.Warnings) != 1 || alloc.Warnings[0].Difference != 44000 {
					t.Errorf("expected discrepancy of 44000, got %+v", alloc.Warnings)
				}
			},
		},
		{
			name: "treat-partial with service charge",
			items: []models.BillLineItem{
				{Name: "Rice", Price: 60000, Quantity: 1, AssignedTo: []string{"A"}, SplitType: models.SplitIndividual},
				{Name: "Soup", Price: 40000, Quantity: 1, AssignedTo: []string{"B"}, SplitType: models.SplitIndividual},
			},
			charges: models.BillCharges{ServicePercent: 20},
			treat:   models.Treat{Policy: models.TreatPartial, TreatingMemberID: "A", Percentage: pct(25)},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				// grand 120000, A treats 30000
				// B pays 90000 × 48000/100000
				if alloc.MemberTotals["A"] != 30000 {
					t.Errorf("A total = %d, want 30000", alloc.MemberTotals["A"])
				}
				if alloc.MemberTotals["B"] != 43200 {
					t.Errorf("B total = %d, want 43200", alloc.MemberTotals["B"])
				}
			},
		},
		{
			name: "treat percentage is clamped",
			items: []models.BillLineItem{
				{Name: "Coffee", Price: 10000, Quantity: 3, AssignedTo: []string{"A", "B", "C"}, SplitType: models.SplitShared},
			},
			treat:   models.Treat{Policy: models.TreatPartial, TreatingMemberID: "C", Percentage: pct(150)},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if alloc.MemberTotals["C"] != 30000 {
					t.Errorf("C total = %d, want 30000", alloc.MemberTotals["C"])
				}
				if alloc.MemberTotals["A"] != 0 {
					t.Errorf("A total = %d, want 0", alloc.MemberTotals["A"])
				}
			},
		},
		{
			name: "negative charges are clamped to zero",
			items: []models.BillLineItem{
				{Name: "Bread", Price: 10000, Quantity: 1, AssignedTo: []string{"A"}},
			},
			charges: models.BillCharges{TaxPercent: -5},
			members: []string{"A"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if alloc.TaxAmount != 0 || alloc.MemberTotals["A"] != 10000 {
					t.Errorf("tax = %d total = %d, want 0 and 10000", alloc.TaxAmount, alloc.MemberTotals["A"])
				}
			},
		},
		{
			name: "unassigned item is reported as a discrepancy",
			items: []models.BillLineItem{
				{Name: "Fries", Price: 25000, Quantity: 1, AssignedTo: []string{"A"}, SplitType: models.SplitShared},
				{Name: "Mystery", Price: 15000, Quantity: 1, SplitType: models.SplitShared},
			},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if alloc.Subtotal != 40000 {
					t.Errorf("subtotal = %d, want 40000", alloc.Subtotal)
				}
				if len(alloc.Warnings) != 1 {
					t.Fatalf("expected one warning, got %+v", alloc.Warnings)
				}
				w := alloc.Warnings[0]
				if w.Expected != 40000 || w.Allocated != 25000 || w.Difference != 15000 {
					t.Errorf("warning = %+v, want expected 40000 allocated 25000 difference 15000", w)
				}
			},
		},
		{
			name:    "treat with empty bill",
			treat:   models.Treat{Policy: models.TreatAll, TreatingMemberID: "A"},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if alloc.MemberTotals["A"] != 0 || alloc.MemberTotals["B"] != 0 {
					t.Errorf("totals = %v, want all zero", alloc.MemberTotals)
				}
				if len(alloc.Warnings) != 0 {
					t.Errorf("unexpected warnings: %+v", alloc.Warnings)
				}
			},
		},
		{
			name:    "no members and no items",
			members: nil,
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if len(alloc.MemberTotals) != 0 || alloc.GrandTotal != 0 {
					t.Errorf("expected empty allocation, got %+v", alloc)
				}
			},
		},
		{
			name: "duplicate assignees count once",
			items: []models.BillLineItem{
				{Name: "Pho", Price: 90000, Quantity: 1, AssignedTo: []string{"A", "A", "B"}, SplitType: models.SplitShared},
			},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, alloc *models.Allocation) {
				if alloc.MemberTotals["A"] != 45000 || alloc.MemberTotals["B"] != 45000 {
					t.Errorf("totals = %v, want 45000 each", alloc.MemberTotals)
				}
			},
		},
		{
			name:    "negative price",
			items:   []models.BillLineItem{{Name: "Refund", Price: -100, Quantity: 1, AssignedTo: []string{"A"}}},
			members: []string{"A"},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			items:   []models.BillLineItem{{Name: "Tea", Price: 100, Quantity: -1, AssignedTo: []string{"A"}}},
			members: []string{"A"},
			wantErr: true,
		},
		{
			name:    "non-numeric tax",
			charges: models.BillCharges{TaxPercent: math.NaN()},
			members: []string{"A"},
			wantErr: true,
		},
		{
			name:    "treating member not in members",
			treat:   models.Treat{Policy: models.TreatAll, TreatingMemberID: "Z"},
			members: []string{"A", "B"},
			wantErr: true,
		},
		{
			name:    "treat without treating member",
			treat:   models.Treat{Policy: models.TreatPartial},
			members: []string{"A", "B"},
			wantErr: true,
		},
		{
			name:    "unknown treat policy",
			treat:   models.Treat{Policy: "treat-some", TreatingMemberID: "A"},
			members: []string{"A"},
			wantErr: true,
		},
		{
			name:    "duplicate members",
			members: []string{"A", "A"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc, err := AllocateBill(tt.items, tt.charges, tt.treat, tt.members)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AllocateBill() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, alloc)
			}
		})
	}
}

func TestAllocateBill_SplitsFollowMemberOrder(t *testing.T) {
	members := []string{"C", "A", "B"}
	alloc, err := AllocateBill(nil, models.BillCharges{}, models.Treat{}, members)
	if err != nil {
		t.Fatalf("AllocateBill() error = %v", err)
	}
	for i, id := range members {
		if alloc.Splits[i].MemberID != id {
			t.Errorf("split %d = %s, want %s", i, alloc.Splits[i].MemberID, id)
		}
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{-10, "0"},
		{0, "0"},
		{12.5, "12.5"},
		{100, "100"},
		{250, "100"},
	}
	for _, tt := range tests {
		got, err := clampPercent("p", tt.in)
		if err != nil {
			t.Fatalf("clampPercent(%v) error = %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("clampPercent(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if _, err := clampPercent("p", math.Inf(1)); err == nil {
		t.Error("clampPercent(+Inf) should fail")
	}
}
