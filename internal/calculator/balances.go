package calculator

import (
	"sort"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// NetBalances computes each member's position over the unsettled entries.
// Settled entries are skipped, and so is either side of an entry that names
// someone outside members. Balances come back in member order.
func NetBalances(entries []models.LedgerEntry, members []string) []models.MemberBalance {
	balances := make([]models.MemberBalance, 0, len(members))
	index := make(map[string]int, len(members))
	for _, id := range members {
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = len(balances)
		balances = append(balances, models.MemberBalance{MemberID: id})
	}

	for _, e := range entries {
		if e.Settled {
			continue
		}
		if i, ok := index[e.FromMemberID]; ok {
			balances[i].Owes += e.Amount
		}
		if i, ok := index[e.ToMemberID]; ok {
			balances[i].Owed += e.Amount
		}
	}

	for i := range balances {
		balances[i].Net = balances[i].Owed - balances[i].Owes
	}
	return balances
}

// party is a debtor or creditor with the amount still outstanding.
type party struct {
	id     string
	amount money.Money
}

// SimplifyDebts reduces the unsettled entries to a short list of transfers
// that bring every member's net balance back to zero.
//
// Algorithm:
//   - net balance = owed to member - owed by member
//   - balances within ±money.Tolerance are treated as settled
//   - debtors and creditors are each sorted by amount, largest first,
//     ties kept in member order
//   - the largest debtor pays the largest creditor min(debt, credit),
//     advancing past either side once it has at most Tolerance left
//
// The result has at most len(members)-1 transfers. It is not always the
// theoretical minimum, but every transfer is large and easy to check.
func SimplifyDebts(entries []models.LedgerEntry, members []string) []models.Settlement {
	var debtors, creditors []party
	for _, b := range NetBalances(entries, members) {
		switch {
		case b.Net < -money.Tolerance:
			debtors = append(debtors, party{id: b.MemberID, amount: -b.Net})
		case b.Net > money.Tolerance:
			creditors = append(creditors, party{id: b.MemberID, amount: b.Net})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })

	settlements := make([]models.Settlement, 0, len(debtors)+len(creditors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		pay := min(debtors[i].amount, creditors[j].amount)
		settlements = append(settlements, models.Settlement{
			FromMemberID: debtors[i].id,
			ToMemberID:   creditors[j].id,
			Amount:       pay,
		})

		debtors[i].amount -= pay
		creditors[j].amount -= pay

		if debtors[i].amount <= money.Tolerance {
			i++
		}
		if creditors[j].amount <= money.Tolerance {
			j++
		}
	}

	return settlements
}
