package ledger

import (
	"math"
	"sort"

	"github.com/pokernight/ledger/internal/models"
)

// party is one side of the settlement matching: a player name and the
// remaining magnitude of their debt or credit.
type party struct {
	name   string
	amount float64
}

// OptimalSettlements reduces a list of net balances to a short sequence of
// payer-to-payee transfers that zeroes every balance out.
//
// The strategy is greedy largest-magnitude matching: debtors and creditors
// are each sorted descending by magnitude, then the current largest debtor
// pays the current largest creditor min(debt, credit) and whichever side hits
// zero advances. Ties keep player insertion order (the sort is stable), so
// output is deterministic for a given balance list.
//
// Players whose net balance rounds to zero cents are excluded entirely.
// Remaining magnitudes are rounded to cents after each match so float noise
// never produces a phantom settlement or stalls a cursor.
func OptimalSettlements(balances []models.PlayerBalance) []models.Settlement {
	var debtors, creditors []party
	for _, b := range balances {
		net := roundCents(b.NetBalance)
		switch {
		case net < 0:
			debtors = append(debtors, party{name: b.PlayerName, amount: -net})
		case net > 0:
			creditors = append(creditors, party{name: b.PlayerName, amount: net})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := math.Min(debtor.amount, creditor.amount)
		settlements = append(settlements, models.Settlement{
			From:   debtor.name,
			To:     creditor.name,
			Amount: roundCents(amount),
		})

		debtor.amount = roundCents(debtor.amount - amount)
		creditor.amount = roundCents(creditor.amount - amount)

		if debtor.amount == 0 {
			i++
		}
		if creditor.amount == 0 {
			j++
		}
	}

	return settlements
}

// roundCents rounds a dollar amount to the nearest cent.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
