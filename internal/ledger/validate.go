package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/pokernight/ledger/internal/models"
)

// imbalanceTolerance is how far aggregate buy-ins and cash-outs may diverge,
// in dollars, before the validator warns that the ledger does not balance.
const imbalanceTolerance = 0.01

// Validate decides whether a game's balances are consistent enough to settle.
//
// Hard checks run in a fixed order and short-circuit: an empty balance list,
// fewer than two players, then players with no recorded activity. When one
// fires, the result carries only that error and the aggregate totals are left
// at zero. Past the gate, totals are computed and an imbalance beyond the
// tolerance is reported as a warning the operator may ignore (chips still on
// the table, uncollected cash-outs).
func Validate(balances []models.PlayerBalance) models.Validation {
	v := models.Validation{}

	if len(balances) == 0 {
		v.Errors = append(v.Errors, "no player balances available for validation")
		return v
	}
	if len(balances) < 2 {
		v.Errors = append(v.Errors, "at least two players are required to settle a game")
		return v
	}
	var idle []string
	for _, b := range balances {
		if b.TotalBuyins == 0 && b.TotalCashouts == 0 {
			idle = append(idle, b.PlayerName)
		}
	}
	if len(idle) > 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("players with no activity: %s", strings.Join(idle, ", ")))
		return v
	}

	v.IsValid = true
	for _, b := range balances {
		v.TotalBuyins += b.TotalBuyins
		v.TotalCashouts += b.TotalCashouts
	}
	v.NetDifference = math.Abs(v.TotalBuyins - v.TotalCashouts)

	if v.NetDifference > imbalanceTolerance {
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"total buyins ($%.2f) and cashouts ($%.2f) differ by $%.2f, which exceeds the tolerance of $%.2f",
			v.TotalBuyins, v.TotalCashouts, v.NetDifference, imbalanceTolerance))
	}

	return v
}
