// Package ledger implements the balance-and-settlement engine: reducing a
// game's transaction ledger to per-player net positions, simplifying those
// positions into a minimal set of payments, validating that a ledger is
// consistent enough to settle, and the game lifecycle mutations that feed it.
//
// Everything here is a pure, synchronous computation over an in-memory Game.
// Callers are responsible for serializing concurrent edits to the same game.
package ledger

import "github.com/pokernight/ledger/internal/models"

// CalculateBalances reduces a game's ledger to one PlayerBalance per player,
// in player insertion order. Players with no transactions get a zero balance.
//
// Transactions referencing a player not in the game are skipped. AddTransaction
// rejects such references, so they can only appear in data that arrived through
// the persistence boundary; skipping keeps the calculator total on any input.
func CalculateBalances(g *models.Game) []models.PlayerBalance {
	balances := make([]models.PlayerBalance, len(g.Players))
	index := make(map[string]*models.PlayerBalance, len(g.Players))
	for i, p := range g.Players {
		balances[i] = models.PlayerBalance{
			PlayerID:   p.ID,
			PlayerName: p.Name,
		}
		index[p.ID] = &balances[i]
	}

	for _, txn := range g.Transactions {
		bal, ok := index[txn.PlayerID]
		if !ok {
			continue
		}
		switch txn.Kind {
		case models.KindBuyin:
			bal.TotalBuyins += txn.Amount
			bal.NetBalance -= txn.Amount
		case models.KindCashout:
			bal.TotalCashouts += txn.Amount
			bal.NetBalance += txn.Amount
		}
	}

	return balances
}

// TotalPot returns the sum of all buy-ins across the given balances.
func TotalPot(balances []models.PlayerBalance) float64 {
	var pot float64
	for _, b := range balances {
		pot += b.TotalBuyins
	}
	return pot
}
