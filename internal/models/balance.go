package models

// PlayerBalance is a player's derived position in a game: totals across the
// ledger and the resulting net balance. Recomputed fresh on every query.
type PlayerBalance struct {
	// PlayerID references the player this balance belongs to.
	PlayerID string `json:"player_id"`

	// PlayerName is carried along so settlements and validation messages
	// can name people without a second lookup.
	PlayerName string `json:"player_name"`

	// TotalBuyins is the sum of the player's buy-in transactions.
	TotalBuyins float64 `json:"total_buyins"`

	// TotalCashouts is the sum of the player's cash-out transactions.
	TotalCashouts float64 `json:"total_cashouts"`

	// NetBalance is TotalCashouts - TotalBuyins. Positive means the
	// player is owed money; negative means the player owes money.
	NetBalance float64 `json:"net_balance"`
}

// Settlement is one payer-to-payee transfer in the simplified debt graph.
type Settlement struct {
	// From is the display name of the player who pays.
	From string `json:"from"`

	// To is the display name of the player who receives.
	To string `json:"to"`

	// Amount is the transfer value in dollars, rounded to cents,
	// always positive.
	Amount float64 `json:"amount"`
}

// Validation is the result of checking whether a game's ledger is consistent
// enough to settle. Errors block settlement; warnings do not.
type Validation struct {
	// IsValid is true iff Errors is empty.
	IsValid bool `json:"is_valid"`

	// Errors are blocking problems. When any hard check fails, evaluation
	// short-circuits and totals below are left at zero.
	Errors []string `json:"errors"`

	// Warnings are advisory problems the operator may choose to ignore,
	// such as buy-ins and cash-outs that do not balance.
	Warnings []string `json:"warnings"`

	// TotalBuyins is the aggregate buy-in amount across all players.
	TotalBuyins float64 `json:"total_buyins"`

	// TotalCashouts is the aggregate cash-out amount across all players.
	TotalCashouts float64 `json:"total_cashouts"`

	// NetDifference is the absolute difference between the two totals.
	NetDifference float64 `json:"net_difference"`
}

// GameSummary bundles everything the presentation layer needs to show a
// finished game: the game itself, per-player balances, the settlement plan,
// and the total pot.
type GameSummary struct {
	Game *Game `json:"game"`

	Balances []PlayerBalance `json:"balances"`

	Settlements []Settlement `json:"settlements"`

	// TotalPot is the sum of all buy-ins across all players.
	TotalPot float64 `json:"total_pot"`
}
