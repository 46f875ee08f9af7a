package models

// TransactionKind distinguishes money entering the pot from money leaving it.
type TransactionKind string

const (
	// KindBuyin is money a player puts into the pot.
	KindBuyin TransactionKind = "buyin"

	// KindCashout is money a player takes off the table.
	KindCashout TransactionKind = "cashout"
)

// Valid reports whether k is one of the defined transaction kinds.
func (k TransactionKind) Valid() bool {
	return k == KindBuyin || k == KindCashout
}

// Transaction is a single buy-in or cash-out event in a game's ledger.
// Transactions are append-only and immutable once recorded.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// PlayerID references the player this transaction belongs to.
	// It must name a player present in the same game.
	PlayerID string `json:"player_id"`

	// Kind is KindBuyin or KindCashout.
	Kind TransactionKind `json:"kind"`

	// Amount is the transaction value in dollars, always positive.
	Amount float64 `json:"amount"`

	// Timestamp is the Unix timestamp when the transaction was recorded.
	Timestamp int64 `json:"timestamp"`
}
