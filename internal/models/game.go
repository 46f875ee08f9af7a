package models

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	// StatusActive means the game is accepting players and transactions.
	StatusActive GameStatus = "active"

	// StatusCompleted means the game has been closed out. The transition
	// is one-way; a completed game accepts no further mutations.
	StatusCompleted GameStatus = "completed"
)

// Game represents one poker night: a named session owning an ordered list
// of players and an append-only ledger of their buy-ins and cash-outs.
type Game struct {
	// ID is the unique identifier for the game (UUID format).
	ID string `json:"id"`

	// Name is the display name of the game (e.g., "Friday Night Game").
	Name string `json:"name"`

	// Date is the Unix timestamp of the game night itself.
	Date int64 `json:"date"`

	// Status is either StatusActive or StatusCompleted.
	Status GameStatus `json:"status"`

	// Players is the list of participants in insertion order.
	Players []Player `json:"players"`

	// Transactions is the ledger in insertion order, spanning all players.
	// Every Transaction.PlayerID references a player in Players.
	Transactions []Transaction `json:"transactions"`

	// CreatedAt is the Unix timestamp when the game was created.
	CreatedAt int64 `json:"created_at"`

	// CompletedAt is the Unix timestamp when the game was completed.
	// Zero while the game is still active.
	CompletedAt int64 `json:"completed_at,omitempty"`
}

// FindPlayer returns the player with the given ID, or nil if no player
// in this game has that ID.
func (g *Game) FindPlayer(playerID string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the game. Stores hand out clones so that
// callers mutating a game never alias another caller's copy.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]Player, len(g.Players))
	copy(c.Players, g.Players)
	c.Transactions = make([]Transaction, len(g.Transactions))
	copy(c.Transactions, g.Transactions)
	return &c
}
