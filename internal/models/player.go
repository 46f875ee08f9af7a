package models

// Player represents a participant in a single game.
// Players belong to exactly one game and are immutable once created.
type Player struct {
	// ID is the unique identifier for the player (UUID format).
	ID string `json:"id"`

	// Name is the display name. No uniqueness is enforced; two players
	// named "Alex" at the same table are the operator's problem.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the player joined the game.
	CreatedAt int64 `json:"created_at"`
}
