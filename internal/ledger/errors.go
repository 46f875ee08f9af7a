package ledger

import "errors"

// Domain errors returned by lifecycle mutations.
var (
	ErrGameCompleted = errors.New("game is already completed")
	ErrUnknownPlayer = errors.New("transaction references a player not in this game")
	ErrInvalidAmount = errors.New("transaction amount must be a positive, finite number")
	ErrInvalidKind   = errors.New("transaction kind must be buyin or cashout")
)
