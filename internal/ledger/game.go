package ledger

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pokernight/ledger/internal/models"
)

// NewGame creates a game in active status with empty player and transaction
// lists, a fresh UUID, and the current time as both game date and creation
// timestamp.
func NewGame(name string) *models.Game {
	now := time.Now().Unix()
	return &models.Game{
		ID:           uuid.New().String(),
		Name:         name,
		Date:         now,
		Status:       models.StatusActive,
		Players:      []models.Player{},
		Transactions: []models.Transaction{},
		CreatedAt:    now,
	}
}

// AddPlayer appends a new player to an active game and returns it.
// Returns ErrGameCompleted if the game is no longer active. Player names are
// not required to be unique.
func AddPlayer(g *models.Game, name string) (*models.Player, error) {
	if g.Status != models.StatusActive {
		return nil, ErrGameCompleted
	}

	player := models.Player{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	g.Players = append(g.Players, player)
	return &player, nil
}

// AddTransaction appends a buy-in or cash-out to an active game's ledger.
//
// The core enforces its own preconditions rather than trusting the caller:
// the kind must be valid, the amount positive and finite, and the player ID
// must reference a player already in the game. A dangling reference is an
// error here, not something for the balance calculator to silently drop.
func AddTransaction(g *models.Game, playerID string, kind models.TransactionKind, amount float64) (*models.Transaction, error) {
	if g.Status != models.StatusActive {
		return nil, ErrGameCompleted
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return nil, ErrInvalidAmount
	}
	if g.FindPlayer(playerID) == nil {
		return nil, ErrUnknownPlayer
	}

	txn := models.Transaction{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		Kind:      kind,
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}
	g.Transactions = append(g.Transactions, txn)
	return &txn, nil
}

// Complete transitions a game to completed status and stamps CompletedAt.
// The transition is one-way; completing a completed game returns
// ErrGameCompleted.
//
// Complete performs no validation of its own. Whether an invalid ledger may
// be closed out past warnings is the orchestration layer's call, not an
// invariant of this operation.
func Complete(g *models.Game) error {
	if g.Status != models.StatusActive {
		return ErrGameCompleted
	}
	g.Status = models.StatusCompleted
	g.CompletedAt = time.Now().Unix()
	return nil
}

// Summary derives everything the presentation layer needs at game end:
// balances in player order, the settlement plan, and the total pot.
func Summary(g *models.Game) *models.GameSummary {
	balances := CalculateBalances(g)
	return &models.GameSummary{
		Game:        g,
		Balances:    balances,
		Settlements: OptimalSettlements(balances),
		TotalPot:    TotalPot(balances),
	}
}
