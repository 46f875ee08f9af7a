// Package service orchestrates the game lifecycle over a storage backend,
// invoking the ledger engine and gating completion on validation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pokernight/ledger/internal/ledger"
	"github.com/pokernight/ledger/internal/metrics"
	"github.com/pokernight/ledger/internal/models"
	"github.com/pokernight/ledger/internal/storage"
)

var (
	// ErrNameRequired is returned when a game or player name is empty.
	ErrNameRequired = errors.New("name is required")

	// ErrLedgerInvalid is returned when completion is blocked by hard
	// validation errors. The Validation alongside it carries the details.
	ErrLedgerInvalid = errors.New("ledger failed validation")
)

// GameService coordinates reads and writes of games. The core engine assumes
// exclusive access during a mutation, so the service serializes its
// read-modify-write sequences with a single mutex; the engine itself stays
// lock-free.
type GameService struct {
	store storage.Store
	mu    sync.Mutex
}

// New creates a GameService backed by the given store.
func New(store storage.Store) *GameService {
	return &GameService{store: store}
}

// CreateGame creates a new active game, persists it, and marks it as the
// active game.
func (s *GameService) CreateGame(ctx context.Context, name string) (*models.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game := ledger.NewGame(name)
	if err := s.store.SaveGame(ctx, game); err != nil {
		slog.Error("create game failed", "error", err)
		return nil, err
	}
	if err := s.store.SetActiveGameID(ctx, game.ID); err != nil {
		slog.Error("set active game failed", "game_id", game.ID, "error", err)
		return nil, err
	}

	metrics.GamesCreated.Inc()
	slog.Info("game created", "game_id", game.ID, "name", game.Name)
	return game, nil
}

// GetGame retrieves a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

// ListGames retrieves all games ordered by creation time.
func (s *GameService) ListGames(ctx context.Context) ([]*models.Game, error) {
	return s.store.ListGames(ctx)
}

// DeleteGame removes a game. If it was the active game, the active pointer
// is cleared.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	activeID, err := s.store.ActiveGameID(ctx)
	if err != nil {
		return err
	}
	if activeID == gameID {
		if err := s.store.SetActiveGameID(ctx, ""); err != nil {
			return err
		}
	}

	slog.Info("game deleted", "game_id", gameID)
	return nil
}

// ActiveGame returns the game currently being edited, or nil when no active
// game is set.
func (s *GameService) ActiveGame(ctx context.Context) (*models.Game, error) {
	activeID, err := s.store.ActiveGameID(ctx)
	if err != nil {
		return nil, err
	}
	if activeID == "" {
		return nil, nil
	}
	return s.store.GetGame(ctx, activeID)
}

// SetActiveGame points the active-game marker at an existing game, or clears
// it when gameID is empty.
func (s *GameService) SetActiveGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gameID != "" {
		if _, err := s.store.GetGame(ctx, gameID); err != nil {
			return err
		}
	}
	return s.store.SetActiveGameID(ctx, gameID)
}

// AddPlayer appends a player to an active game and persists the change.
func (s *GameService) AddPlayer(ctx context.Context, gameID, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := ledger.AddPlayer(game, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveGame(ctx, game); err != nil {
		slog.Error("save game failed", "game_id", gameID, "error", err)
		return nil, err
	}

	slog.Info("player added", "game_id", gameID, "player_id", player.ID, "name", player.Name)
	return player, nil
}

// AddTransaction appends a buy-in or cash-out to an active game and persists
// the change.
func (s *GameService) AddTransaction(ctx context.Context, gameID, playerID string, kind models.TransactionKind, amount float64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	txn, err := ledger.AddTransaction(game, playerID, kind, amount)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveGame(ctx, game); err != nil {
		slog.Error("save game failed", "game_id", gameID, "error", err)
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(kind)).Inc()
	slog.Info("transaction recorded",
		"game_id", gameID,
		"player_id", playerID,
		"kind", kind,
		"amount", amount,
	)
	return txn, nil
}

// Balances computes fresh per-player balances for a game.
func (s *GameService) Balances(ctx context.Context, gameID string) ([]models.PlayerBalance, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return ledger.CalculateBalances(game), nil
}

// Validate checks whether a game's ledger is consistent enough to settle.
func (s *GameService) Validate(ctx context.Context, gameID string) (models.Validation, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return models.Validation{}, err
	}
	return ledger.Validate(ledger.CalculateBalances(game)), nil
}

// Summary derives the full game summary: balances, settlements, total pot.
func (s *GameService) Summary(ctx context.Context, gameID string) (*models.GameSummary, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	summary := ledger.Summary(game)
	metrics.SettlementsPerGame.Observe(float64(len(summary.Settlements)))
	return summary, nil
}

// CompleteGame validates a game and, if no hard errors fire, transitions it
// to completed and returns the final summary. Warnings do not block; they are
// returned in the Validation for the caller to surface. On hard errors the
// game stays active and ErrLedgerInvalid is returned with the details.
func (s *GameService) CompleteGame(ctx context.Context, gameID string) (*models.GameSummary, models.Validation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, models.Validation{}, err
	}

	validation := ledger.Validate(ledger.CalculateBalances(game))
	if !validation.IsValid {
		slog.Warn("completion blocked", "game_id", gameID, "errors", validation.Errors)
		return nil, validation, ErrLedgerInvalid
	}

	if err := ledger.Complete(game); err != nil {
		return nil, validation, err
	}
	if err := s.store.SaveGame(ctx, game); err != nil {
		slog.Error("save game failed", "game_id", gameID, "error", err)
		return nil, validation, err
	}

	summary := ledger.Summary(game)
	metrics.GamesCompleted.Inc()
	metrics.SettlementsPerGame.Observe(float64(len(summary.Settlements)))
	slog.Info("game completed",
		"game_id", gameID,
		"total_pot", summary.TotalPot,
		"settlements", len(summary.Settlements),
		"warnings", len(validation.Warnings),
	)
	return summary, validation, nil
}
