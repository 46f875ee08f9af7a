// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/pokernight/ledger/internal/models"
)

// ErrGameNotFound is returned when a requested game does not exist.
var ErrGameNotFound = errors.New("game not found")

// Store defines the interface for the persistence collaborator. It durably
// holds the collection of games plus a single pointer to the game currently
// being edited. Implementations are assumed atomic and synchronous per call;
// the service layer does not retry or recover partial writes.
//
// Swapping backends (SQLite, in-memory, etc.) must not change service-layer
// behavior: every field of the data model round-trips losslessly.
type Store interface {
	// SaveGame persists a game, replacing any stored game with the same ID
	// wholesale (players and transactions included).
	SaveGame(ctx context.Context, game *models.Game) error

	// GetGame retrieves a game by ID. Returns ErrGameNotFound if absent.
	GetGame(ctx context.Context, gameID string) (*models.Game, error)

	// ListGames retrieves all games ordered by creation time.
	ListGames(ctx context.Context) ([]*models.Game, error)

	// DeleteGame removes a game by ID. Returns ErrGameNotFound if absent.
	DeleteGame(ctx context.Context, gameID string) error

	// ActiveGameID returns the ID of the game currently being edited,
	// or "" when none is set.
	ActiveGameID(ctx context.Context) (string, error)

	// SetActiveGameID records which game is currently being edited.
	// Passing "" clears the pointer.
	SetActiveGameID(ctx context.Context, gameID string) error

	// Close releases any resources held by the store.
	Close() error
}
