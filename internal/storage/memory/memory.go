// Package memory provides an in-memory implementation of storage.Store,
// used in tests and for ephemeral runs with no database file.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pokernight/ledger/internal/models"
	"github.com/pokernight/ledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store holds games in a mutex-guarded map. Games are deep-copied on the way
// in and out, so a caller mutating a returned game cannot corrupt stored
// state behind the service layer's back.
type Store struct {
	mu           sync.Mutex
	games        map[string]*models.Game
	order        []string
	activeGameID string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{games: make(map[string]*models.Game)}
}

// SaveGame stores a deep copy of the game, replacing any existing entry.
func (s *Store) SaveGame(ctx context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[game.ID]; !exists {
		s.order = append(s.order, game.ID)
	}
	s.games[game.ID] = game.Clone()
	return nil
}

// GetGame returns a deep copy of the stored game.
func (s *Store) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	return game.Clone(), nil
}

// ListGames returns deep copies of all games in insertion order.
func (s *Store) ListGames(ctx context.Context) ([]*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := make([]*models.Game, 0, len(s.order))
	for _, id := range s.order {
		games = append(games, s.games[id].Clone())
	}
	return games, nil
}

// DeleteGame removes a game.
func (s *Store) DeleteGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	delete(s.games, gameID)
	for i, id := range s.order {
		if id == gameID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ActiveGameID returns the active-game pointer, or "" when unset.
func (s *Store) ActiveGameID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeGameID, nil
}

// SetActiveGameID records the active-game pointer; "" clears it.
func (s *Store) SetActiveGameID(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeGameID = gameID
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
