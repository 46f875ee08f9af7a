// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/pokernight/ledger/internal/models"
	"github.com/pokernight/ledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveGame persists a game, replacing any existing rows for the same ID.
// Player and transaction rows are rewritten wholesale so the stored state
// always matches the in-memory value exactly.
func (s *SQLiteStore) SaveGame(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.CreatedAt == 0 {
		game.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, name, date, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   date = excluded.date,
		   status = excluded.status,
		   created_at = excluded.created_at,
		   completed_at = excluded.completed_at`,
		game.ID, game.Name, game.Date, game.Status, game.CreatedAt, game.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE game_id = ?", game.ID); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE game_id = ?", game.ID); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	for i, p := range game.Players {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO players (id, game_id, name, created_at, position) VALUES (?, ?, ?, ?, ?)",
			p.ID, game.ID, p.Name, p.CreatedAt, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}
	}

	for i, txn := range game.Transactions {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO transactions (id, game_id, player_id, kind, amount, timestamp, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			txn.ID, game.ID, txn.PlayerID, txn.Kind, txn.Amount, txn.Timestamp, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID, including all players and transactions
// in insertion order.
func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game := &models.Game{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, date, status, created_at, completed_at FROM games WHERE id = ?",
		gameID,
	).Scan(&game.ID, &game.Name, &game.Date, &game.Status, &game.CreatedAt, &game.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err := s.loadPlayers(ctx, game); err != nil {
		return nil, err
	}
	if err := s.loadTransactions(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// ListGames retrieves all games ordered by creation time.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]*models.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM games ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	games := make([]*models.Game, 0, len(ids))
	for _, id := range ids {
		game, err := s.GetGame(ctx, id)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// DeleteGame removes a game and its players and transactions.
func (s *SQLiteStore) DeleteGame(ctx context.Context, gameID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	return nil
}

// ActiveGameID returns the stored active-game pointer, or "" when unset.
func (s *SQLiteStore) ActiveGameID(ctx context.Context) (string, error) {
	var gameID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT game_id FROM active_game WHERE id = 1",
	).Scan(&gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get active game: %w", err)
	}
	return gameID.String, nil
}

// SetActiveGameID records the active-game pointer; "" clears it.
func (s *SQLiteStore) SetActiveGameID(ctx context.Context, gameID string) error {
	value := sql.NullString{String: gameID, Valid: gameID != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_game (id, game_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET game_id = excluded.game_id`,
		value,
	)
	if err != nil {
		return fmt.Errorf("failed to set active game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadPlayers(ctx context.Context, game *models.Game) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM players WHERE game_id = ? ORDER BY position",
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	game.Players = []models.Player{}
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan player: %w", err)
		}
		game.Players = append(game.Players, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate players: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadTransactions(ctx context.Context, game *models.Game) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, player_id, kind, amount, timestamp FROM transactions WHERE game_id = ? ORDER BY position",
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	game.Transactions = []models.Transaction{}
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(&txn.ID, &txn.PlayerID, &txn.Kind, &txn.Amount, &txn.Timestamp); err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}
		game.Transactions = append(game.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return nil
}
