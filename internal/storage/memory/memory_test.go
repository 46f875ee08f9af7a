package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/pokernight/ledger/internal/models"
	"github.com/pokernight/ledger/internal/storage"
)

func TestMemoryStore(t *testing.T) {
	store := New()
	ctx := context.Background()

	game := &models.Game{
		ID:        "g1",
		Name:      "Test",
		Status:    models.StatusActive,
		CreatedAt: 100,
		Players:   []models.Player{{ID: "p1", Name: "Alice"}},
	}

	t.Run("save and get", func(t *testing.T) {
		if err := store.SaveGame(ctx, game); err != nil {
			t.Fatalf("SaveGame failed: %v", err)
		}
		got, err := store.GetGame(ctx, "g1")
		if err != nil {
			t.Fatalf("GetGame failed: %v", err)
		}
		if got.Name != "Test" || len(got.Players) != 1 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("returned games are isolated copies", func(t *testing.T) {
		got, _ := store.GetGame(ctx, "g1")
		got.Players[0].Name = "Mallory"
		got.Name = "Hijacked"

		fresh, _ := store.GetGame(ctx, "g1")
		if fresh.Players[0].Name != "Alice" || fresh.Name != "Test" {
			t.Errorf("stored game was mutated through a returned copy: %+v", fresh)
		}
	})

	t.Run("saved games are isolated from caller mutation", func(t *testing.T) {
		game.Players[0].Name = "Changed"
		fresh, _ := store.GetGame(ctx, "g1")
		if fresh.Players[0].Name != "Alice" {
			t.Errorf("stored game aliased the caller's value: %+v", fresh)
		}
		game.Players[0].Name = "Alice"
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		store.SaveGame(ctx, &models.Game{ID: "g2", Name: "Second", CreatedAt: 50})
		games, err := store.ListGames(ctx)
		if err != nil {
			t.Fatalf("ListGames failed: %v", err)
		}
		if len(games) != 2 || games[0].ID != "g1" || games[1].ID != "g2" {
			t.Errorf("order wrong: %+v", games)
		}
	})

	t.Run("active pointer", func(t *testing.T) {
		if err := store.SetActiveGameID(ctx, "g2"); err != nil {
			t.Fatalf("SetActiveGameID failed: %v", err)
		}
		id, _ := store.ActiveGameID(ctx)
		if id != "g2" {
			t.Errorf("active id = %q, want g2", id)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.DeleteGame(ctx, "g1"); err != nil {
			t.Fatalf("DeleteGame failed: %v", err)
		}
		if _, err := store.GetGame(ctx, "g1"); !errors.Is(err, storage.ErrGameNotFound) {
			t.Errorf("err = %v, want ErrGameNotFound", err)
		}
		games, _ := store.ListGames(ctx)
		if len(games) != 1 || games[0].ID != "g2" {
			t.Errorf("list after delete: %+v", games)
		}
	})
}
