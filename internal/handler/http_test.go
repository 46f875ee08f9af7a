package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pokernight/ledger/internal/auth"
	"github.com/pokernight/ledger/internal/service"
	"github.com/pokernight/ledger/internal/storage/memory"
)

func setupTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	h := New(service.New(memory.New()), opts)
	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body failed: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	return resp, envelope
}

func TestGameAPIFlow(t *testing.T) {
	server := setupTestServer(t, Options{})
	base := server.URL + "/api/v1"

	// Create a game.
	resp, env := doJSON(t, http.MethodPost, base+"/games", map[string]string{"name": "Friday"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var game struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env["data"], &game); err != nil {
		t.Fatalf("decoding game failed: %v", err)
	}
	if game.ID == "" || game.Status != "active" {
		t.Fatalf("game = %+v, want active with ID", game)
	}

	// The created game is active.
	resp, env = doJSON(t, http.MethodGet, base+"/games/active", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("active status = %d, want 200", resp.StatusCode)
	}

	// Add two players.
	playerIDs := map[string]string{}
	for _, name := range []string{"Alice", "Bob"} {
		resp, env = doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/games/%s/players", base, game.ID),
			map[string]string{"name": name}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add player status = %d, want 201", resp.StatusCode)
		}
		var player struct {
			ID string `json:"id"`
		}
		json.Unmarshal(env["data"], &player)
		playerIDs[name] = player.ID
	}

	// Record a balanced ledger.
	txns := []map[string]any{
		{"player_id": playerIDs["Alice"], "kind": "buyin", "amount": 100},
		{"player_id": playerIDs["Bob"], "kind": "buyin", "amount": 100},
		{"player_id": playerIDs["Alice"], "kind": "cashout", "amount": 160},
		{"player_id": playerIDs["Bob"], "kind": "cashout", "amount": 40},
	}
	for _, txn := range txns {
		resp, _ = doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/games/%s/transactions", base, game.ID), txn, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add transaction status = %d, want 201", resp.StatusCode)
		}
	}

	// Rejected transaction: unknown player.
	resp, _ = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/games/%s/transactions", base, game.ID),
		map[string]any{"player_id": "ghost", "kind": "buyin", "amount": 10}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("dangling player status = %d, want 400", resp.StatusCode)
	}

	// Balances.
	resp, env = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/games/%s/balances", base, game.ID), nil, nil)
	var balances []struct {
		PlayerName string  `json:"player_name"`
		NetBalance float64 `json:"net_balance"`
	}
	json.Unmarshal(env["data"], &balances)
	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(balances))
	}
	if balances[0].NetBalance != 60 || balances[1].NetBalance != -60 {
		t.Errorf("balances = %+v, want +60/-60", balances)
	}

	// Complete: balanced ledger passes cleanly.
	resp, env = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/games/%s/complete", base, game.ID), nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d, want 200", resp.StatusCode)
	}
	var result struct {
		Summary struct {
			TotalPot    float64 `json:"total_pot"`
			Settlements []struct {
				From   string  `json:"from"`
				To     string  `json:"to"`
				Amount float64 `json:"amount"`
			} `json:"settlements"`
		} `json:"summary"`
	}
	json.Unmarshal(env["data"], &result)
	if result.Summary.TotalPot != 200 {
		t.Errorf("TotalPot = %v, want 200", result.Summary.TotalPot)
	}
	if len(result.Summary.Settlements) != 1 ||
		result.Summary.Settlements[0].From != "Bob" ||
		result.Summary.Settlements[0].To != "Alice" ||
		result.Summary.Settlements[0].Amount != 60 {
		t.Errorf("settlements = %+v, want Bob pays Alice $60.00", result.Summary.Settlements)
	}

	// Mutating a completed game conflicts.
	resp, _ = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/games/%s/players", base, game.ID),
		map[string]string{"name": "Late"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("mutate completed status = %d, want 409", resp.StatusCode)
	}
}

func TestCompleteBlockedByValidation(t *testing.T) {
	server := setupTestServer(t, Options{})
	base := server.URL + "/api/v1"

	_, env := doJSON(t, http.MethodPost, base+"/games", map[string]string{"name": "Solo"}, nil)
	var game struct {
		ID string `json:"id"`
	}
	json.Unmarshal(env["data"], &game)

	doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/games/%s/players", base, game.ID),
		map[string]string{"name": "OnlyOne"}, nil)

	resp, env := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/games/%s/complete", base, game.ID), nil, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("complete status = %d, want 422", resp.StatusCode)
	}
	var result struct {
		Validation struct {
			IsValid bool     `json:"is_valid"`
			Errors  []string `json:"errors"`
		} `json:"validation"`
	}
	json.Unmarshal(env["data"], &result)
	if result.Validation.IsValid || len(result.Validation.Errors) == 0 {
		t.Errorf("validation = %+v, want hard errors in response", result.Validation)
	}
}

func TestUnknownGameIs404(t *testing.T) {
	server := setupTestServer(t, Options{})

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/games/missing", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAuthGating(t *testing.T) {
	hash, err := auth.HashPassphrase("table stakes only")
	if err != nil {
		t.Fatalf("HashPassphrase failed: %v", err)
	}
	tokens := auth.NewTokenManager("test-secret-key-32-bytes-long!!!", time.Hour)
	server := setupTestServer(t, Options{Tokens: tokens, PassphraseHash: hash})
	base := server.URL + "/api/v1"

	// No token: rejected.
	resp, _ := doJSON(t, http.MethodPost, base+"/games", map[string]string{"name": "X"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	// Wrong passphrase: rejected.
	resp, _ = doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{"passphrase": "wrong"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}

	// Login, then use the token.
	resp, env := doJSON(t, http.MethodPost, base+"/auth/login", map[string]string{"passphrase": "table stakes only"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env["data"], &login)
	if login.Token == "" {
		t.Fatal("expected a token")
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/games", map[string]string{"name": "X"},
		map[string]string{"Authorization": "Bearer " + login.Token})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("authenticated create status = %d, want 201", resp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t, Options{})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
