// Package handler exposes the game ledger over a JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pokernight/ledger/internal/auth"
	"github.com/pokernight/ledger/internal/ledger"
	"github.com/pokernight/ledger/internal/metrics"
	"github.com/pokernight/ledger/internal/middleware"
	"github.com/pokernight/ledger/internal/models"
	"github.com/pokernight/ledger/internal/service"
	"github.com/pokernight/ledger/internal/storage"
)

// Handler provides HTTP handlers for the ledger API.
type Handler struct {
	service        *service.GameService
	tokens         *auth.TokenManager
	passphraseHash string
	metricsEnabled bool
}

// Options configures optional handler features.
type Options struct {
	// Tokens and PassphraseHash enable operator auth when both are set.
	Tokens         *auth.TokenManager
	PassphraseHash string

	// MetricsEnabled mounts the Prometheus endpoint at /metrics.
	MetricsEnabled bool
}

// New creates an HTTP handler for the given service.
func New(svc *service.GameService, opts Options) *Handler {
	return &Handler{
		service:        svc,
		tokens:         opts.Tokens,
		passphraseHash: opts.PassphraseHash,
		metricsEnabled: opts.MetricsEnabled,
	}
}

// APIResponse represents a standard API response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Router creates and configures the HTTP router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", h.HealthCheck)
	if h.metricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if h.authEnabled() {
			r.Post("/auth/login", h.Login)
		}

		r.Group(func(r chi.Router) {
			if h.authEnabled() {
				r.Use(middleware.RequireAuth(h.tokens))
			}

			r.Route("/games", func(r chi.Router) {
				r.Post("/", h.CreateGame)
				r.Get("/", h.ListGames)

				r.Get("/active", h.GetActiveGame)
				r.Put("/active", h.SetActiveGame)

				r.Route("/{gameID}", func(r chi.Router) {
					r.Get("/", h.GetGame)
					r.Delete("/", h.DeleteGame)
					r.Post("/players", h.AddPlayer)
					r.Post("/transactions", h.AddTransaction)
					r.Get("/balances", h.GetBalances)
					r.Get("/validation", h.GetValidation)
					r.Get("/summary", h.GetSummary)
					r.Post("/complete", h.CompleteGame)
				})
			})
		})
	})

	return r
}

func (h *Handler) authEnabled() bool {
	return h.tokens != nil && h.passphraseHash != ""
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)},
	})
}

// Login exchanges the operator passphrase for a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := auth.VerifyPassphrase(h.passphraseHash, req.Passphrase); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	token, err := h.tokens.Generate("operator")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"token": token},
	})
}

// CreateGame creates a new game and makes it active.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	game, err := h.service.CreateGame(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: game})
}

// ListGames returns all games ordered by creation time.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListGames(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: games})
}

// GetGame returns one game by ID.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: game})
}

// DeleteGame removes a game.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// GetActiveGame returns the game currently being edited, or null data when
// none is set.
func (h *Handler) GetActiveGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.ActiveGame(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: game})
}

// SetActiveGame points the active-game marker at a game; an empty game_id
// clears it.
func (h *Handler) SetActiveGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"game_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.SetActiveGame(r.Context(), req.GameID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// AddPlayer appends a player to a game.
func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	player, err := h.service.AddPlayer(r.Context(), chi.URLParam(r, "gameID"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: player})
}

// AddTransaction appends a buy-in or cash-out to a game's ledger.
func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string  `json:"player_id"`
		Kind     string  `json:"kind"`
		Amount   float64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	txn, err := h.service.AddTransaction(r.Context(),
		chi.URLParam(r, "gameID"), req.PlayerID, models.TransactionKind(req.Kind), req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: txn})
}

// GetBalances returns fresh per-player balances for a game.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.Balances(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: balances})
}

// GetValidation returns the ledger validation result for a game.
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	validation, err := h.service.Validate(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: validation})
}

// GetSummary returns the full game summary: balances, settlements, total pot.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: summary})
}

// completeResponse carries the final summary together with any validation
// warnings the operator chose to proceed past.
type completeResponse struct {
	Summary    *models.GameSummary `json:"summary"`
	Validation models.Validation   `json:"validation"`
}

// CompleteGame validates and completes a game. Hard validation errors block
// with 422 and the validation details; warnings do not block.
func (h *Handler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	summary, validation, err := h.service.CompleteGame(r.Context(), chi.URLParam(r, "gameID"))
	if errors.Is(err, service.ErrLedgerInvalid) {
		writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error:   err.Error(),
			Data:    completeResponse{Validation: validation},
		})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if operator := middleware.GetOperator(r.Context()); operator != "" {
		slog.Info("game completed by operator", "operator", operator, "game_id", summary.Game.ID)
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    completeResponse{Summary: summary, Validation: validation},
	})
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrUnknownPlayer):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ledger.ErrGameCompleted):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, APIResponse{Success: false, Error: err.Error()})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
