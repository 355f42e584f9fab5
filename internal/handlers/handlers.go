// Package handlers exposes the game session operations over HTTP and
// websocket. Routing mirrors the other fortuna services: chi with the
// standard middleware stack and CORS for the browser UI.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/fortuna/services/stat-tracker/internal/hub"
	"github.com/fortuna/services/stat-tracker/internal/session"
	"github.com/fortuna/services/stat-tracker/internal/store"
	"github.com/fortuna/services/stat-tracker/pkg/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler wires the session manager to the HTTP surface.
type Handler struct {
	manager *session.Manager
	remote  store.RemoteStore
	hub     *hub.Hub
	ctx     context.Context
}

// NewHandler creates a handler. ctx bounds websocket pump lifetimes.
func NewHandler(manager *session.Manager, remote store.RemoteStore, h *hub.Hub, ctx context.Context) *Handler {
	return &Handler{
		manager: manager,
		remote:  remote,
		hub:     h,
		ctx:     ctx,
	}
}

// NewRouter builds the service router.
func NewRouter(h *Handler, corsOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HandleHealth)
	r.Get("/ws/games/{game_name}", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", h.HandleListGames)
		r.Route("/games/{game_name}", func(r chi.Router) {
			r.Post("/", h.HandleInitGame)
			r.Get("/", h.HandleGetGame)
			r.Post("/stats", h.HandleUpdateStat)
			r.Post("/substitutions", h.HandleSubstitute)
			r.Put("/on-court", h.HandleSetOnCourt)
			r.Put("/players", h.HandleReplacePlayers)
			r.Post("/sync/push", h.HandleSyncPush)
			r.Post("/sync/pull", h.HandleSyncPull)
			r.Get("/report", h.HandleReport)
		})
		r.Get("/teams/{team_name}", h.HandleGetTeam)
	})

	return r
}

// gameResponse is the envelope every game endpoint returns: the observable
// state plus the loading flag.
type gameResponse struct {
	GameState *models.GameState `json:"gameState"`
	Loading   bool              `json:"loading"`
}

// HandleHealth returns service health.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "stat-tracker",
		"active_clients": h.hub.ClientCount(),
	})
}

// HandleListGames returns all game names known locally or remotely.
// GET /api/v1/games
func (h *Handler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	names, err := h.manager.ListGames(r.Context())
	if err != nil {
		writeError(w, fmt.Errorf("listing games: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": names,
		"count": len(names),
	})
}

// HandleInitGame opens (creating if needed) a game session. An optional
// body {"team": "<name>"} seeds a brand-new game from that roster template.
// POST /api/v1/games/{game_name}
func (h *Handler) HandleInitGame(w http.ResponseWriter, r *http.Request) {
	gameName := gameNameParam(r)
	if gameName == "" {
		http.Error(w, "game_name is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Team string `json:"team"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	ctrl, err := h.manager.Open(r.Context(), gameName, req.Team)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, ctrl)
}

// HandleGetGame returns the current state, opening the session on first use.
// GET /api/v1/games/{game_name}
func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}
	h.respondState(w, ctrl)
}

// HandleUpdateStat applies one stat event to a player.
// POST /api/v1/games/{game_name}/stats
func (h *Handler) HandleUpdateStat(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Stat     string `json:"stat"`
		Delta    *int   `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	key, err := models.ParseStatKey(req.Stat)
	if err != nil {
		writeError(w, err)
		return
	}

	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}

	game, err := ctrl.UpdateStat(req.PlayerID, key, delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: game, Loading: false})
}

// HandleSubstitute benches one player and fields another.
// POST /api/v1/games/{game_name}/substitutions
func (h *Handler) HandleSubstitute(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Out string `json:"out"`
		In  string `json:"in"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	game, err := ctrl.Substitute(req.Out, req.In)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: game, Loading: false})
}

// HandleSetOnCourt wholly replaces court membership.
// PUT /api/v1/games/{game_name}/on-court
func (h *Handler) HandleSetOnCourt(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerIDs []string `json:"playerIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	game, err := ctrl.SetOnCourt(req.PlayerIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: game, Loading: false})
}

// HandleReplacePlayers substitutes the whole roster (manual edit-all-stats).
// PUT /api/v1/games/{game_name}/players
func (h *Handler) HandleReplacePlayers(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Players []models.Player `json:"players"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	game, err := ctrl.ReplacePlayers(req.Players)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: game, Loading: false})
}

// HandleSyncPush overwrites the remote document with the current state.
// POST /api/v1/games/{game_name}/sync/push
func (h *Handler) HandleSyncPush(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	if err := ctrl.SyncPush(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, ctrl)
}

// HandleSyncPull replaces local and in-memory state with the remote document.
// POST /api/v1/games/{game_name}/sync/pull
func (h *Handler) HandleSyncPull(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.openGame(w, r)
	if !ok {
		return
	}

	game, err := ctrl.SyncPull(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: game, Loading: false})
}

// HandleGetTeam returns a roster template from the remote store.
// GET /api/v1/teams/{team_name}
func (h *Handler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamName := pathParam(r, "team_name")
	if teamName == "" {
		http.Error(w, "team_name is required", http.StatusBadRequest)
		return
	}

	team, err := h.remote.GetTeam(r.Context(), teamName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// HandleWebSocket subscribes a client to live snapshots for one game.
// GET /ws/games/{game_name}
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameName := gameNameParam(r)
	if gameName == "" {
		http.Error(w, "game_name is required", http.StatusBadRequest)
		return
	}

	ctrl, err := h.manager.Open(r.Context(), gameName, "")
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := hub.NewClient(uuid.New().String(), gameName, conn, h.hub)
	h.hub.Register(c)

	// Send the current snapshot so the client doesn't wait for a mutation.
	if snap, err := ctrl.Snapshot(); err == nil {
		c.TrySend(models.StateMessage{
			Type:      models.MessageTypeGameState,
			GameName:  gameName,
			State:     snap,
			Timestamp: time.Now(),
		})
	}

	// Use handler context, not request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}

// openGame resolves the controller for the request's game, writing the error
// response itself on failure.
func (h *Handler) openGame(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	gameName := gameNameParam(r)
	if gameName == "" {
		http.Error(w, "game_name is required", http.StatusBadRequest)
		return nil, false
	}

	ctrl, err := h.manager.Open(r.Context(), gameName, "")
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) respondState(w http.ResponseWriter, ctrl *session.Controller) {
	game, err := ctrl.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusOK, gameResponse{Loading: true})
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: game, Loading: false})
}

// gameNameParam returns the literal game name: the route segment is encoded
// for routing, but storage keys use the raw name.
func gameNameParam(r *http.Request) string {
	return pathParam(r, "game_name")
}

func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownPlayer):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrUnknownStat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrNotReady):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
