// Package httpapp exposes the mirror over a small JSON API: trigger a
// sync, inspect run progress, read the mirrored catalog, import purchase
// history.
package httpapp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/steamvault/steamvault/internal/app"
	"github.com/steamvault/steamvault/internal/logger"
	"github.com/steamvault/steamvault/internal/store"
)

type Handler struct {
	SyncService *app.SyncService
	DB          *store.DB
	Logger      *logger.Logger
}

func NewHandler(ss *app.SyncService, db *store.DB, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		SyncService: ss,
		DB:          db,
		Logger:      log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.Health)

	r.Post("/api/users/{steamID}/sync", h.TriggerSync)
	r.Get("/api/users/{steamID}/wishlist", h.GetWishlist)
	r.Get("/api/users/{steamID}/library", h.GetLibrary)
	r.Get("/api/users/{steamID}/games", h.GetGames)
	r.Post("/api/users/{steamID}/purchases", h.ImportPurchases)

	r.Get("/api/runs", h.ListRuns)
	r.Get("/api/runs/{runID}", h.GetRun)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func steamIDParam(r *http.Request) string {
	return chi.URLParam(r, "steamID")
}
