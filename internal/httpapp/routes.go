package httpapp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/importer"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TriggerSync enqueues a sync run for the user; the worker picks it up.
// Repeated requests while a run is pending return the existing run.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	steamID := steamIDParam(r)
	if steamID == "" {
		h.writeError(w, http.StatusBadRequest, "steamID is required")
		return
	}

	run, err := h.SyncService.EnqueueRun(steamID)
	if err != nil {
		h.Logger.Error("failed to enqueue sync run", "steam_id", steamID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to enqueue sync run")
		return
	}
	h.writeJSON(w, http.StatusAccepted, run)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := h.SyncService.GetRun(runID)
	if err != nil {
		h.Logger.Error("failed to load run", "run_id", runID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	if run == nil {
		h.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.SyncService.ListRuns(limit)
	if err != nil {
		h.Logger.Error("failed to list runs", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	steamID := steamIDParam(r)
	entries, err := h.DB.GetWishlist(steamID)
	if err != nil {
		h.Logger.Error("failed to read wishlist", "steam_id", steamID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read wishlist")
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	steamID := steamIDParam(r)
	entries, err := h.DB.GetLibrary(steamID)
	if err != nil {
		h.Logger.Error("failed to read library", "steam_id", steamID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read library")
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// GetGames returns the mirrored catalog rows for the user's library, or
// for the user's wishlist with ?source=wishlist.
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	steamID := steamIDParam(r)

	var (
		games []domain.Game
		err   error
	)
	switch r.URL.Query().Get("source") {
	case "wishlist":
		var entries []domain.WishlistEntry
		entries, err = h.DB.GetWishlist(steamID)
		if err == nil {
			ids := make([]int64, len(entries))
			for i, e := range entries {
				ids[i] = e.AppID
			}
			games, err = h.DB.GetGamesByAppIDs(ids)
		}
	default:
		games, err = h.DB.GetLibraryGames(steamID)
	}
	if err != nil {
		h.Logger.Error("failed to read games", "steam_id", steamID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to read games")
		return
	}
	h.writeJSON(w, http.StatusOK, games)
}

// ImportPurchases accepts an exported order-history HTML page and fills
// library paid prices from it. The source query parameter selects the
// parser; defaults to steam.
func (h *Handler) ImportPurchases(w http.ResponseWriter, r *http.Request) {
	steamID := steamIDParam(r)

	var (
		purchases []domain.Purchase
		err       error
	)
	switch r.URL.Query().Get("source") {
	case "kinguin":
		purchases, err = importer.ParseKinguinHistory(r.Body)
	case "", "steam":
		purchases, err = importer.ParseSteamHistory(r.Body)
	default:
		h.writeError(w, http.StatusBadRequest, "source must be steam or kinguin")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to parse purchase history")
		return
	}
	if len(purchases) == 0 {
		h.writeJSON(w, http.StatusOK, map[string]int{"parsed": 0, "updated": 0})
		return
	}

	updated, err := h.DB.ApplyPaidPrices(steamID, purchases)
	if err != nil {
		h.Logger.Error("failed to apply paid prices", "steam_id", steamID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to apply paid prices")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"parsed": len(purchases), "updated": updated})
}
