package syncer

import (
	"time"

	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/logger"
)

// Gate decides whether a category of mirrored data must be refreshed from
// Steam or can be served locally. The predicate has a single polarity
// everywhere: true means a refresh is required. A user with no schedule
// record has never synced, so the answer is true.
type Gate struct {
	store    Store
	interval time.Duration
	log      *logger.Logger
}

func NewGate(store Store, interval time.Duration, log *logger.Logger) *Gate {
	if log == nil {
		log = logger.Default()
	}
	return &Gate{
		store:    store,
		interval: interval,
		log:      log.WithComponent("gate"),
	}
}

// ShouldRefresh is read-only and never fails the caller: a persistence
// error degrades toward an extra remote call rather than serving
// stale-forever data.
func (g *Gate) ShouldRefresh(steamID string, category domain.Category) bool {
	stale, err := g.store.NeedsRefresh(steamID, category, g.interval)
	if err != nil {
		g.log.Error("staleness check failed, forcing refresh", "steam_id", steamID, "category", category, "error", err)
		return true
	}
	return stale
}
