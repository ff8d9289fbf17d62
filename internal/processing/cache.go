package processing

import (
	"sync"
	"time"

	"clan_war_stats/internal/app"
)

// StateCache holds the latest war document and ledger for read-path
// consumers. The poller is the single writer through Refresh; the web layer
// reads concurrently through the getters.
type StateCache struct {
	mu          sync.RWMutex
	currentWar  *app.CurrentWar
	ledger      *app.WarLedger
	lastUpdated time.Time
}

func NewStateCache() *StateCache {
	return &StateCache{}
}

// Refresh replaces the cached war document and ledger
func (c *StateCache) Refresh(war *app.CurrentWar, ledger *app.WarLedger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentWar = war
	c.ledger = ledger
	c.lastUpdated = time.Now().UTC()
}

// CurrentWar returns the latest fetched war document, nil before the first
// successful poll.
func (c *StateCache) CurrentWar() *app.CurrentWar {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentWar
}

// Ledger returns the latest merged ledger, nil before the first refresh
func (c *StateCache) Ledger() *app.WarLedger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ledger
}

// LastUpdated returns when the cache was last refreshed
func (c *StateCache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}
