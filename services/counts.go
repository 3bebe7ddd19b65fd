package services

import (
	"context"
	"sync"
	"time"

	"portal/logger"
	"portal/metrics"
	"portal/repositories"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// CountCache serves per-opportunity application counts derived from the
// applications table. Writers invalidate the affected entries; a load that
// raced with an invalidation is returned but never stored.
type CountCache struct {
	cache        *cache.Cache
	applications *repositories.Applications

	mu          sync.Mutex
	epoch       uint64
	generations map[uuid.UUID]uint64
}

func NewCountCache(applications *repositories.Applications, ttl time.Duration) *CountCache {
	return &CountCache{
		cache:        cache.New(ttl, 2*ttl),
		applications: applications,
		generations:  make(map[uuid.UUID]uint64),
	}
}

func (c *CountCache) ApplicationCount(ctx context.Context, opportunityID uuid.UUID) (int64, error) {
	counts, err := c.ApplicationCounts(ctx, []uuid.UUID{opportunityID})
	if err != nil {
		return 0, err
	}
	return counts[opportunityID], nil
}

// ApplicationCounts resolves every id, loading all misses with one query.
func (c *CountCache) ApplicationCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	var misses []uuid.UUID
	for _, id := range ids {
		if cached, ok := c.cache.Get(id.String()); ok {
			counts[id] = cached.(int64)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return counts, nil
	}

	epoch, generations := c.snapshot(misses)
	derived, err := c.applications.CountByOpportunity(ctx, misses...)
	if err != nil {
		return nil, err
	}
	for _, id := range misses {
		counts[id] = derived[id]
	}
	c.store(epoch, generations, derived)
	return counts, nil
}

func (c *CountCache) snapshot(ids []uuid.UUID) (uint64, map[uuid.UUID]uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	generations := make(map[uuid.UUID]uint64, len(ids))
	for _, id := range ids {
		generations[id] = c.generations[id]
	}
	return c.epoch, generations
}

// store caches the loaded counts whose entry was not invalidated since the
// snapshot was taken.
func (c *CountCache) store(epoch uint64, generations map[uuid.UUID]uint64, derived map[uuid.UUID]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return
	}
	for id, generation := range generations {
		if c.generations[id] == generation {
			c.cache.SetDefault(id.String(), derived[id])
		}
	}
}

func (c *CountCache) Invalidate(ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.generations[id]++
		c.cache.Delete(id.String())
	}
}

func (c *CountCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.generations = make(map[uuid.UUID]uint64)
	c.cache.Flush()
}

// Reconciler repairs stored application counters that drifted from the
// applications table.
type Reconciler struct {
	opportunities *repositories.Opportunities
	applications  *repositories.Applications
	counts        *CountCache
}

func NewReconciler(opportunities *repositories.Opportunities, applications *repositories.Applications, counts *CountCache) *Reconciler {
	return &Reconciler{opportunities: opportunities, applications: applications, counts: counts}
}

// Run rewrites every drifting counter and returns how many were corrected.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	stored, err := r.opportunities.StoredCounts(ctx)
	if err != nil {
		return 0, err
	}
	derived, err := r.applications.CountByOpportunity(ctx)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for id, storedCount := range stored {
		if storedCount == derived[id] {
			continue
		}
		if err := r.opportunities.SyncApplicationCount(ctx, id); err != nil {
			return corrected, err
		}
		corrected++
		log.WithFields(log.Fields{
			"opportunity_id": id,
			"stored":         storedCount,
			"derived":        derived[id],
		}).Warn("Corrected drifting application counter")
	}

	r.counts.Flush()
	metrics.CounterDriftCorrected.Add(float64(corrected))
	return corrected, nil
}

// Resync recomputes the counters of the given opportunities, for example
// after applications were removed by a cascade.
func (r *Reconciler) Resync(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		if err := r.opportunities.SyncApplicationCount(ctx, id); err != nil {
			log.WithFields(log.Fields{
				logger.ErrorTypeField: logger.ErrorTypeCounter,
				"opportunity_id":      id,
			}).Errorf("Failed to resync application counter: %v", err)
		}
	}
	r.counts.Invalidate(ids...)
}
