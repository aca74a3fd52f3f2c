package geocache

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neophilus/manifester/internal/places"
)

// SyncResult summarises one synchronisation.
type SyncResult struct {
	Plan      Plan
	Resolved  int
	Persisted bool
	Created   bool // the cities file did not exist before the run
}

// Syncer brings the persisted cache in line with a registry.
type Syncer struct {
	Store    Store
	Resolver *Resolver
	Policy   Policy
}

// Sync loads the cache, resolves what the plan asks for and persists the
// merged cache once. Nothing is written unless every lookup succeeded.
func (s *Syncer) Sync(ctx context.Context, reg *places.Registry) (*Cache, SyncResult, error) {
	log := zap.L().With(zap.String("cities", s.Store.CitiesPath))

	cache, found, err := s.Store.Load()
	if err != nil {
		return nil, SyncResult{}, err
	}
	if !found {
		log.Info("geocache: no cities file found, building one")
	}

	plan := Diff(cache, reg, s.Policy)
	result := SyncResult{Plan: plan, Created: !found}
	log.Info("geocache: computed plan",
		zap.Int("cached", cache.Len()),
		zap.Strings("new_countries", plan.NewCountries),
		zap.Int("new_locations", len(plan.NewLocations)),
		zap.Int("to_resolve", len(plan.Resolve)),
		zap.String("policy", string(s.Policy)),
	)

	entries, err := s.Resolver.Resolve(ctx, reg, plan.Resolve)
	if err != nil {
		return nil, result, eris.Wrap(err, "geocache: resolve")
	}

	result.Resolved = cache.Merge(entries)
	if plan.Changed() || !found {
		if err := s.Store.Save(cache); err != nil {
			return nil, result, err
		}
		result.Persisted = true
		log.Info("geocache: persisted cache", zap.Int("entries", cache.Len()), zap.Int("resolved", result.Resolved))
	}
	return cache, result, nil
}
