package geocache

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/internal/runerr"
	"github.com/neophilus/manifester/pkg/geocode"
)

// Resolver geocodes locations one at a time, pausing between calls.
type Resolver struct {
	client  geocode.Client
	limiter *rate.Limiter
}

// NewResolver creates a Resolver that waits delay between the end of one
// lookup and the start of the next. A non-positive delay disables the pause.
func NewResolver(client geocode.Client, delay time.Duration) *Resolver {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Resolver{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Query builds the free-text search for a location.
func Query(loc model.Location, country model.Country) string {
	return loc.Name + ", " + country.Name
}

// Resolve geocodes every location in order and returns the new entries. It
// stops at the first failure and returns no entries in that case.
func (r *Resolver) Resolve(ctx context.Context, reg *places.Registry, locs []model.Location) ([]model.CacheEntry, error) {
	entries := make([]model.CacheEntry, 0, len(locs))
	for _, loc := range locs {
		country, ok := reg.Country(loc.Country)
		if !ok {
			return nil, runerr.Errorf(runerr.IdentifierMismatch, "geocache: %s belongs to unknown country %s", loc.ID, loc.Country)
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, runerr.Wrap(runerr.LookupTransport, err, "geocache: rate limit wait")
		}

		query := Query(loc, country)
		res, err := r.client.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		r.restartPause()

		entry := model.CacheEntry{
			Location:    loc.ID,
			Name:        loc.Name,
			LocalName:   loc.LocalName,
			CountryCode: country.Code,
			Point:       model.GeoPoint{Lon: res.Longitude, Lat: res.Latitude},
		}
		zap.L().Info("geocache: resolved location",
			zap.String("location", loc.ID),
			zap.String("query", query),
			zap.Float64("lon", entry.Point.Lon),
			zap.Float64("lat", entry.Point.Lat),
		)
		entries = append(entries, entry)
	}
	return entries, nil
}

// restartPause empties the limiter's bucket as of now, so the next Wait
// blocks for the full delay however long the last lookup took.
func (r *Resolver) restartPause() {
	r.limiter = rate.NewLimiter(r.limiter.Limit(), 1)
	r.limiter.Allow()
}
