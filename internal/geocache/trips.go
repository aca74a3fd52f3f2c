package geocache

import (
	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/internal/runerr"
)

// BuildTrips resolves every trip's locations against the cache. Trips are
// rebuilt from scratch on every call.
func BuildTrips(reg *places.Registry, c *Cache) ([]model.TripLine, error) {
	lines := make([]model.TripLine, 0, len(reg.Trips))
	for _, trip := range reg.Trips {
		line := model.TripLine{TripID: trip.ID(), Name: trip.Name}
		for _, locID := range trip.Locations {
			if _, ok := reg.Location(locID); !ok {
				return nil, runerr.Errorf(runerr.MissingCoordinate, "geocache: trip %s references %s, which is not a configured location", line.TripID, locID)
			}
			pt, ok := c.Point(locID)
			if !ok {
				return nil, runerr.Errorf(runerr.MissingCoordinate, "geocache: trip %s references %s, which has no resolved coordinates", line.TripID, locID)
			}
			line.Points = append(line.Points, pt)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
