package geocache

import (
	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/internal/runerr"
)

// Policy selects which locations a run geocodes.
type Policy string

const (
	// PolicyLocations geocodes every location missing from the cache,
	// whether or not its country is new.
	PolicyLocations Policy = "locations"
	// PolicyStrict also re-geocodes every location of a country that has
	// no entry in the cache yet, even if the location itself is cached.
	PolicyStrict Policy = "strict"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLocations, PolicyStrict:
		return Policy(s), nil
	case "":
		return PolicyLocations, nil
	default:
		return "", runerr.Errorf(runerr.ConfigParse, "geocache: unknown resolution policy %q", s)
	}
}

// Plan is the diff between configuration and cache.
type Plan struct {
	NewCountries []string         // configured country IDs with no cached entry
	NewLocations []model.Location // configured locations with no cached entry
	Resolve      []model.Location // locations to geocode, in registry order
}

// Changed reports whether executing the plan alters the cache.
func (p Plan) Changed() bool { return len(p.Resolve) > 0 }

// Diff computes the plan for reg against c. It performs no I/O.
func Diff(c *Cache, reg *places.Registry, policy Policy) Plan {
	codes := c.Codes()
	keys := c.Keys()

	var plan Plan
	newCountry := make(map[string]bool)
	for _, country := range reg.Countries {
		if !codes[country.Code] {
			plan.NewCountries = append(plan.NewCountries, country.ID)
			newCountry[country.ID] = true
		}
	}

	for _, country := range reg.Countries {
		for _, loc := range reg.LocationsOf(country.ID) {
			missing := !keys[loc.Key()]
			if missing {
				plan.NewLocations = append(plan.NewLocations, loc)
			}
			if missing || (policy == PolicyStrict && newCountry[country.ID]) {
				plan.Resolve = append(plan.Resolve, loc)
			}
		}
	}
	return plan
}
