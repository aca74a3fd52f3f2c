package places

import (
	"sort"

	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/runerr"
)

// Registry is the validated, identifier-indexed view of a Config.
type Registry struct {
	Countries []model.Country  // sorted by ID
	Locations []model.Location // sorted by ID, Local excluded
	Trips     []model.Trip     // config order

	countries map[string]int
	locations map[string]int
}

// NewRegistry validates cfg against the country code table.
func NewRegistry(cfg *Config, codes *CountryCodes) (*Registry, error) {
	r := &Registry{
		countries: make(map[string]int, len(cfg.Places)),
		locations: make(map[string]int),
	}

	owner := make(map[string]string)
	for _, countryID := range sortedKeys(cfg.Places) {
		name := model.CountryName(countryID)
		code, ok := codes.Code(name)
		if !ok {
			return nil, runerr.Errorf(runerr.IdentifierMismatch, "places: %s does not exist in the country code table", name)
		}
		country := model.Country{ID: countryID, Name: name, Code: code}

		locations := cfg.Places[countryID]
		for _, locID := range sortedKeys(locations) {
			local := ""
			if p := locations[locID]; p != nil {
				local = *p
			}
			if locID == model.LocalSlot {
				country.LocalName = local
				continue
			}
			if prev, dup := owner[locID]; dup {
				return nil, runerr.Errorf(runerr.IdentifierMismatch, "places: location %s declared under both %s and %s", locID, prev, countryID)
			}
			owner[locID] = countryID

			loc := model.Location{
				ID:        locID,
				Name:      model.LocationName(locID),
				LocalName: local,
				Country:   countryID,
			}
			if key := loc.Key(); key != locID {
				return nil, runerr.Errorf(runerr.IdentifierMismatch, "places: location %s canonicalizes to %s", locID, key)
			}
			r.Locations = append(r.Locations, loc)
		}
		r.countries[countryID] = len(r.Countries)
		r.Countries = append(r.Countries, country)
	}

	sort.Slice(r.Locations, func(i, j int) bool { return r.Locations[i].ID < r.Locations[j].ID })
	for i, loc := range r.Locations {
		r.locations[loc.ID] = i
	}

	seen := make(map[string]bool, len(cfg.Trips))
	for _, tc := range cfg.Trips {
		trip := model.Trip{
			Name:        tc.Name,
			Description: tc.Description,
			Locations:   append([]string(nil), tc.Cities...),
			Dates:       append([]string(nil), tc.Dates...),
		}
		id := trip.ID()
		if id == "" {
			return nil, runerr.Errorf(runerr.IdentifierMismatch, "places: trip %q has no usable description", tc.Name)
		}
		if seen[id] {
			return nil, runerr.Errorf(runerr.IdentifierMismatch, "places: duplicate trip identifier %s", id)
		}
		seen[id] = true
		r.Trips = append(r.Trips, trip)
	}

	return r, nil
}

// Country returns the country with the given ID.
func (r *Registry) Country(id string) (model.Country, bool) {
	i, ok := r.countries[id]
	if !ok {
		return model.Country{}, false
	}
	return r.Countries[i], true
}

// Location returns the location with the given ID.
func (r *Registry) Location(id string) (model.Location, bool) {
	i, ok := r.locations[id]
	if !ok {
		return model.Location{}, false
	}
	return r.Locations[i], true
}

// LocationsOf returns the locations of a country, sorted by ID.
func (r *Registry) LocationsOf(countryID string) []model.Location {
	var out []model.Location
	for _, loc := range r.Locations {
		if loc.Country == countryID {
			out = append(out, loc)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
