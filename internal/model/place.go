// Package model holds the place, trip and cache entry types shared by the
// cache synchroniser and the manifest generator.
package model

// LocalSlot is the reserved pseudo-location that carries a country's
// local-language name. It is never geocoded or emitted as a location.
const LocalSlot = "Local"

// Country is a configured country.
type Country struct {
	ID        string
	Name      string
	Code      string // ISO 3166-1 alpha-3
	LocalName string
}

// HasLocalName reports whether the country carries a local-language name.
func (c Country) HasLocalName() bool { return c.LocalName != "" }

// Location is a configured place inside a Country.
type Location struct {
	ID        string
	Name      string
	LocalName string
	Country   string // owning Country ID
}

// Key returns the cache key for the location.
func (l Location) Key() string { return Canonicalize(l.Name) }

// HasLocalName reports whether the location carries a local-language name.
func (l Location) HasLocalName() bool { return l.LocalName != "" }

// GeoPoint is a longitude/latitude pair in degrees.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// CacheEntry is a resolved location as persisted in the cache.
type CacheEntry struct {
	Location    string
	Name        string
	LocalName   string
	CountryCode string
	Point       GeoPoint
}

// Key returns the canonicalized display name the entry is stored under.
func (e CacheEntry) Key() string { return Canonicalize(e.Name) }

// Trip is a configured journey across locations.
type Trip struct {
	Name        string
	Description string
	Locations   []string // Location IDs in travel order
	Dates       []string // "YYYY/MM"
}

// ID returns the trip identifier derived from its description.
func (t Trip) ID() string { return TripID(t.Description) }

// TripLine is the resolved geometry of a trip.
type TripLine struct {
	TripID string
	Name   string
	Points []GeoPoint
}
