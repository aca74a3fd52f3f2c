// Package manifest builds the Manifest.elm artifact from the validated
// configuration, the resolved place cache and the gallery scan.
package manifest

import (
	"regexp"

	"github.com/neophilus/manifester/internal/gallery"
	"github.com/neophilus/manifester/internal/geocache"
	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/internal/runerr"
)

// Manifest is everything the artifact lists, in emission order.
type Manifest struct {
	Countries []model.Country
	Locations []Location
	Trips     []Trip
	Images    []Image
}

// Location is a configured location with its resolved point.
type Location struct {
	model.Location
	Point model.GeoPoint
}

// Trip is a configured trip with parsed dates and its line geometry.
type Trip struct {
	ID          string
	Name        string
	Description string
	Locations   []string
	Dates       []model.Date
	Path        []model.GeoPoint
}

// Image is one gallery entry.
type Image struct {
	File        string
	Date        model.Date
	Location    string
	AspectRatio float64
	Description string
}

// Build assembles the manifest. It performs no I/O: a failure here means
// nothing is written. An empty domain is valid and renders as an
// uninhabited type.
func Build(reg *places.Registry, cache *geocache.Cache, images []gallery.Image) (*Manifest, error) {
	m := &Manifest{
		Countries: append([]model.Country(nil), reg.Countries...),
		Locations: make([]Location, 0, len(reg.Locations)),
		Trips:     make([]Trip, 0, len(reg.Trips)),
		Images:    make([]Image, 0, len(images)),
	}

	for _, loc := range reg.Locations {
		pt, ok := cache.Point(loc.ID)
		if !ok {
			return nil, runerr.Errorf(runerr.MissingCoordinate, "manifest: %s has no resolved coordinates", loc.ID)
		}
		m.Locations = append(m.Locations, Location{Location: loc, Point: pt})
	}

	lines, err := geocache.BuildTrips(reg, cache)
	if err != nil {
		return nil, err
	}
	for i, trip := range reg.Trips {
		t := Trip{
			ID:          trip.ID(),
			Name:        trip.Name,
			Description: trip.Description,
			Locations:   trip.Locations,
			Path:        lines[i].Points,
		}
		for _, raw := range trip.Dates {
			d, err := model.ParseDate(raw)
			if err != nil {
				return nil, runerr.Wrap(runerr.IdentifierMismatch, err, "manifest: trip "+t.ID)
			}
			t.Dates = append(t.Dates, d)
		}
		m.Trips = append(m.Trips, t)
	}

	if err := checkConstructors(m); err != nil {
		return nil, err
	}

	for _, img := range images {
		if _, ok := reg.Location(img.Location); !ok {
			return nil, runerr.Errorf(runerr.IdentifierMismatch, "manifest: image %s is filed under unknown location %s", img.Path, img.Location)
		}
		m.Images = append(m.Images, Image{
			File:        img.File,
			Date:        img.Date,
			Location:    img.Location,
			AspectRatio: img.AspectRatio,
			Description: img.Description,
		})
	}
	return m, nil
}

var constructor = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// reserved are constructors the artifact defines or imports itself. Country,
// Location and Trip wrap Never when their domain is empty.
var reserved = []string{"Country", "Location", "Trip", "Date", "Image", "LocationInformation", "TripInformation", "Just", "Nothing"}

// checkConstructors verifies every identifier is a valid constructor name
// and that no two domains share one, since they live in one module.
func checkConstructors(m *Manifest) error {
	owner := make(map[string]string)
	for _, name := range model.MonthNames() {
		owner[name] = "month"
	}
	for _, name := range reserved {
		owner[name] = "reserved name"
	}
	claim := func(domain, id string) error {
		if !constructor.MatchString(id) {
			return runerr.Errorf(runerr.IdentifierMismatch, "manifest: %s identifier %q is not a valid constructor", domain, id)
		}
		if prev, dup := owner[id]; dup {
			return runerr.Errorf(runerr.IdentifierMismatch, "manifest: %s identifier %s is already a %s", domain, id, prev)
		}
		owner[id] = domain
		return nil
	}
	for _, c := range m.Countries {
		if err := claim("country", c.ID); err != nil {
			return err
		}
	}
	for _, l := range m.Locations {
		if err := claim("location", l.ID); err != nil {
			return err
		}
	}
	for _, t := range m.Trips {
		if err := claim("trip", t.ID); err != nil {
			return err
		}
	}
	return nil
}
