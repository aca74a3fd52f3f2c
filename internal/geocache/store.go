package geocache

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/neophilus/manifester/internal/atomicfile"
	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/runerr"
)

const (
	propName      = "name"
	propLocalName = "localname"
	propCountry   = "country"
)

// Store reads and writes the cities and trips feature collections.
type Store struct {
	CitiesPath string
	TripsPath  string
}

// Load reads the cities collection. A missing file yields an empty cache and
// found=false.
func (s Store) Load() (c *Cache, found bool, err error) {
	data, err := os.ReadFile(s.CitiesPath)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), false, nil
	}
	if err != nil {
		return nil, false, runerr.Wrap(runerr.CacheParse, err, "geocache: read "+s.CitiesPath)
	}
	c, err = Decode(data)
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}

// Save atomically replaces the cities collection.
func (s Store) Save(c *Cache) error {
	return atomicfile.WriteFile(s.CitiesPath, 0o644, func(w io.Writer) error {
		return EncodeCities(w, c.entries)
	})
}

// SaveTrips atomically replaces the trips collection.
func (s Store) SaveTrips(lines []model.TripLine) error {
	return atomicfile.WriteFile(s.TripsPath, 0o644, func(w io.Writer) error {
		return EncodeTrips(w, lines)
	})
}

// Decode parses a cities feature collection.
func Decode(data []byte) (*Cache, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, runerr.Wrap(runerr.CacheParse, err, "geocache: decode feature collection")
	}

	entries := make([]model.CacheEntry, 0, len(fc.Features))
	for i, f := range fc.Features {
		e, err := decodeEntry(f)
		if err != nil {
			return nil, runerr.Wrap(runerr.CacheParse, err, "geocache: feature "+strconv.Itoa(i))
		}
		entries = append(entries, e)
	}
	return FromEntries(entries)
}

func decodeEntry(f *geojson.Feature) (model.CacheEntry, error) {
	if f == nil {
		return model.CacheEntry{}, eris.New("null feature")
	}
	name, _ := f.Properties[propName].(string)
	if name == "" {
		return model.CacheEntry{}, eris.New("missing name property")
	}
	code, _ := f.Properties[propCountry].(string)
	if code == "" {
		return model.CacheEntry{}, eris.Errorf("%s: missing country property", name)
	}
	local, _ := f.Properties[propLocalName].(string)

	pt, ok := f.Geometry.(*geom.Point)
	if !ok || pt.Empty() {
		return model.CacheEntry{}, eris.Errorf("%s does not have Point coordinates", name)
	}

	return model.CacheEntry{
		Location:    model.Canonicalize(name),
		Name:        name,
		LocalName:   local,
		CountryCode: code,
		Point:       model.GeoPoint{Lon: pt.X(), Lat: pt.Y()},
	}, nil
}

// EncodeCities writes entries as a point feature collection.
func EncodeCities(w io.Writer, entries []model.CacheEntry) error {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(entries))}
	for _, e := range entries {
		props := map[string]interface{}{
			propName:    e.Name,
			propCountry: e.CountryCode,
		}
		if e.LocalName != "" {
			props[propLocalName] = e.LocalName
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{e.Point.Lon, e.Point.Lat}),
			Properties: props,
		})
	}
	return encode(w, fc)
}

// EncodeTrips writes trip lines as a line string feature collection.
func EncodeTrips(w io.Writer, lines []model.TripLine) error {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(lines))}
	for _, l := range lines {
		flat := make([]float64, 0, 2*len(l.Points))
		for _, p := range l.Points {
			flat = append(flat, p.Lon, p.Lat)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewLineStringFlat(geom.XY, flat),
			Properties: map[string]interface{}{propName: l.Name},
		})
	}
	return encode(w, fc)
}

func encode(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "geocache: encode feature collection")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "geocache: write feature collection")
	}
	return nil
}
