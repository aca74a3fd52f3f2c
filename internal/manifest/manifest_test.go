package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neophilus/manifester/internal/gallery"
	"github.com/neophilus/manifester/internal/geocache"
	"github.com/neophilus/manifester/internal/model"
	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/internal/runerr"
)

const kansaiYAML = `
places:
  Japan:
    Local: 日本
    Kyoto: 京都
    Osaka:
trips:
  - name: Kansai
    description: Kansai 2018
    cities: [Kyoto, Osaka]
    dates: ["2018/04", "2018/05"]
`

func registry(t *testing.T, doc string) *places.Registry {
	t.Helper()
	cfg, err := places.ParseConfig([]byte(doc))
	require.NoError(t, err)
	reg, err := places.NewRegistry(cfg, places.NewCountryCodes(map[string]string{"Japan": "JPN"}))
	require.NoError(t, err)
	return reg
}

func kansaiCache(t *testing.T) *geocache.Cache {
	t.Helper()
	c, err := geocache.FromEntries([]model.CacheEntry{
		{Location: "Kyoto", Name: "Kyoto", LocalName: "京都", CountryCode: "JPN", Point: model.GeoPoint{Lon: 135.7681, Lat: 35.0116}},
		{Location: "Osaka", Name: "Osaka", CountryCode: "JPN", Point: model.GeoPoint{Lon: 135.5023, Lat: 34.6937}},
	})
	require.NoError(t, err)
	return c
}

func render(t *testing.T, m *Manifest) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, m))
	return buf.String()
}

func TestRender_KansaiArtifact(t *testing.T) {
	m, err := Build(registry(t, kansaiYAML), kansaiCache(t), nil)
	require.NoError(t, err)
	out := render(t, m)

	assert.Contains(t, out, "type Location\n    = Kyoto\n    | Osaka\n")
	assert.Contains(t, out, "locationList =\n    [ Kyoto\n    , Osaka\n    ]")
	assert.Contains(t, out, "countryId country =\n    case country of\n        Japan ->\n            \"JPN\"")
	assert.Contains(t, out, "        Japan ->\n            Just \"日本\"")
	assert.Contains(t, out, "        Kyoto ->\n            Just \"京都\"")
	assert.Contains(t, out, "        Osaka ->\n            Nothing")
	assert.Contains(t, out, "coordinates = ( 135.768, 35.012 )")
	assert.Contains(t, out, "coordinates = ( 135.502, 34.694 )")
	assert.Contains(t, out, "        \"Kansai 2018\" ->\n            Just Kansai2018")
	assert.Contains(t, out, "locations = [ Kyoto, Osaka ]")
	assert.Contains(t, out, "dates = [ Date 2018 Apr, Date 2018 May ]")
	assert.Contains(t, out, "[ ( 135.768, 35.012 ), ( 135.502, 34.694 ) ]")
	assert.Contains(t, out, "manifest =\n    []")
}

func TestRender_EveryLocationFunctionIsTotal(t *testing.T) {
	m, err := Build(registry(t, kansaiYAML), kansaiCache(t), nil)
	require.NoError(t, err)
	out := render(t, m)

	// locationLocalName and locationInformation each carry one arm per
	// location; stringToLocation matches on display names instead.
	for _, id := range []string{"Kyoto", "Osaka"} {
		assert.Equal(t, 2, strings.Count(out, "        "+id+" ->\n"), id)
	}
	// countryId, countryName and countryLocalName.
	assert.Equal(t, 3, strings.Count(out, "        Japan ->\n"))
	// tripInformation and tripPath.
	assert.Equal(t, 2, strings.Count(out, "        Kansai2018 ->\n"))
}

func TestRender_Deterministic(t *testing.T) {
	var outs []string
	for i := 0; i < 5; i++ {
		m, err := Build(registry(t, kansaiYAML), kansaiCache(t), nil)
		require.NoError(t, err)
		outs = append(outs, render(t, m))
	}
	for _, out := range outs[1:] {
		assert.Equal(t, outs[0], out)
	}
}

func TestRender_Images(t *testing.T) {
	images := []gallery.Image{
		{Path: "g/2018/04/Japan/Kyoto/temple.jpg", File: "temple.jpg", Date: model.Date{Year: 2018, Month: 4}, Location: "Kyoto", AspectRatio: 1.5, Description: `Gold "pavilion"`},
		{Path: "g/2018/05/Japan/Osaka/castle.jpg", File: "castle.jpg", Date: model.Date{Year: 2018, Month: 5}, Location: "Osaka", AspectRatio: 3.25},
	}
	m, err := Build(registry(t, kansaiYAML), kansaiCache(t), images)
	require.NoError(t, err)
	out := render(t, m)

	assert.Contains(t, out, "manifest =\n"+
		"    [ Image \"temple.jpg\" (Date 2018 Apr) Kyoto 1.500 \"Gold \\\"pavilion\\\"\"\n"+
		"    , Image \"castle.jpg\" (Date 2018 May) Osaka 3.250 \"\"\n"+
		"    ]")
}

func TestBuild_ImageUnderUnknownLocation(t *testing.T) {
	images := []gallery.Image{{Path: "x.jpg", File: "x.jpg", Location: "Nara"}}
	_, err := Build(registry(t, kansaiYAML), kansaiCache(t), images)
	require.Error(t, err)
	assert.True(t, runerr.Is(err, runerr.IdentifierMismatch))
}

func TestBuild_TripToUnconfiguredLocation(t *testing.T) {
	doc := strings.Replace(kansaiYAML, "cities: [Kyoto, Osaka]", "cities: [Kyoto, Nara]", 1)
	path := filepath.Join(t.TempDir(), "Manifest.elm")

	m, err := Build(registry(t, doc), kansaiCache(t), nil)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, runerr.Is(err, runerr.MissingCoordinate))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_UnresolvedLocation(t *testing.T) {
	c, err := geocache.FromEntries([]model.CacheEntry{
		{Location: "Kyoto", Name: "Kyoto", CountryCode: "JPN", Point: model.GeoPoint{Lon: 135.7681, Lat: 35.0116}},
	})
	require.NoError(t, err)

	_, err = Build(registry(t, kansaiYAML), c, nil)
	require.Error(t, err)
	assert.True(t, runerr.Is(err, runerr.MissingCoordinate))
}

func TestBuild_MalformedDate(t *testing.T) {
	for _, date := range []string{"201804", "20x8/04", "2018/13", "+2018/04"} {
		doc := strings.Replace(kansaiYAML, `"2018/05"`, `"`+date+`"`, 1)
		_, err := Build(registry(t, doc), kansaiCache(t), nil)
		require.Error(t, err, date)
		assert.True(t, runerr.Is(err, runerr.IdentifierMismatch), date)
	}
}

func TestBuild_ConstructorClash(t *testing.T) {
	for _, desc := range []string{"Kyoto", "Japan", "kansai", "Dec", "Trip"} {
		doc := strings.Replace(kansaiYAML, "description: Kansai 2018", "description: "+desc, 1)
		_, err := Build(registry(t, doc), kansaiCache(t), nil)
		require.Error(t, err, desc)
		assert.True(t, runerr.Is(err, runerr.IdentifierMismatch), desc)
	}
}

func TestRender_NoTrips(t *testing.T) {
	m, err := Build(registry(t, "places:\n  Japan:\n    Kyoto:\n    Osaka:\n"), kansaiCache(t), nil)
	require.NoError(t, err)
	assert.Empty(t, m.Trips)
	out := render(t, m)

	assert.Contains(t, out, "type Location\n    = Kyoto\n    | Osaka\n")
	assert.Contains(t, out, "type Trip\n    = Trip Never\n")
	assert.Contains(t, out, "tripList =\n    []\n")
	assert.Contains(t, out, "stringToTrip _ =\n    Nothing\n")
	assert.Contains(t, out, "tripInformation (Trip n) =\n    never n\n")
	assert.Contains(t, out, "tripPath (Trip n) =\n    never n\n")
	assert.NotContains(t, out, "case trip of")
}

func TestRender_NoLocations(t *testing.T) {
	m, err := Build(registry(t, "places:\n  Japan:\n    Local: 日本\n"), geocache.New(), nil)
	require.NoError(t, err)
	out := render(t, m)

	assert.Contains(t, out, "type Country\n    = Japan\n")
	assert.Contains(t, out, "type Location\n    = Location Never\n")
	assert.Contains(t, out, "locationList =\n    []\n")
	assert.Contains(t, out, "stringToLocation _ =\n    Nothing\n")
	assert.Contains(t, out, "locationLocalName (Location n) =\n    never n\n")
	assert.Contains(t, out, "locationInformation (Location n) =\n    never n\n")
	assert.Contains(t, out, "type Trip\n    = Trip Never\n")
	assert.NotContains(t, out, "case location of")
}

func TestWriteFile(t *testing.T) {
	m, err := Build(registry(t, kansaiYAML), kansaiCache(t), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "src", "Manifest.elm")
	require.NoError(t, WriteFile(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render(t, m), string(data))
	assert.True(t, strings.HasPrefix(string(data), "module Manifest exposing ("))
}

func TestElmString(t *testing.T) {
	assert.Equal(t, `"plain"`, elmString("plain"))
	assert.Equal(t, `"a \"b\" \\ c\nd"`, elmString("a \"b\" \\ c\nd"))
	assert.Equal(t, `"\u{0007}"`, elmString("\a"))
	assert.Equal(t, `"Hà Nội"`, elmString("Hà Nội"))
}
