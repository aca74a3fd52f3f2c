package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/neophilus/manifester/internal/runerr"
)

// searchResult is one element of the Nominatim jsonv2 search response.
type searchResult struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// Search implements Client. Zero results is LookupNotFound; every other
// failure is LookupTransport.
func (g *geocoder) Search(ctx context.Context, query string) (*Result, error) {
	params := url.Values{
		"format": {"jsonv2"},
		"q":      {query},
		"limit":  {"1"},
	}
	reqURL := strings.TrimRight(g.baseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, runerr.Wrap(runerr.LookupTransport, err, "geocode: build request")
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, runerr.Wrap(runerr.LookupTransport, err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, runerr.Errorf(runerr.LookupTransport, "geocode: nominatim returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, runerr.Wrap(runerr.LookupTransport, err, "geocode: read body")
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, runerr.Wrap(runerr.LookupTransport, err, "geocode: parse response")
	}
	if len(results) == 0 {
		return nil, runerr.Errorf(runerr.LookupNotFound, "geocode: search for %s did not find coordinates", query)
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return nil, runerr.Wrap(runerr.LookupTransport, eris.Wrapf(err, "lat %q", best.Lat), "geocode: parse coordinates")
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return nil, runerr.Wrap(runerr.LookupTransport, eris.Wrapf(err, "lon %q", best.Lon), "geocode: parse coordinates")
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: best.DisplayName,
	}, nil
}
