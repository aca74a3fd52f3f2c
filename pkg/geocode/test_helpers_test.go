package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestGeocoder points a geocoder at a test server handler.
func newTestGeocoder(t *testing.T, h http.HandlerFunc) *geocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &geocoder{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		userAgent:  "manifester-test",
	}
}
