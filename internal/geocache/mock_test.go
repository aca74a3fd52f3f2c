package geocache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neophilus/manifester/internal/places"
	"github.com/neophilus/manifester/pkg/geocode"
)

// --- Geocode Mock ---

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Search(ctx context.Context, query string) (*geocode.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

func testCodes() *places.CountryCodes {
	return places.NewCountryCodes(map[string]string{
		"Japan":     "JPN",
		"Vietnam":   "VNM",
		"Hong Kong": "HKG",
	})
}

func registryFromYAML(t *testing.T, doc string) *places.Registry {
	t.Helper()
	cfg, err := places.ParseConfig([]byte(doc))
	require.NoError(t, err)
	reg, err := places.NewRegistry(cfg, testCodes())
	require.NoError(t, err)
	return reg
}

const japanYAML = `
places:
  Japan:
    Kyoto:
    Osaka:
`

const japanWithTokyoYAML = `
places:
  Japan:
    Kyoto:
    Osaka:
    Tokyo: 東京
`

const japanAndVietnamYAML = `
places:
  Japan:
    Kyoto:
    Osaka:
  Vietnam:
    Hanoi:
    HoChiMinhCity:
`
