package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no manifester.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "odyssey.yaml", cfg.Paths.Places)
	assert.Equal(t, "world/cca3.json", cfg.Paths.CountryCode)
	assert.Equal(t, "world/cities.json", cfg.Paths.Cities)
	assert.Equal(t, "world/trips.json", cfg.Paths.Trips)
	assert.Equal(t, "../src/Manifest.elm", cfg.Paths.Manifest)
	assert.Equal(t, "../dist/gallery", cfg.Paths.Gallery)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.BaseURL)
	assert.Equal(t, time.Second, cfg.Geocode.Delay)
	assert.Equal(t, 30*time.Second, cfg.Geocode.Timeout)
	assert.Equal(t, "locations", cfg.Geocode.Policy)
	assert.Equal(t, 500, cfg.Gallery.NarrowWidth)
	assert.Equal(t, 900, cfg.Gallery.WideWidth)
	assert.Equal(t, 500, cfg.Gallery.Height)
	assert.InDelta(t, 3.0, cfg.Gallery.WideRatio, 0.001)
	assert.InDelta(t, 30.0, cfg.Gallery.BlurSigma, 0.001)
	assert.Equal(t, "elm-format", cfg.Format.ElmFormat)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
paths:
  gallery: photos
geocode:
  delay: 2s
  policy: strict
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifester.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "photos", cfg.Paths.Gallery)
	assert.Equal(t, 2*time.Second, cfg.Geocode.Delay)
	assert.Equal(t, "strict", cfg.Geocode.Policy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "odyssey.yaml", cfg.Paths.Places)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
geocode:
  policy: strict
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifester.yaml"), []byte(yaml), 0644))

	t.Setenv("MANIFESTER_GEOCODE_POLICY", "locations")
	t.Setenv("MANIFESTER_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "locations", cfg.Geocode.Policy)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("MANIFESTER_GALLERY_WIDE_WIDTH", "1200")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Gallery.WideWidth)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifester.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Paths = PathsConfig{
		Places:      "odyssey.yaml",
		CountryCode: "world/cca3.json",
		Cities:      "world/cities.json",
		Trips:       "world/trips.json",
		Manifest:    "../src/Manifest.elm",
		Gallery:     "../dist/gallery",
	}
	cfg.Geocode = GeocodeConfig{
		BaseURL:   "https://nominatim.openstreetmap.org",
		UserAgent: "manifester",
		Delay:     time.Second,
		Timeout:   30 * time.Second,
		Policy:    "locations",
	}
	cfg.Gallery = GalleryConfig{NarrowWidth: 500, WideWidth: 900, Height: 500, WideRatio: 3, BlurSigma: 30}
	return cfg
}

func TestValidate_AllModes(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"run", "world", "manifest"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidate_UnknownPolicy(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Policy = "eager"

	err := cfg.Validate("world")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.policy")

	// Generation never geocodes, so the policy is irrelevant there.
	assert.NoError(t, cfg.Validate("manifest"))
}

func TestValidate_GalleryGeometry(t *testing.T) {
	cfg := validDefaults()
	cfg.Gallery.WideWidth = 0

	err := cfg.Validate("manifest")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gallery widths and height must be > 0")
	assert.NoError(t, cfg.Validate("world"))
}

func TestValidate_MissingPaths(t *testing.T) {
	cfg := validDefaults()
	cfg.Paths.Places = ""
	cfg.Paths.Cities = ""

	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "paths.places is required")
	assert.Contains(t, err.Error(), "paths.cities is required")
}

func TestValidate_Timeout(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Timeout = 0

	err := cfg.Validate("world")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.timeout must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
