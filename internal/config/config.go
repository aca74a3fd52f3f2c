package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Gallery GalleryConfig `yaml:"gallery" mapstructure:"gallery"`
	Format  FormatConfig  `yaml:"format" mapstructure:"format"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PathsConfig locates every input and output file.
type PathsConfig struct {
	Places      string `yaml:"places" mapstructure:"places"`
	CountryCode string `yaml:"country_codes" mapstructure:"country_codes"`
	Cities      string `yaml:"cities" mapstructure:"cities"`
	Trips       string `yaml:"trips" mapstructure:"trips"`
	Countries   string `yaml:"countries" mapstructure:"countries"`
	World       string `yaml:"world" mapstructure:"world"`
	Manifest    string `yaml:"manifest" mapstructure:"manifest"`
	Gallery     string `yaml:"gallery" mapstructure:"gallery"`
}

// GeocodeConfig configures the Nominatim client and resolution policy.
type GeocodeConfig struct {
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	Delay     time.Duration `yaml:"delay" mapstructure:"delay"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Policy    string        `yaml:"policy" mapstructure:"policy"`
}

// GalleryConfig configures thumbnail geometry.
type GalleryConfig struct {
	NarrowWidth int     `yaml:"narrow_width" mapstructure:"narrow_width"`
	WideWidth   int     `yaml:"wide_width" mapstructure:"wide_width"`
	Height      int     `yaml:"height" mapstructure:"height"`
	WideRatio   float64 `yaml:"wide_ratio" mapstructure:"wide_ratio"`
	BlurSigma   float64 `yaml:"blur_sigma" mapstructure:"blur_sigma"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// FormatConfig names the external tools run after generation. An empty
// binary disables the step.
type FormatConfig struct {
	TopoJSON   string `yaml:"topojson" mapstructure:"topojson"`
	ElmFormat  string `yaml:"elm_format" mapstructure:"elm_format"`
	ElmVersion string `yaml:"elm_version" mapstructure:"elm_version"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from manifester.yaml (optional), environment
// variables prefixed MANIFESTER_ and the built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("manifester")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MANIFESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("paths.places", "odyssey.yaml")
	v.SetDefault("paths.country_codes", "world/cca3.json")
	v.SetDefault("paths.cities", "world/cities.json")
	v.SetDefault("paths.trips", "world/trips.json")
	v.SetDefault("paths.countries", "world/countries.json")
	v.SetDefault("paths.world", "../dist/assets/world.json")
	v.SetDefault("paths.manifest", "../src/Manifest.elm")
	v.SetDefault("paths.gallery", "../dist/gallery")
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "manifester")
	v.SetDefault("geocode.delay", time.Second)
	v.SetDefault("geocode.timeout", 30*time.Second)
	v.SetDefault("geocode.policy", "locations")
	v.SetDefault("gallery.narrow_width", 500)
	v.SetDefault("gallery.wide_width", 900)
	v.SetDefault("gallery.height", 500)
	v.SetDefault("gallery.wide_ratio", 3.0)
	v.SetDefault("gallery.blur_sigma", 30.0)
	v.SetDefault("gallery.concurrency", 0)
	v.SetDefault("format.topojson", "topojson")
	v.SetDefault("format.elm_format", "elm-format")
	v.SetDefault("format.elm_version", "0.19")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are "run",
// "world" and "manifest".
func (c *Config) Validate(mode string) error {
	var problems []string
	require := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	geocoding := func() {
		require(c.Paths.Cities != "", "paths.cities is required")
		require(c.Paths.Trips != "", "paths.trips is required")
		require(c.Geocode.BaseURL != "", "geocode.base_url is required")
		require(c.Geocode.UserAgent != "", "geocode.user_agent is required")
		require(c.Geocode.Delay >= 0, "geocode.delay must be >= 0")
		require(c.Geocode.Timeout > 0, "geocode.timeout must be > 0")
		switch c.Geocode.Policy {
		case "", "locations", "strict":
		default:
			problems = append(problems, fmt.Sprintf("geocode.policy %q must be locations or strict", c.Geocode.Policy))
		}
	}
	generating := func() {
		require(c.Paths.Cities != "", "paths.cities is required")
		require(c.Paths.Manifest != "", "paths.manifest is required")
		require(c.Paths.Gallery != "", "paths.gallery is required")
		require(c.Gallery.NarrowWidth > 0 && c.Gallery.WideWidth > 0 && c.Gallery.Height > 0,
			"gallery widths and height must be > 0")
		require(c.Gallery.WideRatio > 0, "gallery.wide_ratio must be > 0")
		require(c.Gallery.BlurSigma >= 0, "gallery.blur_sigma must be >= 0")
		require(c.Gallery.Concurrency >= 0, "gallery.concurrency must be >= 0")
	}

	require(c.Paths.Places != "", "paths.places is required")
	require(c.Paths.CountryCode != "", "paths.country_codes is required")
	switch mode {
	case "run":
		geocoding()
		generating()
	case "world":
		geocoding()
	case "manifest":
		generating()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
