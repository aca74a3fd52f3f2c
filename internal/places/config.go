// Package places loads the place/trip configuration and the static country
// code table, and validates them into a Registry.
package places

import (
	"bytes"
	"encoding/json"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/neophilus/manifester/internal/runerr"
)

// Config is the parsed place/trip file.
type Config struct {
	// Places maps country ID to location ID to optional local name.
	Places map[string]map[string]*string `yaml:"places"`
	Trips  []TripConfig                  `yaml:"trips"`
}

// TripConfig is one trip as written in the config file.
type TripConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Cities      []string `yaml:"cities"`
	Dates       []string `yaml:"dates"`
}

// LoadConfig reads and parses the place/trip file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, runerr.Wrap(runerr.ConfigParse, err, "places: read config "+path)
	}
	return ParseConfig(data)
}

// ParseConfig parses place/trip YAML. Local names are NFC-normalized.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, runerr.Wrap(runerr.ConfigParse, err, "places: parse config")
	}
	if len(cfg.Places) == 0 {
		return nil, runerr.New(runerr.ConfigParse, "places: config declares no places")
	}
	for _, locations := range cfg.Places {
		for id, local := range locations {
			if local != nil {
				s := norm.NFC.String(*local)
				locations[id] = &s
			}
		}
	}
	return &cfg, nil
}

// CountryCodes maps country display names to ISO 3166-1 alpha-3 codes.
type CountryCodes struct {
	byName map[string]string
	byCode map[string]string
}

type countryCodeRecord struct {
	Name   string `json:"name"`
	Alpha3 string `json:"alpha-3"`
}

// LoadCountryCodes reads the static name/code table at path.
func LoadCountryCodes(path string) (*CountryCodes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, runerr.Wrap(runerr.ConfigParse, err, "places: read country codes "+path)
	}
	return ParseCountryCodes(data)
}

// ParseCountryCodes parses a JSON array of {"name", "alpha-3"} records.
func ParseCountryCodes(data []byte) (*CountryCodes, error) {
	var records []countryCodeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, runerr.Wrap(runerr.ConfigParse, err, "places: parse country codes")
	}
	cc := &CountryCodes{
		byName: make(map[string]string, len(records)),
		byCode: make(map[string]string, len(records)),
	}
	for _, r := range records {
		if r.Name == "" || r.Alpha3 == "" {
			continue
		}
		cc.byName[r.Name] = r.Alpha3
		if _, dup := cc.byCode[r.Alpha3]; !dup {
			cc.byCode[r.Alpha3] = r.Name
		}
	}
	return cc, nil
}

// NewCountryCodes builds a table from a name to code map.
func NewCountryCodes(byName map[string]string) *CountryCodes {
	cc := &CountryCodes{
		byName: make(map[string]string, len(byName)),
		byCode: make(map[string]string, len(byName)),
	}
	for name, code := range byName {
		cc.byName[name] = code
		cc.byCode[code] = name
	}
	return cc
}

// Code returns the alpha-3 code for a country display name.
func (c *CountryCodes) Code(name string) (string, bool) {
	code, ok := c.byName[name]
	return code, ok
}

// Name returns the country display name for an alpha-3 code.
func (c *CountryCodes) Name(code string) (string, bool) {
	name, ok := c.byCode[code]
	return name, ok
}

// Len returns the number of countries in the table.
func (c *CountryCodes) Len() int { return len(c.byName) }
