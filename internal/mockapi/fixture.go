package mockapi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk description of the tenants a mock backend serves.
type Fixture struct {
	Tenants []TenantFixture `yaml:"tenants"`
}

// TenantFixture mirrors one tenant's config plus the canned data behind its
// arrivals, menu and weather endpoints.
type TenantFixture struct {
	Code                  string           `yaml:"code"`
	Name                  string           `yaml:"name"`
	Layout                string           `yaml:"layout"`
	Theme                 string           `yaml:"theme"`
	BoardHeaderText       string           `yaml:"boardHeaderText"`
	MenuMode              string           `yaml:"menuMode"`
	ShowYoutube           bool             `yaml:"showYoutube"`
	YoutubeURL            string           `yaml:"youtubeUrl"`
	ShowWeather           bool             `yaml:"showWeather"`
	RefreshSeconds        int              `yaml:"refreshSeconds"`
	SwapSeconds           int              `yaml:"swapSeconds"`
	WeatherRefreshSeconds int              `yaml:"weatherRefreshSeconds"`
	Stops                 []string         `yaml:"stops"`
	Arrivals              []ArrivalFixture `yaml:"arrivals"`
	Menu                  *MenuFixture     `yaml:"menu"`
	Weather               *WeatherFixture  `yaml:"weather"`
}

// ArrivalFixture is one bus, with its ETA measured from server start.
type ArrivalFixture struct {
	Stop        string `yaml:"stop"`
	Line        string `yaml:"line"`
	Destination string `yaml:"destination"`
	ETASeconds  int    `yaml:"etaSeconds"`
}

type MenuFixture struct {
	Title            string `yaml:"title"`
	Text             string `yaml:"text"`
	FeaturedImageURL string `yaml:"featuredImageUrl"`
}

type WeatherFixture struct {
	TempC       *float64 `yaml:"tempC"`
	FeelsLikeC  *float64 `yaml:"feelsLikeC"`
	HumidityPct *int     `yaml:"humidityPct"`
	WindMps     *float64 `yaml:"windMps"`
	Description string   `yaml:"description"`
	IconCode    string   `yaml:"iconCode"`
	IsNight     bool     `yaml:"isNight"`
	Stale       bool     `yaml:"stale"`
}

// LoadFixture reads a fixture from a YAML file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes YAML and rejects tenants without a code or with
// duplicate codes.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	seen := make(map[string]bool, len(f.Tenants))
	for i, t := range f.Tenants {
		if t.Code == "" {
			return nil, fmt.Errorf("tenant %d: missing code", i)
		}
		if seen[t.Code] {
			return nil, fmt.Errorf("tenant %q: duplicate code", t.Code)
		}
		seen[t.Code] = true
	}
	return &f, nil
}
