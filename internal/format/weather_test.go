package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestTemp(t *testing.T) {
	assert.Equal(t, "--", Temp(nil))
	assert.Equal(t, "21°C", Temp(ptr(21.0)))
	assert.Equal(t, "21.4°C", Temp(ptr(21.44)))
	assert.Equal(t, "-3.5°C", Temp(ptr(-3.5)))
	assert.Equal(t, "Feels 19°C", FeelsLike(ptr(19.0)))
}

func TestHumidityAndWind(t *testing.T) {
	assert.Equal(t, "Humidity --%", Humidity(nil))
	assert.Equal(t, "Humidity 64%", Humidity(ptr(64)))
	assert.Equal(t, "Wind --", Wind(nil))
	assert.Equal(t, "Wind 3.5 m/s", Wind(ptr(3.5)))
	assert.Equal(t, "Wind 4 m/s", Wind(ptr(4.0)))
}

func TestUpdatedAt(t *testing.T) {
	assert.Equal(t, "Updated --", UpdatedAt("", false, time.UTC))
	assert.Equal(t, "Updated --", UpdatedAt("yesterday", false, time.UTC))
	assert.Equal(t, "Updated 14:30", UpdatedAt("2026-05-01T14:30:00Z", false, time.UTC))
	assert.Equal(t, "Updated 14:30 (stale)", UpdatedAt("2026-05-01T14:30:00Z", true, time.UTC))
	assert.Equal(t, "Updated 10:00", UpdatedAt("2025-05-01T10:00:00.123000", false, time.UTC))
	assert.Equal(t, "Updated 10:00", UpdatedAt("2025-05-01T10:00:00", false, time.UTC))

	madrid := time.FixedZone("CEST", 2*60*60)
	assert.Equal(t, "Updated 16:30", UpdatedAt("2026-05-01T14:30:00Z", false, madrid))
}

func TestIcon(t *testing.T) {
	tests := map[string]IconKind{
		"01d": IconClear,
		"01n": IconClear,
		"02d": IconClouds,
		"04n": IconClouds,
		"09d": IconRain,
		"10n": IconRain,
		"11d": IconThunder,
		"13d": IconSnow,
		"50d": IconClouds,
		"":    IconClouds,
	}
	for code, want := range tests {
		assert.Equal(t, want, Icon(code), "icon code %q", code)
	}
}

func TestGlyphNightVariant(t *testing.T) {
	assert.Equal(t, "☀", Glyph(IconClear, false))
	assert.Equal(t, "☾", Glyph(IconClear, true))
	assert.Equal(t, "☁", Glyph(IconClouds, true))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "--", Description("  "))
	assert.Equal(t, "light rain", Description("light rain"))
}
