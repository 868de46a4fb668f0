package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePlaceName validates a city or country name before it is sent to the
// geocoder or used in an output filename.
//
// The rules are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidatePlaceName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", field)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", field, pattern)
		}
	}
	return nil
}

// ValidateCoordinates checks that lat/lon are finite and in range.
// Longitude must already be normalized to [-180, 180].
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return New(ErrCodeInvalidInput, "coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidInput, "latitude %.6f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return New(ErrCodeInvalidInput, "longitude %.6f out of range [-180, 180]", lon)
	}
	return nil
}

// ValidateDPI checks the raster resolution bounds.
func ValidateDPI(dpi int) error {
	if dpi < 72 || dpi > 600 {
		return New(ErrCodeInvalidInput, "DPI must be between 72 and 600, got %d", dpi)
	}
	return nil
}

// ValidateRadius checks the map radius in meters.
func ValidateRadius(meters int) error {
	if meters <= 0 {
		return New(ErrCodeInvalidInput, "distance must be positive, got %d", meters)
	}
	if meters > 100_000 {
		return New(ErrCodeInvalidInput, "distance too large (max 100000 m), got %d", meters)
	}
	return nil
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a #RGB, #RRGGBB or #RRGGBBAA color string.
func ValidateHexColor(s string) error {
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #RRGGBB)", s)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
