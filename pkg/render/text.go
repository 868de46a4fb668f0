package render

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Typography, as fractions of the poster measured from the bottom left,
// and sizes in points.
const (
	TitleY       = 0.14
	CountryY     = 0.10
	DividerY     = 0.125
	DividerX0    = 0.4
	DividerX1    = 0.6
	SubtitleY    = 0.07
	AttributionX = 0.98
	AttributionY = 0.02

	TitleMaxSize    = 60.0
	TitleMinSize    = 24.0
	TitleFitLength  = 10
	CountrySize     = 22.0
	SubtitleSize    = 14.0
	AttributionSize = 8.0
	DividerWidth    = 1.0

	SubtitleAlpha    = 0.7
	AttributionAlpha = 0.5

	// Attribution is bottom-aligned; its baseline sits this fraction of
	// the font size above the anchor.
	descentRatio = 0.22
)

// Attribution is the credit line printed on every poster.
const Attribution = "© OpenStreetMap contributors"

// Fades cover the bottom and top quarter of the poster.
const FadeExtent = 0.25

// SpacedTitle upper-cases name and separates its letters with two spaces.
func SpacedTitle(name string) string {
	letters := strings.Split(strings.ToUpper(name), "")
	return strings.Join(letters, "  ")
}

// TitleSize is 60 pt for names up to ten characters and shrinks in
// proportion beyond that, never below 24 pt. Only the name length counts.
func TitleSize(name string) float64 {
	n := utf8.RuneCountInString(name)
	if n <= TitleFitLength {
		return TitleMaxSize
	}
	return math.Max(TitleMinSize, TitleMaxSize*TitleFitLength/float64(n))
}

// FormatCoords writes a position as "48.8566° N / 2.3522° E", with S and W
// for negative values.
func FormatCoords(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f° %s / %.4f° %s", math.Abs(lat), ns, math.Abs(lon), ew)
}
