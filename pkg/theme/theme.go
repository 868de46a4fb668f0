// Package theme defines poster color themes and the catalog they are
// loaded from.
//
// A theme is a flat set of hex colors. Themes live as TOML or JSON files in
// a themes directory; a built-in set is embedded in the binary and can be
// overridden file by file.
package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/mapposter/pkg/errors"
	"github.com/matzehuels/mapposter/pkg/roads"
)

// DefaultID is the theme used when none is requested.
const DefaultID = "feature_based"

// Categories lists the recognised theme categories.
var Categories = []string{
	"dark", "light", "nature", "urban", "vintage",
	"vibrant", "pastel", "luxury", "monochrome", "cultural", "other",
}

// Theme is a poster color scheme. Colors are #RRGGBB strings.
type Theme struct {
	ID          string `toml:"-" json:"id,omitempty"`
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description,omitempty"`
	Category    string `toml:"category" json:"category,omitempty"`

	Background      string `toml:"bg" json:"bg"`
	Text            string `toml:"text" json:"text"`
	Gradient        string `toml:"gradient_color" json:"gradient_color"`
	Water           string `toml:"water" json:"water"`
	Parks           string `toml:"parks" json:"parks"`
	RoadMotorway    string `toml:"road_motorway" json:"road_motorway"`
	RoadPrimary     string `toml:"road_primary" json:"road_primary"`
	RoadSecondary   string `toml:"road_secondary" json:"road_secondary"`
	RoadTertiary    string `toml:"road_tertiary" json:"road_tertiary"`
	RoadResidential string `toml:"road_residential" json:"road_residential"`
	RoadDefault     string `toml:"road_default" json:"road_default"`
}

// Fallback is the monochrome scheme used to fill fields a theme file leaves
// empty.
var Fallback = Theme{
	ID:              DefaultID,
	Name:            "Feature-Based Shading",
	Category:        "monochrome",
	Background:      "#FFFFFF",
	Text:            "#000000",
	Gradient:        "#FFFFFF",
	Water:           "#C0C0C0",
	Parks:           "#F0F0F0",
	RoadMotorway:    "#0A0A0A",
	RoadPrimary:     "#1A1A1A",
	RoadSecondary:   "#2A2A2A",
	RoadTertiary:    "#3A3A3A",
	RoadResidential: "#4A4A4A",
	RoadDefault:     "#3A3A3A",
}

// Road returns the color for a road class. Minor roads use RoadDefault.
func (t *Theme) Road(c roads.Class) string {
	switch c {
	case roads.Motorway:
		return t.RoadMotorway
	case roads.Primary:
		return t.RoadPrimary
	case roads.Secondary:
		return t.RoadSecondary
	case roads.Tertiary:
		return t.RoadTertiary
	case roads.Residential:
		return t.RoadResidential
	default:
		return t.RoadDefault
	}
}

type colorField struct {
	name string
	ptr  *string
}

func (t *Theme) fields() []colorField {
	return []colorField{
		{"bg", &t.Background},
		{"text", &t.Text},
		{"gradient_color", &t.Gradient},
		{"water", &t.Water},
		{"parks", &t.Parks},
		{"road_motorway", &t.RoadMotorway},
		{"road_primary", &t.RoadPrimary},
		{"road_secondary", &t.RoadSecondary},
		{"road_tertiary", &t.RoadTertiary},
		{"road_residential", &t.RoadResidential},
		{"road_default", &t.RoadDefault},
	}
}

// fill copies empty color fields from Fallback.
func (t *Theme) fill() {
	f := Fallback
	src := f.fields()
	for i, c := range t.fields() {
		if *c.ptr == "" {
			*c.ptr = *src[i].ptr
		}
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.Category == "" {
		t.Category = "other"
	}
}

// Validate checks every color field.
func (t *Theme) Validate() error {
	for _, c := range t.fields() {
		if err := errors.ValidateHexColor(*c.ptr); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTheme, err, "theme %q: field %s", t.ID, c.name)
		}
	}
	return nil
}

// ParseColor decodes #RGB, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return color.NRGBA{}, err
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor is ParseColor for values that have already been validated.
// Invalid input yields opaque black.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}
