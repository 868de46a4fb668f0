package roads

import "strings"

// Class is a road category used for colour, width and laser layers.
type Class string

const (
	Motorway    Class = "motorway"
	Primary     Class = "primary"
	Secondary   Class = "secondary"
	Tertiary    Class = "tertiary"
	Residential Class = "residential"
	Minor       Class = "minor"
)

// Classes lists every class from the least to the most important, which is
// also the order they are painted and cut in.
var Classes = []Class{Minor, Residential, Tertiary, Secondary, Primary, Motorway}

var byTag = map[string]Class{
	"motorway":       Motorway,
	"motorway_link":  Motorway,
	"trunk":          Primary,
	"trunk_link":     Primary,
	"primary":        Primary,
	"primary_link":   Primary,
	"secondary":      Secondary,
	"secondary_link": Secondary,
	"tertiary":       Tertiary,
	"tertiary_link":  Tertiary,
	"residential":    Residential,
	"living_street":  Residential,
	"unclassified":   Residential,
}

// Classify maps an OSM highway value to its class. Unknown values are Minor.
func Classify(highway string) Class {
	if c, ok := byTag[strings.ToLower(strings.TrimSpace(highway))]; ok {
		return c
	}
	return Minor
}

// HalfWidth is the buffer distance in metres used for laser output.
func (c Class) HalfWidth() float64 {
	switch c {
	case Motorway:
		return 12
	case Primary:
		return 8
	case Secondary:
		return 6
	case Tertiary:
		return 4.5
	case Residential:
		return 3.5
	default:
		return 2.5
	}
}

// LineWidth is the raster stroke width in points.
func (c Class) LineWidth() float64 {
	switch c {
	case Motorway:
		return 1.2
	case Primary:
		return 1.0
	case Secondary:
		return 0.8
	case Tertiary:
		return 0.6
	default:
		return 0.4
	}
}
