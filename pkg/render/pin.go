package render

import (
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/errors"
)

// Pin is a marker glyph drawn at the map centre.
type Pin string

const (
	PinNone   Pin = ""
	PinMarker Pin = "marker"
	PinHeart  Pin = "heart"
	PinStar   Pin = "star"
	PinHome   Pin = "home"
	PinCircle Pin = "circle"
)

// Pins lists the available glyphs.
var Pins = []Pin{PinMarker, PinHeart, PinStar, PinHome, PinCircle}

// PinScale is the glyph size as a fraction of the map width.
const PinScale = 0.035

// ParsePin validates a pin name. The empty string and "none" mean no pin.
func ParsePin(s string) (Pin, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return PinNone, nil
	}
	for _, p := range Pins {
		if string(p) == s {
			return p, nil
		}
	}
	return PinNone, errors.New(errors.ErrCodeInvalidPin, "unknown pin %q (want marker, heart, star, home or circle)", s)
}

// Shape returns the glyph outline of the given size centred on at, in
// surface coordinates (y down). The marker's tip sits on at; the other
// glyphs are centred on it. Holes are separate rings for even-odd filling.
func (p Pin) Shape(at orb.Point, size float64) orb.Polygon {
	var poly orb.Polygon
	switch p {
	case PinMarker:
		poly = markerShape(size)
	case PinHeart:
		poly = orb.Polygon{heartRing(size)}
	case PinStar:
		poly = orb.Polygon{starRing(size)}
	case PinHome:
		poly = homeShape(size)
	case PinCircle:
		poly = orb.Polygon{circleRing(orb.Point{}, size/2, 48)}
	default:
		return nil
	}
	for _, r := range poly {
		for i := range r {
			r[i] = orb.Point{r[i][0] + at[0], r[i][1] + at[1]}
		}
	}
	return poly
}

func circleRing(c orb.Point, radius float64, n int) orb.Ring {
	r := make(orb.Ring, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		r = append(r, orb.Point{c[0] + radius*math.Cos(a), c[1] + radius*math.Sin(a)})
	}
	return append(r, r[0])
}

// markerShape is a teardrop: a circle of radius size/2 whose centre is one
// size above the tip, joined to the tip by its two tangents, with a round
// hole in the middle.
func markerShape(size float64) orb.Polygon {
	radius := size / 2
	c := orb.Point{0, -size}
	alpha := math.Acos(radius / size) // angle between the tip direction and each tangent point
	const steps = 40
	outer := orb.Ring{{0, 0}}
	start := math.Pi/2 + alpha
	sweep := 2*math.Pi - 2*alpha
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/steps
		outer = append(outer, orb.Point{c[0] + radius*math.Cos(a), c[1] + radius*math.Sin(a)})
	}
	outer = append(outer, outer[0])
	return orb.Polygon{outer, circleRing(c, radius*0.4, 24)}
}

// heartRing uses the classic parametric heart curve scaled to size.
func heartRing(size float64) orb.Ring {
	const steps = 64
	k := size / 32
	r := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		t := 2 * math.Pi * float64(i) / steps
		x := 16 * math.Pow(math.Sin(t), 3)
		y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
		r = append(r, orb.Point{x * k, -y * k})
	}
	return append(r, r[0])
}

func starRing(size float64) orb.Ring {
	outer := size / 2
	inner := outer * 0.382
	r := make(orb.Ring, 0, 11)
	for i := 0; i < 10; i++ {
		rad := outer
		if i%2 == 1 {
			rad = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/5
		r = append(r, orb.Point{rad * math.Cos(a), rad * math.Sin(a)})
	}
	return append(r, r[0])
}

// homeShape is a house outline with a door cut out.
func homeShape(size float64) orb.Polygon {
	s := size
	outer := orb.Ring{
		{0, -0.5 * s},
		{0.5 * s, -0.05 * s},
		{0.38 * s, -0.05 * s},
		{0.38 * s, 0.5 * s},
		{-0.38 * s, 0.5 * s},
		{-0.38 * s, -0.05 * s},
		{-0.5 * s, -0.05 * s},
		{0, -0.5 * s},
	}
	door := orb.Ring{
		{-0.1 * s, 0.15 * s},
		{0.1 * s, 0.15 * s},
		{0.1 * s, 0.42 * s},
		{-0.1 * s, 0.42 * s},
		{-0.1 * s, 0.15 * s},
	}
	return orb.Polygon{outer, door}
}
