package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// ErrDegenerateBounds is returned when the bounds have no extent on an axis.
var ErrDegenerateBounds = errors.New("geo: bounds have zero width or height")

// CropLimits shrinks b about its centre until width/height equals aspect.
// Only the axis that is too long changes.
func CropLimits(b orb.Bound, aspect float64) (xlim, ylim [2]float64, err error) {
	xr := b.Max[0] - b.Min[0]
	yr := b.Max[1] - b.Min[1]
	if !(xr > 0) || !(yr > 0) || !(aspect > 0) || math.IsInf(aspect, 0) {
		return xlim, ylim, ErrDegenerateBounds
	}

	xlim = [2]float64{b.Min[0], b.Max[0]}
	ylim = [2]float64{b.Min[1], b.Max[1]}
	cx, cy := (b.Min[0]+b.Max[0])/2, (b.Min[1]+b.Max[1])/2

	switch current := xr / yr; {
	case current > aspect:
		half := yr * aspect / 2
		xlim = [2]float64{cx - half, cx + half}
	case current < aspect:
		half := xr / aspect / 2
		ylim = [2]float64{cy - half, cy + half}
	}
	return xlim, ylim, nil
}

// CropBox is CropLimits as an orb.Bound.
func CropBox(b orb.Bound, aspect float64) (orb.Bound, error) {
	xlim, ylim, err := CropLimits(b, aspect)
	if err != nil {
		return orb.Bound{}, err
	}
	return orb.Bound{Min: orb.Point{xlim[0], ylim[0]}, Max: orb.Point{xlim[1], ylim[1]}}, nil
}

// DefaultAspect is used when no or an unknown aspect ratio is given.
const DefaultAspect = "2:3"

// AspectPresets lists the accepted aspect names in display order.
var AspectPresets = []string{"2:3", "3:4", "4:5", "5:7", "11:14", "1:1", "16:9", "9:16", "A4", "A3"}

// Aspect is a named poster shape. Ratio is width divided by height.
type Aspect struct {
	Name  string
	Ratio float64
}

// ParseAspect resolves a preset name. ok is false for anything that is not
// a preset, in which case the default 2:3 is returned.
func ParseAspect(s string) (a Aspect, ok bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "A4", "A3":
		return Aspect{Name: s, Ratio: 1 / math.Sqrt2}, true
	}
	for _, p := range AspectPresets {
		if p != s {
			continue
		}
		w, h, _ := strings.Cut(p, ":")
		wf, _ := strconv.ParseFloat(w, 64)
		hf, _ := strconv.ParseFloat(h, 64)
		return Aspect{Name: p, Ratio: wf / hf}, true
	}
	return Aspect{Name: DefaultAspect, Ratio: 2.0 / 3.0}, false
}
