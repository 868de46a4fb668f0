package render

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"

	"github.com/matzehuels/mapposter/pkg/fonts"
	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/roads"
	"github.com/matzehuels/mapposter/pkg/theme"
)

// PosterWidth is the poster width in points (12 inches).
const PosterWidth = 12 * 72.0

// Labels is the text printed under the map.
type Labels struct {
	City    string
	Country string
	Lat     float64
	Lon     float64
	Tagline string // replaces the coordinates when set
}

// Subtitle returns the tagline, or the formatted coordinates.
func (l Labels) Subtitle() string {
	if t := strings.TrimSpace(l.Tagline); t != "" {
		return t
	}
	return FormatCoords(l.Lat, l.Lon)
}

// Scene is everything drawn on one poster.
type Scene struct {
	Map    *geo.Projected
	Ocean  orb.MultiPolygon // nil when no ocean was found
	Crop   orb.Bound        // in projected metres; width/height equals the poster aspect
	Theme  *theme.Theme
	Labels Labels
	Pin    Pin
	// PinColor overrides the pin fill; empty uses the theme text color.
	PinColor string
}

// Aspect returns the crop's width divided by its height.
func (s *Scene) Aspect() float64 {
	return (s.Crop.Max[0] - s.Crop.Min[0]) / (s.Crop.Max[1] - s.Crop.Min[1])
}

// Draw paints the scene onto surf, back to front: background, ocean,
// water, parks, roads, fades, text, attribution and pin.
func Draw(surf Surface, s *Scene) error {
	w, h := surf.Size()
	th := s.Theme
	if th == nil {
		th = &theme.Fallback
	}
	t := geo.Fit(
		[2]float64{s.Crop.Min[0], s.Crop.Max[0]},
		[2]float64{s.Crop.Min[1], s.Crop.Max[1]},
		w, h)
	// Geometry is clipped to a slightly larger box so strokes reach the edge.
	pad := (s.Crop.Max[0] - s.Crop.Min[0]) * 0.02
	box := s.Crop.Pad(pad)

	surf.Clear(theme.MustColor(th.Background))

	surf.FillPolygons("ocean", t.MultiPolygon(clipPolygons(s.Ocean, box)), theme.MustColor(th.Water))
	if s.Map != nil {
		surf.FillPolygons("water", t.MultiPolygon(clipPolygons(s.Map.Water, box)), theme.MustColor(th.Water))
		surf.FillPolygons("parks", t.MultiPolygon(clipPolygons(s.Map.Parks, box)), theme.MustColor(th.Parks))
		for _, c := range roads.Classes {
			lines := streetsOf(s.Map, c, box, t)
			surf.StrokeLines("road-"+string(c), lines, theme.MustColor(th.Road(c)), c.LineWidth())
		}
	}

	fade := theme.MustColor(th.Gradient)
	surf.Fade("fade-bottom", h, h*(1-FadeExtent), fade)
	surf.Fade("fade-top", 0, h*FadeExtent, fade)

	if err := drawLabels(surf, s.Labels, th, w, h); err != nil {
		return err
	}

	if s.Pin != PinNone {
		pc := th.Text
		if s.PinColor != "" {
			pc = s.PinColor
		}
		shape := s.Pin.Shape(orb.Point{w / 2, h / 2}, w*PinScale)
		surf.FillPolygons("pin", orb.MultiPolygon{shape}, theme.MustColor(pc))
	}
	return nil
}

func drawLabels(surf Surface, l Labels, th *theme.Theme, w, h float64) error {
	text := theme.MustColor(th.Text)
	at := func(fx, fy float64) orb.Point { return orb.Point{w * fx, h * (1 - fy)} }

	if l.City != "" {
		st := TextStyle{Weight: fonts.Bold, Size: TitleSize(l.City), Color: text}
		if err := surf.Text(SpacedTitle(l.City), at(0.5, TitleY), AnchorMiddle, st); err != nil {
			return err
		}
	}
	if l.Country != "" {
		st := TextStyle{Weight: fonts.Light, Size: CountrySize, Color: text}
		if err := surf.Text(strings.ToUpper(l.Country), at(0.5, CountryY), AnchorMiddle, st); err != nil {
			return err
		}
	}
	surf.Line(at(DividerX0, DividerY), at(DividerX1, DividerY), text, DividerWidth)

	sub := TextStyle{Weight: fonts.Regular, Size: SubtitleSize, Color: WithAlpha(text, SubtitleAlpha)}
	if err := surf.Text(l.Subtitle(), at(0.5, SubtitleY), AnchorMiddle, sub); err != nil {
		return err
	}

	attr := TextStyle{Weight: fonts.Light, Size: AttributionSize, Color: WithAlpha(text, AttributionAlpha)}
	pos := at(AttributionX, AttributionY)
	pos[1] -= AttributionSize * descentRatio
	return surf.Text(Attribution, pos, AnchorEnd, attr)
}

// streetsOf returns the class's centrelines clipped to box, in surface
// coordinates.
func streetsOf(p *geo.Projected, c roads.Class, box orb.Bound, t geo.Transform) []orb.LineString {
	var out []orb.LineString
	for _, st := range p.Streets {
		if roads.Classify(st.Highway) != c || len(st.Line) < 2 {
			continue
		}
		if !box.Intersects(st.Line.Bound()) {
			continue
		}
		for _, ls := range clip.MultiLineString(box, orb.MultiLineString{st.Line}) {
			if len(ls) >= 2 {
				out = append(out, t.LineString(ls))
			}
		}
	}
	return out
}

func clipPolygons(mp orb.MultiPolygon, box orb.Bound) orb.MultiPolygon {
	if len(mp) == 0 {
		return nil
	}
	var out orb.MultiPolygon
	for _, poly := range mp {
		if len(poly) == 0 || !box.Intersects(poly.Bound()) {
			continue
		}
		c := clip.Polygon(box, poly.Clone())
		if len(c) > 0 && len(c[0]) >= 4 {
			out = append(out, c)
		}
	}
	return out
}
