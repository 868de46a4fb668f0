package ocean

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/geom"
)

var box = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name      string
		coast     orb.MultiLineString
		present   bool
		reason    string
		wantArea  float64
		seaSample orb.Point
	}{
		{name: "no coastline", coast: nil, reason: ReasonNoCoastline},
		{name: "coastline outside box", coast: orb.MultiLineString{{{500, 500}, {600, 600}}}, reason: ReasonNoCoastline},
		{
			name:      "straight shore",
			coast:     orb.MultiLineString{{{-10, 30}, {110, 30}}},
			present:   true,
			wantArea:  3000,
			seaSample: orb.Point{50, 10},
		},
		{
			name:      "cut corner",
			coast:     orb.MultiLineString{{{-10, 20}, {20, -10}}},
			present:   true,
			wantArea:  50,
			seaSample: orb.Point{2, 2},
		},
		{
			name:      "shore in two pieces",
			coast:     orb.MultiLineString{{{-10, 30}, {50, 30}}, {{50, 30}, {110, 30}}},
			present:   true,
			wantArea:  3000,
			seaSample: orb.Point{50, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Reconstruct(tt.coast, box)
			if res.Present != tt.present {
				t.Fatalf("Present = %v (reason %q), want %v", res.Present, res.Reason, tt.present)
			}
			if !tt.present {
				if res.Reason != tt.reason {
					t.Errorf("Reason = %q, want %q", res.Reason, tt.reason)
				}
				if res.Polygon != nil {
					t.Error("absent result should carry no polygon")
				}
				return
			}
			if a := geom.Area(res.Polygon); math.Abs(a-tt.wantArea) > 1e-6*tt.wantArea {
				t.Errorf("area = %v, want %v", a, tt.wantArea)
			}
			if !res.Polygon.Bound().Pad(1e-9).Contains(tt.seaSample) {
				t.Errorf("sea %v should cover %v", res.Polygon.Bound(), tt.seaSample)
			}
		})
	}
}

func TestReconstructStaysInsideBox(t *testing.T) {
	res := Reconstruct(orb.MultiLineString{{{-50, 70}, {150, 50}}}, box)
	if !res.Present {
		t.Fatalf("expected sea, got %q", res.Reason)
	}
	b := res.Polygon.Bound()
	if b.Min[0] < -1e-9 || b.Min[1] < -1e-9 || b.Max[0] > 100+1e-9 || b.Max[1] > 100+1e-9 {
		t.Errorf("sea bound %v leaves the clip box", b)
	}
}

func TestReconstructDegenerateBox(t *testing.T) {
	res := Reconstruct(orb.MultiLineString{{{0, 0}, {1, 1}}}, orb.Bound{})
	if res.Present {
		t.Error("empty box should give no sea")
	}
}
