package roads

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/mapposter/pkg/geo"
	"github.com/matzehuels/mapposter/pkg/geom"
)

var bigBox = orb.Bound{Min: orb.Point{-1000, -1000}, Max: orb.Point{1000, 1000}}

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  string
		want Class
	}{
		{"motorway", Motorway},
		{"motorway_link", Motorway},
		{"trunk", Primary},
		{"primary_link", Primary},
		{"secondary", Secondary},
		{"tertiary_link", Tertiary},
		{"living_street", Residential},
		{"unclassified", Residential},
		{"footway", Minor},
		{"", Minor},
		{" Primary ", Primary},
	}
	for _, tt := range tests {
		if got := Classify(tt.tag); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.tag, got, tt.want)
		}
	}
}

func TestWidths(t *testing.T) {
	if Motorway.HalfWidth() != 12 || Tertiary.HalfWidth() != 4.5 || Minor.HalfWidth() != 2.5 {
		t.Error("unexpected half-widths")
	}
	if Motorway.LineWidth() != 1.2 || Residential.LineWidth() != 0.4 || Minor.LineWidth() != 0.4 {
		t.Error("unexpected line widths")
	}
}

func TestPrimarySegmentsMerge(t *testing.T) {
	p := &geo.Projected{Streets: []geo.Street{
		{Line: orb.LineString{{0, 0}, {100, 0}}, Highway: "primary"},
		{Line: orb.LineString{{100, 0}, {100, 100}}, Highway: "trunk"},
	}}
	set, rep := Polygonize(p, bigBox)

	if rep.Buffered != 2 || rep.Skipped != 0 {
		t.Errorf("report = %+v", rep)
	}
	mp := set[Primary]
	if len(mp) != 1 {
		t.Fatalf("primary components = %d, want 1", len(mp))
	}
	// Two 100 m x 16 m strips overlapping in an 8 x 8 square.
	want := 1600.0 + 1600.0 - 64
	if a := geom.Area(mp); math.Abs(a-want) > 1e-6 {
		t.Errorf("area = %v, want %v", a, want)
	}
}

func TestClassesAreSeparate(t *testing.T) {
	p := &geo.Projected{Streets: []geo.Street{
		{Line: orb.LineString{{0, 0}, {100, 0}}, Highway: "motorway"},
		{Line: orb.LineString{{50, -50}, {50, 50}}, Highway: "residential"},
		{Line: orb.LineString{{0, 200}, {100, 200}}, Highway: "footway"},
	}}
	set, _ := Polygonize(p, bigBox)
	for _, c := range []Class{Motorway, Residential, Minor} {
		if len(set[c]) != 1 {
			t.Errorf("%s components = %d, want 1", c, len(set[c]))
		}
	}
	if _, ok := set[Primary]; ok {
		t.Error("empty class should be absent")
	}
}

func TestNoOverlapWithinClass(t *testing.T) {
	p := &geo.Projected{Streets: []geo.Street{
		{Line: orb.LineString{{0, 0}, {100, 0}}, Highway: "residential"},
		{Line: orb.LineString{{50, -50}, {50, 50}}, Highway: "residential"},
	}}
	set, _ := Polygonize(p, bigBox)
	hw := Residential.HalfWidth()
	want := 2*(100*2*hw) - (2*hw)*(2*hw)
	if a := geom.Area(set[Residential]); math.Abs(a-want) > 1e-6 {
		t.Errorf("area = %v, want %v (overlap counted twice?)", a, want)
	}
}

func TestClipAndSkip(t *testing.T) {
	box := orb.Bound{Min: orb.Point{0, -50}, Max: orb.Point{50, 50}}
	p := &geo.Projected{Streets: []geo.Street{
		{Line: orb.LineString{{-50, 0}, {100, 0}}, Highway: "secondary"},
		{Line: orb.LineString{{500, 500}, {600, 500}}, Highway: "secondary"},
		{Line: orb.LineString{{10, 10}, {10, 10}}, Highway: "secondary"},
	}}
	set, rep := Polygonize(p, box)
	if rep.Buffered != 1 || rep.Clipped != 1 || rep.Skipped != 1 {
		t.Errorf("report = %+v", rep)
	}
	b := set[Secondary].Bound()
	if b.Min[0] < 0 || b.Max[0] > 50 {
		t.Errorf("road not clipped to box: %v", b)
	}
	if a := geom.Area(set[Secondary]); math.Abs(a-50*12) > 1e-6 {
		t.Errorf("clipped area = %v, want 600", a)
	}
}
