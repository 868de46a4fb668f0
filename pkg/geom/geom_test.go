package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func square(x0, y0, x1, y1 float64) orb.Polygon {
	return orb.Polygon{{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}}
}

func approx(a, b float64) bool { return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b)) }

func TestUnion(t *testing.T) {
	tests := []struct {
		name      string
		in        []orb.Polygon
		wantParts int
		wantHoles int
		wantArea  float64
	}{
		{"overlapping squares", []orb.Polygon{square(0, 0, 2, 2), square(1, 1, 3, 3)}, 1, 0, 7},
		{"shared edge", []orb.Polygon{square(0, 0, 1, 1), square(1, 0, 2, 1)}, 1, 0, 2},
		{"disjoint", []orb.Polygon{square(0, 0, 1, 1), square(5, 5, 6, 6)}, 2, 0, 2},
		{"contained", []orb.Polygon{square(0, 0, 10, 10), square(2, 2, 3, 3)}, 1, 0, 100},
		{"identical", []orb.Polygon{square(0, 0, 1, 1), square(0, 0, 1, 1)}, 1, 0, 1},
		{"frame encloses hole", []orb.Polygon{
			square(0, 0, 4, 1), square(0, 3, 4, 4), square(0, 0, 1, 4), square(3, 0, 4, 4),
		}, 1, 1, 12},
		{"input hole kept", []orb.Polygon{
			{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, {{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}}},
		}, 1, 1, 96},
		{"empty", nil, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Union(tt.in)
			if len(got) != tt.wantParts {
				t.Fatalf("Union() parts = %d, want %d", len(got), tt.wantParts)
			}
			holes := 0
			for _, p := range got {
				holes += len(p) - 1
				if signedArea(p[0]) <= 0 {
					t.Error("exterior ring should be counter-clockwise")
				}
				if p[0][0] != p[0][len(p[0])-1] {
					t.Error("ring should be closed")
				}
			}
			if holes != tt.wantHoles {
				t.Errorf("holes = %d, want %d", holes, tt.wantHoles)
			}
			if a := Area(got); !approx(a, tt.wantArea) {
				t.Errorf("area = %v, want %v", a, tt.wantArea)
			}
		})
	}
}

// The union must not count overlapping input area twice.
func TestUnionAreaIsInclusionExclusion(t *testing.T) {
	a, b := square(0, 0, 3, 2), square(2, 1, 5, 4)
	inter := 1.0 * 1.0
	want := Area(orb.MultiPolygon{a}) + Area(orb.MultiPolygon{b}) - inter
	if got := Area(Union([]orb.Polygon{a, b})); !approx(got, want) {
		t.Errorf("area = %v, want %v", got, want)
	}
}

func TestPolygonize(t *testing.T) {
	box := orb.MultiLineString{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}

	t.Run("diagonal split", func(t *testing.T) {
		diag := orb.MultiLineString{{{0, 0}, {10, 10}}}
		faces := Polygonize(diag, box)
		if len(faces) != 2 {
			t.Fatalf("faces = %d, want 2", len(faces))
		}
		for _, f := range faces {
			if a := Area(orb.MultiPolygon{f.Polygon}); !approx(a, 50) {
				t.Errorf("face area = %v, want 50", a)
			}
			if !approx(f.Shared[1], 20) {
				t.Errorf("shared box length = %v, want 20", f.Shared[1])
			}
			if !approx(f.Shared[0], math.Sqrt(200)) {
				t.Errorf("shared diagonal length = %v", f.Shared[0])
			}
		}
	})

	t.Run("dangle ignored", func(t *testing.T) {
		faces := Polygonize(orb.MultiLineString{{{5, 0}, {5, 5}}}, box)
		if len(faces) != 1 {
			t.Fatalf("faces = %d, want 1", len(faces))
		}
		if a := Area(orb.MultiPolygon{faces[0].Polygon}); !approx(a, 100) {
			t.Errorf("area = %v, want 100", a)
		}
	})

	t.Run("island becomes hole", func(t *testing.T) {
		island := orb.MultiLineString{{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}}}
		faces := Polygonize(island, box)
		if len(faces) != 2 {
			t.Fatalf("faces = %d, want 2", len(faces))
		}
		var areas []float64
		for _, f := range faces {
			areas = append(areas, Area(orb.MultiPolygon{f.Polygon}))
		}
		if !(approx(areas[0]+areas[1], 100) && (approx(areas[0], 4) || approx(areas[1], 4))) {
			t.Errorf("face areas = %v, want 96 and 4", areas)
		}
	})

	t.Run("open line only", func(t *testing.T) {
		if faces := Polygonize(orb.MultiLineString{{{0, 0}, {1, 1}}}); len(faces) != 0 {
			t.Errorf("faces = %d, want 0", len(faces))
		}
	})
}

func TestBufferLine(t *testing.T) {
	tests := []struct {
		name     string
		line     orb.LineString
		hw       float64
		wantArea float64
	}{
		{"straight", orb.LineString{{0, 0}, {10, 0}}, 1, 20},
		{"collinear vertex", orb.LineString{{0, 0}, {5, 0}, {10, 0}}, 1, 20},
		{"right angle mitre", orb.LineString{{0, 0}, {10, 0}, {10, 10}}, 1, 40},
		{"duplicate points", orb.LineString{{0, 0}, {0, 0}, {0, 4}}, 0.5, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BufferLine(tt.line, tt.hw)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 {
				t.Fatalf("parts = %d, want 1", len(got))
			}
			if signedArea(got[0][0]) <= 0 {
				t.Error("exterior ring should be counter-clockwise")
			}
			if a := Area(got); !approx(a, tt.wantArea) {
				t.Errorf("area = %v, want %v", a, tt.wantArea)
			}
		})
	}
}

func TestBufferLineSharpTurnIsBevelled(t *testing.T) {
	got, err := BufferLine(orb.LineString{{0, 0}, {10, 0}, {0, 1}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	// A mitre at this angle would reach about 20 units past the vertex.
	if b := got.Bound(); b.Max[0] > 12 {
		t.Errorf("join extends to x=%v, want bevel", b.Max[0])
	}
}

// A street that loops back over itself must not come out with the
// crossing counted twice or cut out as a hole.
func TestBufferLineSelfCrossing(t *testing.T) {
	line := orb.LineString{{0, 0}, {20, 0}, {20, 10}, {10, 10}, {10, -10}}
	got, err := BufferLine(line, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("parts = %d, want 1", len(got))
	}
	// Segment lengths 20+10+10+20 at width 2, minus the 2x2 crossing,
	// plus the mitre corners, minus the overlaps at the joins.
	a := Area(got)
	if a <= 100 || a >= 120 {
		t.Errorf("area = %v, want between 100 and 120", a)
	}
	for _, p := range []orb.Point{{10, 0}, {15, 0}, {10, 5}} {
		if !ringContains(got[0][0], p) {
			t.Errorf("%v should be inside the outline", p)
		}
		for _, h := range got[0][1:] {
			if ringContains(h, p) {
				t.Errorf("%v lies in a hole", p)
			}
		}
	}
}

func TestBufferLineDegenerate(t *testing.T) {
	for _, ls := range []orb.LineString{nil, {{1, 1}}, {{1, 1}, {1, 1}}} {
		if _, err := BufferLine(ls, 1); !errors.Is(err, ErrDegenerate) {
			t.Errorf("BufferLine(%v) error = %v", ls, err)
		}
	}
	if _, err := BufferLine(orb.LineString{{0, 0}, {1, 0}}, 0); !errors.Is(err, ErrDegenerate) {
		t.Error("zero width should be degenerate")
	}
}

// Two streets of one class stroked apart and unioned cover the crossing
// once.
func TestBufferedStreetsUnion(t *testing.T) {
	a, _ := BufferLine(orb.LineString{{0, 0}, {100, 0}}, 3)
	b, _ := BufferLine(orb.LineString{{50, -50}, {50, 50}}, 3)
	got := Union(append(a, b...))
	if len(got) != 1 {
		t.Fatalf("parts = %d, want 1", len(got))
	}
	if want := 600.0 + 600 - 36; !approx(Area(got), want) {
		t.Errorf("area = %v, want %v", Area(got), want)
	}
}

func TestCrossesAny(t *testing.T) {
	lines := orb.MultiLineString{{{0, 5}, {10, 5}}}
	if !CrossesAny(orb.Point{5, 0}, orb.Point{5, 10}, lines) {
		t.Error("vertical segment should cross")
	}
	if CrossesAny(orb.Point{5, 0}, orb.Point{5, 4}, lines) {
		t.Error("short segment should not cross")
	}
}
