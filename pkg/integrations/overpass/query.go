package overpass

import (
	"fmt"
	"strings"

	"github.com/paulmach/osm"
)

// Tag is a key/value filter. An empty Value matches any value of Key.
type Tag struct {
	Key   string
	Value string
}

func (t Tag) filter() string {
	if t.Value == "" {
		return fmt.Sprintf("[%q]", t.Key)
	}
	return fmt.Sprintf("[%q=%q]", t.Key, t.Value)
}

// Tag sets for the poster layers.
var (
	WaterTags     = []Tag{{"natural", "water"}, {"waterway", "riverbank"}}
	ParkTags      = []Tag{{"leisure", "park"}, {"landuse", "grass"}}
	CoastlineTags = []Tag{{"natural", "coastline"}}
)

// StreetsQuery builds the query for all highway ways in b, with their nodes.
func StreetsQuery(b *osm.Bounds, timeoutSec int) string {
	return fmt.Sprintf("[out:xml][timeout:%d];\nway[\"highway\"](%s);\n(._;>;);\nout body;",
		timeoutSec, bbox(b))
}

// FeaturesQuery builds the query for ways and relations matching any of tags
// within radius meters of (lat, lon). Relation members are recursed so that
// multipolygons can be assembled.
func FeaturesQuery(tags []Tag, lat, lon float64, radius, timeoutSec int) string {
	around := fmt.Sprintf("(around:%d,%.6f,%.6f)", radius, lat, lon)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:xml][timeout:%d];\n(\n", timeoutSec)
	for _, t := range tags {
		fmt.Fprintf(&sb, "  way%s%s;\n", t.filter(), around)
		fmt.Fprintf(&sb, "  relation%s%s;\n", t.filter(), around)
	}
	sb.WriteString(");\n(._;>>;);\nout body;")
	return sb.String()
}

func bbox(b *osm.Bounds) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}
