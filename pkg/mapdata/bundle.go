package mapdata

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// formatVersion is bumped when the on-disk layout changes. Entries with a
// different version are treated as misses.
const formatVersion = 1

// Node is a street-graph vertex in WGS84.
type Node struct {
	ID  int64   `json:"id"`
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Point returns the node as an orb point (lon, lat).
func (n Node) Point() orb.Point { return orb.Point{n.Lon, n.Lat} }

// Edge connects two nodes along a street. Geometry, when present, runs from
// U to V and includes both endpoints.
type Edge struct {
	U        int64          `json:"u"`
	V        int64          `json:"v"`
	Highway  []string       `json:"highway,omitempty"`
	Name     string         `json:"name,omitempty"`
	Geometry orb.LineString `json:"geometry,omitempty"`
}

// StreetGraph is the simplified street network of a bundle.
// Nodes must not change after the first call to Node.
type StreetGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	once  sync.Once
	index map[int64]int
}

// Node looks up a node by ID.
func (g *StreetGraph) Node(id int64) (Node, bool) {
	g.once.Do(func() {
		g.index = make(map[int64]int, len(g.Nodes))
		for i, n := range g.Nodes {
			g.index[n.ID] = i
		}
	})
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// EdgeGeometry returns the edge's explicit geometry, or the straight segment
// between its endpoints. ok is false when an endpoint is missing.
func (g *StreetGraph) EdgeGeometry(e Edge) (orb.LineString, bool) {
	if len(e.Geometry) >= 2 {
		return e.Geometry, true
	}
	u, ok1 := g.Node(e.U)
	v, ok2 := g.Node(e.V)
	if !ok1 || !ok2 {
		return nil, false
	}
	return orb.LineString{u.Point(), v.Point()}, true
}

// Bound returns the bounding box of all nodes.
func (g *StreetGraph) Bound() orb.Bound {
	if len(g.Nodes) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: g.Nodes[0].Point(), Max: g.Nodes[0].Point()}
	for _, n := range g.Nodes[1:] {
		b = b.Extend(n.Point())
	}
	return b
}

// Empty reports whether the graph has no edges.
func (g *StreetGraph) Empty() bool { return g == nil || len(g.Edges) == 0 }

// Bundle is everything downloaded for one request. A nil feature collection
// means the layer is absent. Bundles are not modified after they are saved.
type Bundle struct {
	Streets   *StreetGraph               `json:"street_graph"`
	Water     *geojson.FeatureCollection `json:"water_features,omitempty"`
	Parks     *geojson.FeatureCollection `json:"park_features,omitempty"`
	Coastline *geojson.FeatureCollection `json:"coastline_features,omitempty"`
	CachedAt  time.Time                  `json:"cached_at"`
}

// Layers returns how many of the optional layers are present.
func (b *Bundle) Layers() int {
	n := 0
	for _, fc := range []*geojson.FeatureCollection{b.Water, b.Parks, b.Coastline} {
		if fc != nil && len(fc.Features) > 0 {
			n++
		}
	}
	return n
}

type envelope struct {
	Version int `json:"version"`
	*Bundle
}

// Encode serializes a bundle to JSON.
func Encode(b *Bundle) ([]byte, error) {
	if b == nil || b.Streets == nil {
		return nil, fmt.Errorf("mapdata: bundle has no street graph")
	}
	return json.Marshal(envelope{Version: formatVersion, Bundle: b})
}

// Decode parses a bundle written by [Encode].
func Decode(data []byte) (*Bundle, error) {
	env := envelope{Bundle: &Bundle{}}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Version != formatVersion {
		return nil, fmt.Errorf("mapdata: unsupported format version %d", env.Version)
	}
	if env.Streets == nil {
		return nil, fmt.Errorf("mapdata: missing street graph")
	}
	return env.Bundle, nil
}
