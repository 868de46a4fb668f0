// Package overpass queries the Overpass API for OpenStreetMap data.
//
// Queries are written in Overpass QL with XML output and decoded into
// [osm.OSM] values. The package knows two query shapes:
//
//   - [Client.Streets]: every highway way inside a bounding box
//   - [Client.Features]: ways and relations matching a set of tag filters
//     within a radius of a point
//
// Responses are not cached here; the map-data store caches whole bundles.
//
// [osm.OSM]: github.com/paulmach/osm.OSM
package overpass
