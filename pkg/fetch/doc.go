// Package fetch downloads the map data for a poster and writes it through
// to a [mapdata.Store].
//
// A fetch runs four Overpass queries in sequence: the street network, then
// water, parks and coastline. Queries are separated by a fixed pause to
// stay within the public server's usage policy. Only the street network is
// required; the other layers degrade to absent with a reason recorded in
// the [Report].
//
// [mapdata.Store]: github.com/matzehuels/mapposter/pkg/mapdata.Store
package fetch
