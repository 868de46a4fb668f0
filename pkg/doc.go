// Package pkg provides the libraries behind mapposter, a generator of
// minimalist city map posters from OpenStreetMap data.
//
// # Overview
//
// Mapposter fetches the street network, water and parks around a point,
// projects them to a flat metric plane, crops them to the poster's aspect
// ratio and draws them with a color theme. The same data can be emitted as
// a layered SVG for laser cutting.
//
// # Architecture
//
// The typical data flow:
//
//	Nominatim (city, country → lat, lon)
//	         ↓
//	    [fetch] package (Overpass queries → map data bundle, cached in [mapdata])
//	         ↓
//	    [geo] package (projection + aspect-ratio crop)
//	         ↓
//	    [ocean] package (sea polygon from coastline ways)
//	         ↓
//	    [render] package (PNG/SVG/PDF) or [render/laser] with [roads]
//	         ↓
//	    poster + thumbnail + config sidecar
//
// [pipeline] runs the whole flow and is what the CLI calls.
//
// # Main Packages
//
// ## Map data
//
// [integrations] - HTTP clients for Overpass and Nominatim with caching,
// pacing and retries.
//
// [fetch] - Builds a map data bundle: street graph, water, parks and
// coastline, with per-layer progress callbacks.
//
// [mapdata] - The bundle type and its stores (files, or any [cache] backend).
//
// ## Geometry
//
// [geo] - Local metric projection, crop boxes, aspect presets.
//
// [geom] - Planar helpers: noding, polygonizing, buffering, union.
//
// [ocean] - Reconstructs the sea from coastline fragments.
//
// [roads] - Turns the street graph into filled road polygons by class.
//
// ## Output
//
// [render] - Poster drawing for PNG, SVG and PDF.
//
// [render/laser] - Layered SVG for laser cutters.
//
// [theme], [fonts] - Color themes and font families.
//
// ## Infrastructure
//
// [cache] - Byte caches: file, memory, Redis, MongoDB, null.
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for fetch and render events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/ocean/...              # Specific package
//	go test -run Example                 # Examples only
//
// [integrations]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/integrations
// [fetch]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/fetch
// [mapdata]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/mapdata
// [geo]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/geo
// [geom]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/geom
// [ocean]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/ocean
// [roads]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/roads
// [render]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/render
// [render/laser]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/render/laser
// [theme]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/theme
// [fonts]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/fonts
// [cache]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mapposter/pkg/pipeline
package pkg
