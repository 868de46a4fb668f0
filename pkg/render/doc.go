// Package render draws map posters.
//
// # Overview
//
// A [Scene] holds everything that ends up on a poster: the projected
// street network and land cover, an optional ocean polygon, the crop box, a
// theme and the labels. [Render] turns a scene into PNG, SVG or PDF bytes
// plus a PNG thumbnail.
//
// # Surfaces
//
// Layers are drawn through the [Surface] interface in poster points
// (1/72 inch, y down). Two implementations exist:
//
//   - [Raster] rasterises with github.com/fogleman/gg at a given DPI
//   - [SVG] writes an SVG document with one group per layer
//
// PDF output is the SVG converted with the external rsvg-convert tool
// (from librsvg), see [ToPDF].
//
// # Laser Cutting
//
// The [laser] subpackage emits a different kind of SVG: filled road
// polygons grouped into Inkscape layers for a laser cutter.
//
// [laser]: github.com/matzehuels/mapposter/pkg/render/laser
package render
