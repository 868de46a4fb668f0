// Package geom implements the planar operations the poster pipeline needs
// on top of orb: buffering lines with flat caps and mitre joins, unioning
// polygons and polygonizing linework.
//
// Buffering and union go through github.com/Seanld/canvas. A street is
// stroked into an outline, every outline is settled under the non-zero
// fill rule, and the settled subpaths are read back into orb polygons.
//
// Polygonize has its own engine, since canvas only combines filled areas
// and cannot recover the faces of open linework. Input segments are noded
// against each other, snapped onto a shared vertex set and turned into a
// half-edge structure whose cycles are the faces of the arrangement.
//
// Coordinates are expected in a metric frame. Snapping is relative to the
// extent of the input, so the engine is scale independent.
package geom
