// Package geo moves map data from WGS84 into a local metric frame and
// computes poster crops.
//
// The frame is Web Mercator scaled by cos(lat0) and shifted so the request
// point sits at the origin. Near the centre one unit is one metre and
// angles are preserved, which is all cropping and road buffering need.
package geo
