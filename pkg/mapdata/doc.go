// Package mapdata defines the downloaded map-data bundle and the stores that
// persist it.
//
// A [Bundle] holds the street graph plus the optional water, park and
// coastline layers for one (lat, lon, radius) request. Bundles are addressed
// by a [Key] built from the coordinates rounded to four decimals, so two
// requests closer than roughly 11 m with the same radius share one entry.
//
// Two stores implement [Store]:
//
//   - [FileStore]: one inspectable JSON file per key, written atomically
//   - [KVStore]: any [cache.Cache] backend (memory, Redis, MongoDB)
//
// Stores never return errors from Load: a missing or unreadable entry is a
// miss and the caller refetches.
//
// [cache.Cache]: github.com/matzehuels/mapposter/pkg/cache.Cache
package mapdata
