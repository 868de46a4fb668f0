// Package integrations provides HTTP clients for the OpenStreetMap services
// the poster pipeline talks to.
//
// # Overview
//
// Each service has its own subpackage:
//
//   - [overpass]: Overpass API queries for streets, water, parks and coastline
//   - [nominatim]: Nominatim forward and reverse geocoding
//
// # Client Pattern
//
// Service clients embed the shared [Client]:
//
//	client := nominatim.NewClient(backend, cache.TTLGeocode, "", nil)
//	places, err := client.Search(ctx, "Paris, France", 1, false)  // false = use cache
//
// The shared client handles:
//   - A User-Agent identifying mapposter (required by both services)
//   - Retry with backoff on 5xx, 429 and transport failures
//   - Optional request pacing via [Client.SetMinInterval]
//   - Response caching via [cache.Cache]
//
// [overpass]: github.com/matzehuels/mapposter/pkg/integrations/overpass
// [nominatim]: github.com/matzehuels/mapposter/pkg/integrations/nominatim
// [cache.Cache]: github.com/matzehuels/mapposter/pkg/cache.Cache
package integrations
