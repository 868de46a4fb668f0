// Package nominatim provides forward and reverse geocoding against the
// OpenStreetMap Nominatim service.
//
// Nominatim's usage policy allows at most one request per second and
// requires an identifying User-Agent; [NewClient] configures both. Results
// are cached through the shared [integrations.Client].
//
// [integrations.Client]: github.com/matzehuels/mapposter/pkg/integrations.Client
package nominatim
