package mapdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/mapposter/pkg/cache"
)

const (
	filePrefix = "map_"
	fileExt    = ".json"
)

// Key identifies one bundle. Coordinates are rounded to four decimals.
type Key struct {
	Lat    float64
	Lon    float64
	Radius int
}

// NewKey rounds lat and lon and returns the key for a request.
func NewKey(lat, lon float64, radius int) Key {
	return Key{Lat: round4(lat), Lon: round4(lon), Radius: radius}
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func (k Key) coords() string {
	return fmt.Sprintf("%.4f_%.4f_%d", k.Lat, k.Lon, k.Radius)
}

// Hash is the first 8 hex characters of the SHA-256 of the rounded values.
func (k Key) Hash() string {
	return cache.ShortDigest(k.coords(), 8)
}

// String returns the storage name without extension,
// e.g. "map_48.8566_2.3522_8000_1a2b3c4d".
func (k Key) String() string {
	return filePrefix + k.coords() + "_" + k.Hash()
}

// Filename returns the file name used by [FileStore].
func (k Key) Filename() string { return k.String() + fileExt }

// ParseKey recovers a key from a storage name, with or without extension.
// The embedded hash must match the coordinates.
func ParseKey(name string) (Key, bool) {
	name = strings.TrimSuffix(name, fileExt)
	if !strings.HasPrefix(name, filePrefix) {
		return Key{}, false
	}
	parts := strings.Split(strings.TrimPrefix(name, filePrefix), "_")
	if len(parts) != 4 {
		return Key{}, false
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lon, err2 := strconv.ParseFloat(parts[1], 64)
	radius, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Key{}, false
	}
	k := NewKey(lat, lon, radius)
	if k.Hash() != parts[3] {
		return Key{}, false
	}
	return k, true
}
