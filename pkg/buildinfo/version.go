// Package buildinfo reports which mapposter build is running. The CLI shows
// it under --version and the OSM clients send it in their User-Agent.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/mapposter/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/mapposter/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/mapposter/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds from `go install` fall back to the module and VCS data the Go
// toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Homepage is sent in the User-Agent so OSM service operators can reach us.
const Homepage = "https://github.com/matzehuels/mapposter"

var fillOnce sync.Once

// fill replaces unset values with the embedded build info.
func fill() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fromBuildInfo(info)
	})
}

func fromBuildInfo(info *debug.BuildInfo) {
	if v := info.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns the build information, one field per line.
func String() string {
	fill()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the --version template for cobra.
func Template() string {
	fill()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies mapposter to Nominatim and Overpass, whose usage
// policies require it.
func UserAgent() string {
	fill()
	return fmt.Sprintf("mapposter/%s (+%s)", Version, Homepage)
}
