package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestTemplateIncludesVersion(t *testing.T) {
	old := Version
	Version = "v0.3.1"
	defer func() { Version = old }()

	tmpl := Template()
	if !strings.Contains(tmpl, "v0.3.1") {
		t.Errorf("Template() = %q, want version included", tmpl)
	}
	if !strings.Contains(tmpl, "{{.Name}}") {
		t.Errorf("Template() should keep the cobra name placeholder: %q", tmpl)
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q, want commit line", String())
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "mapposter/") {
		t.Errorf("UserAgent() = %q, want mapposter/ prefix", ua)
	}
	if !strings.Contains(ua, Homepage) {
		t.Errorf("UserAgent() = %q, want homepage", ua)
	}
}

func TestFromBuildInfo(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	defer func() { Version, Commit, Date = oldV, oldC, oldD }()

	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "9c1e2f0"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
		},
	}

	Version, Commit, Date = "dev", "none", "unknown"
	fromBuildInfo(info)
	if Version != "v1.4.0" || Commit != "9c1e2f0" || Date != "2026-03-01T10:00:00Z" {
		t.Errorf("got %s %s %s, want embedded values", Version, Commit, Date)
	}

	Version, Commit, Date = "v2.0.0", "abc", "today"
	fromBuildInfo(info)
	if Version != "v2.0.0" || Commit != "abc" || Date != "today" {
		t.Errorf("ldflags values were overwritten: %s %s %s", Version, Commit, Date)
	}

	Version = "dev"
	fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("Version = %s, want dev for a devel build", Version)
	}
}
