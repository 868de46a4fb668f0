package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/osm"

	"github.com/matzehuels/mapposter/pkg/integrations"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="Overpass API">
  <node id="1" lat="48.8566" lon="2.3522"/>
  <node id="2" lat="48.8570" lon="2.3530"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="primary"/>
  </way>
</osm>`

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url, 5*time.Second, nil)
	c.Retry = func(ctx context.Context, fn func() error) error { return fn() }
	return c
}

func TestStreets(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotQuery = r.PostForm.Get("data")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(sampleXML))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	o, err := c.Streets(context.Background(), &osm.Bounds{MinLat: 48.85, MaxLat: 48.86, MinLon: 2.35, MaxLon: 2.36})
	if err != nil {
		t.Fatalf("Streets() error: %v", err)
	}
	if len(o.Nodes) != 2 || len(o.Ways) != 1 {
		t.Fatalf("got %d nodes, %d ways", len(o.Nodes), len(o.Ways))
	}
	if o.Ways[0].Tags.Find("highway") != "primary" {
		t.Errorf("highway tag = %q", o.Ways[0].Tags.Find("highway"))
	}
	if !strings.Contains(gotQuery, `way["highway"](48.850000,2.350000,48.860000,2.360000)`) {
		t.Errorf("unexpected query:\n%s", gotQuery)
	}
	if !strings.HasPrefix(gotUA, "mapposter/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestFeaturesQuery(t *testing.T) {
	q := FeaturesQuery(WaterTags, 48.8566, 2.3522, 8000, 60)
	for _, want := range []string{
		"[out:xml][timeout:60];",
		`way["natural"="water"](around:8000,48.856600,2.352200);`,
		`relation["waterway"="riverbank"](around:8000,48.856600,2.352200);`,
		"(._;>>;);",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"runtime remark", http.StatusOK, `<osm><remark>runtime error: Query timed out</remark></osm>`, integrations.ErrNetwork},
		{"bad gateway", http.StatusBadGateway, "", integrations.ErrNetwork},
		{"garbage", http.StatusOK, "<osm><node id=", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := testClient(t, server.URL).Query(context.Background(), "[out:xml];")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestQueryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, 50*time.Millisecond, nil)
	c.Retry = func(ctx context.Context, fn func() error) error { return fn() }

	start := time.Now()
	if _, err := c.Query(context.Background(), "[out:xml];"); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Error("query was not bounded by the client timeout")
	}
}
