package overpass

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/osm"

	"github.com/matzehuels/mapposter/pkg/integrations"
)

// DefaultURL is the public Overpass interpreter endpoint.
const DefaultURL = "https://overpass-api.de/api/interpreter"

// DefaultTimeout bounds a single Overpass call, server and client side.
const DefaultTimeout = 60 * time.Second

// Client runs Overpass QL queries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	timeout time.Duration
}

// NewClient creates an Overpass client. An empty baseURL selects
// [DefaultURL]; a zero timeout selects [DefaultTimeout].
func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if headers == nil {
		headers = integrations.DefaultHeaders()
	}
	c := &Client{
		Client:  integrations.NewClient(nil, "overpass:", 0, headers),
		baseURL: baseURL,
		timeout: timeout,
	}
	c.SetTimeout(timeout + 5*time.Second)
	return c
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Streets returns every highway way inside b together with its nodes.
func (c *Client) Streets(ctx context.Context, b *osm.Bounds) (*osm.OSM, error) {
	return c.Query(ctx, StreetsQuery(b, c.timeoutSec()))
}

// Features returns ways and relations matching any of tags within radius
// meters of (lat, lon).
func (c *Client) Features(ctx context.Context, tags []Tag, lat, lon float64, radius int) (*osm.OSM, error) {
	return c.Query(ctx, FeaturesQuery(tags, lat, lon, radius, c.timeoutSec()))
}

// Query posts q to the interpreter and decodes the XML answer. The call is
// bounded by the client timeout and retried on transient failures.
func (c *Client) Query(ctx context.Context, q string) (*osm.OSM, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body []byte
	err := c.Retry(ctx, func() error {
		var err error
		body, err = c.PostForm(ctx, c.baseURL, url.Values{"data": {q}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return decode(body)
}

// remark carries Overpass runtime errors, which arrive with status 200.
type remark struct {
	Remark string `xml:"remark"`
}

func decode(body []byte) (*osm.OSM, error) {
	var r remark
	if xml.Unmarshal(body, &r) == nil && strings.Contains(r.Remark, "error") {
		return nil, fmt.Errorf("%w: overpass: %s", integrations.ErrNetwork, strings.TrimSpace(r.Remark))
	}

	o := &osm.OSM{}
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(o); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return o, nil
}

func (c *Client) timeoutSec() int {
	if s := int(c.timeout / time.Second); s > 0 {
		return s
	}
	return 1
}
