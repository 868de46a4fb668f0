package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/mapposter/pkg/cache"
	"github.com/matzehuels/mapposter/pkg/integrations"
)

// DefaultURL is the public Nominatim endpoint.
const DefaultURL = "https://nominatim.openstreetmap.org"

// MinInterval is the pause enforced between requests.
const MinInterval = time.Second

// Place is a geocoding result.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
}

// KeyPrefix namespaces Nominatim answers in the cache backend.
const KeyPrefix = "nominatim:"

// Client talks to a Nominatim server.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Nominatim client caching results in backend for ttl.
// An empty baseURL selects [DefaultURL].
func NewClient(backend cache.Cache, ttl time.Duration, baseURL string, headers map[string]string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if headers == nil {
		headers = integrations.DefaultHeaders()
	}
	c := &Client{
		Client:  integrations.NewClient(backend, KeyPrefix, ttl, headers),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	c.SetMinInterval(MinInterval)
	return c
}

// Search geocodes a free-form query and returns up to limit places.
// If refresh is true, the cache is bypassed.
func (c *Client) Search(ctx context.Context, query string, limit int, refresh bool) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", integrations.ErrNotFound)
	}
	if limit <= 0 {
		limit = 1
	}
	key := fmt.Sprintf("search:%s:%d", strings.ToLower(query), limit)

	var places []Place
	err := c.Cached(ctx, key, refresh, &places, func() error {
		v := url.Values{
			"q":              {query},
			"format":         {"json"},
			"addressdetails": {"1"},
			"limit":          {strconv.Itoa(limit)},
		}
		var raw []apiPlace
		if err := c.Get(ctx, c.baseURL+"/search?"+v.Encode(), &raw); err != nil {
			return err
		}
		places = places[:0]
		for _, r := range raw {
			p, err := r.toPlace(false)
			if err != nil {
				continue
			}
			places = append(places, p)
		}
		if len(places) == 0 {
			return fmt.Errorf("%w: no results for %q", integrations.ErrNotFound, query)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", integrations.ErrNotFound, query)
	}
	return places, nil
}

// Geocode resolves "city, country" to its best match.
func (c *Client) Geocode(ctx context.Context, city, country string, refresh bool) (*Place, error) {
	q := strings.TrimSpace(city)
	if country = strings.TrimSpace(country); country != "" {
		q += ", " + country
	}
	places, err := c.Search(ctx, q, 1, refresh)
	if err != nil {
		return nil, err
	}
	return &places[0], nil
}

// Reverse finds the place at (lat, lon). The city falls back to the county
// when the address has no settlement.
func (c *Client) Reverse(ctx context.Context, lat, lon float64, refresh bool) (*Place, error) {
	key := fmt.Sprintf("reverse:%.4f:%.4f", lat, lon)

	var place Place
	err := c.Cached(ctx, key, refresh, &place, func() error {
		v := url.Values{
			"lat":            {strconv.FormatFloat(lat, 'f', 6, 64)},
			"lon":            {strconv.FormatFloat(lon, 'f', 6, 64)},
			"format":         {"json"},
			"addressdetails": {"1"},
		}
		var raw apiPlace
		if err := c.Get(ctx, c.baseURL+"/reverse?"+v.Encode(), &raw); err != nil {
			return err
		}
		if raw.Error != "" {
			return fmt.Errorf("%w: %s", integrations.ErrNotFound, raw.Error)
		}
		p, err := raw.toPlace(true)
		if err != nil {
			return err
		}
		place = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &place, nil
}

type apiAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
}

type apiPlace struct {
	Lat         string     `json:"lat"`
	Lon         string     `json:"lon"`
	DisplayName string     `json:"display_name"`
	Address     apiAddress `json:"address"`
	Error       string     `json:"error"`
}

var errBadCoordinate = errors.New("nominatim: bad coordinate")

func (r apiPlace) toPlace(countyFallback bool) (Place, error) {
	lat, err1 := strconv.ParseFloat(r.Lat, 64)
	lon, err2 := strconv.ParseFloat(r.Lon, 64)
	if err1 != nil || err2 != nil {
		return Place{}, errBadCoordinate
	}
	return Place{
		Lat:         lat,
		Lon:         lon,
		DisplayName: r.DisplayName,
		City:        r.Address.settlement(countyFallback),
		Country:     r.Address.Country,
		CountryCode: strings.ToUpper(r.Address.CountryCode),
	}, nil
}

func (a apiAddress) settlement(countyFallback bool) string {
	for _, s := range []string{a.City, a.Town, a.Village, a.Municipality} {
		if s != "" {
			return s
		}
	}
	if countyFallback {
		return a.County
	}
	return ""
}
