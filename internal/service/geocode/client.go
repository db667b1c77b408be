// Package geocode implements a Nominatim-compatible forward geocoder.
// Nominatim's usage policy caps clients at one request per second, enforced
// here through the shared limiter.
package geocode

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mikey22333/startup-sub001/internal/service/ratelimit"
	pkghttp "github.com/mikey22333/startup-sub001/pkg/http"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

const limiterKey = "geocode"

type Client struct {
	http    *pkghttp.Client
	baseURL string
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

func New(httpClient *pkghttp.Client, baseURL string, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	return &Client{http: httpClient, baseURL: baseURL, limiter: limiter, log: log}
}

// Available reports whether a geocoding endpoint is configured.
func (c *Client) Available() bool { return c.baseURL != "" }

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Forward resolves a free-form location to coordinates. Takes the first
// match; Nominatim orders by importance.
func (c *Client) Forward(ctx context.Context, location string) (lat, lon float64, err error) {
	if !c.Available() {
		return 0, 0, fmt.Errorf("geocode: no endpoint configured")
	}
	if err := c.limiter.Wait(ctx, limiterKey, 1, 1); err != nil {
		return 0, 0, err
	}

	var results []searchResult
	err = c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/search",
		QueryParams: map[string][]string{
			"q":      {location},
			"format": {"json"},
			"limit":  {"1"},
		},
	}, &results)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("geocode %q: no match", location)
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, fmt.Errorf("geocode %q: malformed coordinates", location)
	}
	return lat, lon, nil
}
