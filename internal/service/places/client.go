// Package places queries an Overpass-compatible API for points of interest
// around a coordinate.
package places

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/service/ratelimit"
	pkghttp "github.com/mikey22333/startup-sub001/pkg/http"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

const (
	limiterKey = "places"
	maxResults = 50
)

type Client struct {
	http    *pkghttp.Client
	baseURL string
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

func New(httpClient *pkghttp.Client, baseURL string, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	return &Client{http: httpClient, baseURL: baseURL, limiter: limiter, log: log}
}

// Available reports whether a POI endpoint is configured.
func (c *Client) Available() bool { return c.baseURL != "" }

type overpassElement struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// Nearby returns POIs whose amenity/shop tag matches one of categories within
// radiusMeters of (lat, lon). Unnamed elements are skipped.
func (c *Client) Nearby(ctx context.Context, lat, lon float64, radiusMeters int, categories []string) ([]models.PointOfInterest, error) {
	if !c.Available() {
		return nil, fmt.Errorf("places: no endpoint configured")
	}
	if len(categories) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx, limiterKey, 1, 1); err != nil {
		return nil, err
	}

	pattern := strings.Join(categories, "|")
	query := fmt.Sprintf(`[out:json][timeout:20];
(
  node["amenity"~"^(%[1]s)$"](around:%[2]d,%[3]f,%[4]f);
  node["shop"~"^(%[1]s)$"](around:%[2]d,%[3]f,%[4]f);
);
out body %[5]d;`, pattern, radiusMeters, lat, lon, maxResults)

	var resp overpassResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodPost,
		URL:     c.baseURL + "/api/interpreter",
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:    url.Values{"data": {query}}.Encode(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("places query: %w", err)
	}

	pois := make([]models.PointOfInterest, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		pois = append(pois, models.PointOfInterest{
			Name:    name,
			Address: formatAddress(el.Tags),
			Lat:     el.Lat,
			Lon:     el.Lon,
		})
	}
	return pois, nil
}

func formatAddress(tags map[string]string) string {
	var parts []string
	if v := tags["addr:housenumber"]; v != "" {
		parts = append(parts, v)
	}
	if v := tags["addr:street"]; v != "" {
		parts = append(parts, v)
	}
	if v := tags["addr:city"]; v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}
