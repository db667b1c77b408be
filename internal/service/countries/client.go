// Package countries resolves a free-form location string to country metadata
// via a REST Countries compatible API.
package countries

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	pkghttp "github.com/mikey22333/startup-sub001/pkg/http"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

type Client struct {
	http    *pkghttp.Client
	baseURL string
	log     *logger.Logger
}

func New(httpClient *pkghttp.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{http: httpClient, baseURL: baseURL, log: log}
}

type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2       string `json:"cca2"`
	CCA3       string `json:"cca3"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
}

// Resolve looks up country metadata for a location. Locations arrive as
// "City, Country" or bare country names; the segment after the last comma is
// the lookup key. Returns nil when unconfigured or nothing matches.
func (c *Client) Resolve(ctx context.Context, location string) (*models.CountryMeta, string) {
	if c.baseURL == "" {
		return nil, ""
	}

	name := countryPart(location)
	if name == "" {
		return nil, ""
	}

	var results []restCountry
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/v3.1/name/%s", c.baseURL, url.PathEscape(name)),
		QueryParams: map[string][]string{
			"fields": {"name,cca2,cca3,region,population"},
		},
	}, &results)
	if err != nil {
		c.log.Warn("country lookup failed", logger.String("name", name), logger.Error(err))
		return nil, ""
	}
	if len(results) == 0 {
		return nil, ""
	}

	r := results[0]
	return &models.CountryMeta{
		Code:       r.CCA2,
		Name:       r.Name.Common,
		Region:     r.Region,
		Population: r.Population,
	}, r.CCA3
}

func countryPart(location string) string {
	parts := strings.Split(location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
