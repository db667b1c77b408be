// Package reddit pulls social mentions from Reddit's public search endpoint.
// No credentials are needed, but Reddit rejects requests without a distinct
// User-Agent, so the HTTP client must carry one.
package reddit

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	pkghttp "github.com/mikey22333/startup-sub001/pkg/http"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

const platform = "reddit"

type Source struct {
	http     *pkghttp.Client
	baseURL  string
	maxItems int
	log      *logger.Logger
}

func New(httpClient *pkghttp.Client, baseURL string, maxItems int, log *logger.Logger) *Source {
	return &Source{http: httpClient, baseURL: baseURL, maxItems: maxItems, log: log}
}

func (s *Source) Name() string { return platform }

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				SelfText    string  `json:"selftext"`
				CreatedUTC  float64 `json:"created_utc"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Mentions searches recent posts for query. Timeframes map onto Reddit's
// coarse time filter; anything unrecognized falls back to "month".
func (s *Source) Mentions(ctx context.Context, query, timeframe string) ([]models.RawMention, error) {
	if s.baseURL == "" {
		return nil, nil
	}

	var resp listing
	err := s.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    s.baseURL + "/search.json",
		QueryParams: map[string][]string{
			"q":     {query},
			"sort":  {"new"},
			"limit": {fmt.Sprintf("%d", s.maxItems)},
			"t":     {timeFilter(timeframe)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}

	mentions := make([]models.RawMention, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		d := child.Data
		text := d.Title
		if d.SelfText != "" {
			text += ". " + d.SelfText
		}
		mentions = append(mentions, models.RawMention{
			Platform:   platform,
			Text:       text,
			Timestamp:  time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Engagement: d.Score + d.NumComments,
		})
	}
	return mentions, nil
}

func timeFilter(timeframe string) string {
	switch timeframe {
	case "day", "24h":
		return "day"
	case "week", "7d":
		return "week"
	case "year", "12m":
		return "year"
	default:
		return "month"
	}
}
