// Package newsfeed pulls news mentions from a Google-News-style RSS feed.
package newsfeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

const platform = "news"

type Source struct {
	feedURL  string
	maxItems int
	parser   *gofeed.Parser
	log      *logger.Logger
}

func New(feedURL string, maxItems int, log *logger.Logger) *Source {
	return &Source{
		feedURL:  feedURL,
		maxItems: maxItems,
		parser:   gofeed.NewParser(),
		log:      log,
	}
}

func (s *Source) Name() string { return platform }

// Mentions fetches recent headlines matching query. The timeframe parameter
// is ignored; the feed only serves recent items anyway.
func (s *Source) Mentions(ctx context.Context, query, _ string) ([]models.RawMention, error) {
	if s.feedURL == "" {
		return nil, nil
	}

	u := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", s.feedURL, url.QueryEscape(strings.TrimSpace(query)))
	feed, err := s.parser.ParseURLWithContext(u, ctx)
	if err != nil {
		return nil, fmt.Errorf("newsfeed parse: %w", err)
	}

	mentions := make([]models.RawMention, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(mentions) >= s.maxItems {
			break
		}
		text := item.Title
		if desc := stripHTML(item.Description); desc != "" {
			text += ". " + desc
		}
		m := models.RawMention{Platform: platform, Text: text}
		if item.PublishedParsed != nil {
			m.Timestamp = *item.PublishedParsed
		}
		mentions = append(mentions, m)
	}
	return mentions, nil
}

// stripHTML flattens an RSS description to plain text. Feed descriptions
// often carry anchor markup around the headline.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
