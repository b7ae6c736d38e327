package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
)

// RSSSource fetches articles from one RSS/Atom feed.
type RSSSource struct {
	name    string
	feedURL string
	parser  *gofeed.Parser
}

// NewRSSSource builds an ArticleSource over the given feed.
func NewRSSSource(name, feedURL string, timeout time.Duration) drepo.ArticleSource {
	parser := gofeed.NewParser()
	parser.UserAgent = "MorningScan/1.0"
	parser.Client = &http.Client{Timeout: timeout}
	return &RSSSource{
		name:    name,
		feedURL: feedURL,
		parser:  parser,
	}
}

func (s *RSSSource) Name() string { return s.name }

// Fetch downloads and parses the feed, returning at most maxItems articles.
func (s *RSSSource) Fetch(ctx context.Context, maxItems int) ([]*models.Article, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.name, err)
	}

	articles := make([]*models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if maxItems > 0 && len(articles) >= maxItems {
			break
		}
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		articles = append(articles, &models.Article{
			Title:       strings.TrimSpace(item.Title),
			Content:     strings.TrimSpace(item.Content),
			Snippet:     strings.TrimSpace(item.Description),
			URL:         item.Link,
			Source:      s.name,
			PublishedAt: published,
		})
	}
	return articles, nil
}

var _ drepo.ArticleSource = (*RSSSource)(nil)
