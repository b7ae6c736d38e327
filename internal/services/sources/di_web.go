package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
	apphttp "MorningScan/pkg/http"
)

const diBaseURL = "https://www.di.se"

// DIWebSource scrapes the Dagens industri front page. DI carries no public
// feed for its breaking section, so the teaser markup is parsed directly.
type DIWebSource struct {
	name    string
	pageURL string
	client  *apphttp.Client
}

func NewDIWebSource(timeout time.Duration) drepo.ArticleSource {
	return &DIWebSource{
		name:    "di.se",
		pageURL: diBaseURL,
		client:  apphttp.NewClient(apphttp.WithTimeout(timeout)),
	}
}

func (s *DIWebSource) Name() string { return s.name }

// Fetch downloads the front page and extracts article teasers.
func (s *DIWebSource) Fetch(ctx context.Context, maxItems int) ([]*models.Article, error) {
	var body []byte
	err := s.client.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    s.pageURL,
		Headers: map[string]string{
			"User-Agent": "MorningScan/1.0",
			"Accept":     "text/html",
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.name, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s html: %w", s.name, err)
	}

	now := time.Now()
	seen := make(map[string]bool)
	var articles []*models.Article

	doc.Find("article").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if maxItems > 0 && len(articles) >= maxItems {
			return false
		}

		heading := sel.Find("h2, h3").First()
		title := strings.TrimSpace(heading.Text())
		if title == "" {
			return true
		}

		link, _ := sel.Find("a[href]").First().Attr("href")
		link = absoluteURL(link)
		if link == "" || seen[link] {
			return true
		}
		seen[link] = true

		snippet := strings.TrimSpace(sel.Find("p").First().Text())

		articles = append(articles, &models.Article{
			Title:       title,
			Snippet:     snippet,
			URL:         link,
			Source:      s.name,
			PublishedAt: now,
		})
		return true
	})

	return articles, nil
}

func absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return diBaseURL + href
	default:
		return ""
	}
}

var _ drepo.ArticleSource = (*DIWebSource)(nil)
