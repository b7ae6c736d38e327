package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mmcdole/gofeed"

	apphttp "MorningScan/pkg/http"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Testfeed</title>
    <item>
      <title>Ericsson rapporterar 25% tillväxt</title>
      <link>https://example.com/a</link>
      <description>Stark rapport från Ericsson.</description>
      <pubDate>Fri, 28 Aug 2026 06:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Volvo vinner order</title>
      <link>https://example.com/b</link>
      <description>Order på 3 miljarder.</description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/empty</link>
    </item>
  </channel>
</rss>`

func TestRSSSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	s := &RSSSource{name: "test", feedURL: srv.URL, parser: gofeed.NewParser()}

	articles, err := s.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2 (untitled item skipped)", len(articles))
	}
	first := articles[0]
	if first.Title != "Ericsson rapporterar 25% tillväxt" {
		t.Fatalf("title = %q", first.Title)
	}
	if first.Source != "test" || first.URL != "https://example.com/a" {
		t.Fatalf("source/url = %q/%q", first.Source, first.URL)
	}
	want := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("published = %v, want %v", first.PublishedAt, want)
	}
	// Item without pubDate falls back to fetch time.
	if articles[1].PublishedAt.IsZero() {
		t.Fatalf("missing pubDate should fall back to now")
	}
}

func TestRSSSourceFetchMaxItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	s := &RSSSource{name: "test", feedURL: srv.URL, parser: gofeed.NewParser()}
	articles, err := s.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("articles = %d, want 1", len(articles))
	}
}

func TestRSSSourceFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := &RSSSource{name: "test", feedURL: srv.URL, parser: gofeed.NewParser()}
	if _, err := s.Fetch(context.Background(), 0); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

const diFixture = `<!DOCTYPE html>
<html><body>
  <article>
    <h2>Sandvik höjer prognos</h2>
    <p>Verkstadsbolaget uppjusterar helårsmålen.</p>
    <a href="/nyheter/sandvik">Läs mer</a>
  </article>
  <article>
    <h3>Telia tappar kunder</h3>
    <a href="https://www.di.se/nyheter/telia">Läs mer</a>
  </article>
  <article>
    <h2>Dubblett</h2>
    <a href="/nyheter/sandvik">Samma länk igen</a>
  </article>
  <article>
    <div>Ingen rubrik här</div>
  </article>
</body></html>`

func TestDIWebSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(diFixture))
	}))
	defer srv.Close()

	s := &DIWebSource{name: "di.se", pageURL: srv.URL, client: apphttp.NewClient()}

	articles, err := s.Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2 (dup link and headingless skipped)", len(articles))
	}
	if articles[0].Title != "Sandvik höjer prognos" {
		t.Fatalf("title = %q", articles[0].Title)
	}
	if articles[0].URL != "https://www.di.se/nyheter/sandvik" {
		t.Fatalf("url = %q, want absolute di.se link", articles[0].URL)
	}
	if articles[0].Snippet != "Verkstadsbolaget uppjusterar helårsmålen." {
		t.Fatalf("snippet = %q", articles[0].Snippet)
	}
	if articles[1].URL != "https://www.di.se/nyheter/telia" {
		t.Fatalf("url = %q, want already-absolute link kept", articles[1].URL)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/nyheter/abc", "https://www.di.se/nyheter/abc"},
		{"https://example.com/x", "https://example.com/x"},
		{"javascript:void(0)", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.in); got != tt.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMFNStreamReadSurvivesDisconnect(t *testing.T) {
	var conns int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// One release per connection, then a hard close to force the
		// client through its redial path.
		n := atomic.AddInt32(&conns, 1)
		frame := fmt.Sprintf(`{"type":"item","data":{"content":{"title":"release %d"}}}`, n)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
		_ = conn.Close()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := NewMFNStream("ws"+strings.TrimPrefix(srv.URL, "http"), "", 10*time.Millisecond, time.Minute).(*MFNStream)
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	articles, _ := s.Read(ctx)
	titles := map[string]bool{}
	for len(titles) < 2 {
		select {
		case a, ok := <-articles:
			if !ok {
				t.Fatalf("article channel closed after %d articles", len(titles))
			}
			titles[a.Title] = true
		case <-ctx.Done():
			t.Fatalf("timed out with %v", titles)
		}
	}
	if !titles["release 1"] || !titles["release 2"] {
		t.Fatalf("titles = %v, want releases from both connections", titles)
	}
}

func TestDecodeMFNFrame(t *testing.T) {
	frame := []byte(`{
		"type": "item",
		"data": {
			"url": "https://mfn.se/a/bolaget/release",
			"author": {"name": "Bolaget AB"},
			"content": {
				"title": "Bolaget säkrar finansiering",
				"preamble": "Emissionen övertecknad.",
				"publish_date": "2026-08-28T07:30:00Z"
			}
		}
	}`)

	article, ok := decodeMFNFrame(frame)
	if !ok {
		t.Fatalf("frame not decoded")
	}
	if article.Title != "Bolaget säkrar finansiering" || article.Company != "Bolaget AB" {
		t.Fatalf("article = %+v", article)
	}
	if article.Source != "mfn.se" {
		t.Fatalf("source = %q, want mfn.se", article.Source)
	}
	want := time.Date(2026, 8, 28, 7, 30, 0, 0, time.UTC)
	if !article.PublishedAt.Equal(want) {
		t.Fatalf("published = %v, want %v", article.PublishedAt, want)
	}

	if _, ok := decodeMFNFrame([]byte(`{"type":"heartbeat"}`)); ok {
		t.Fatalf("heartbeat frame should be skipped")
	}
	if _, ok := decodeMFNFrame([]byte(`{"type":"item","data":{"content":{"title":"  "}}}`)); ok {
		t.Fatalf("untitled frame should be skipped")
	}
	if _, ok := decodeMFNFrame([]byte(`not json`)); ok {
		t.Fatalf("malformed frame should be skipped")
	}
}
