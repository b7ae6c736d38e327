package models

import "time"

// Article is a raw news item as collected from a source. The scoring core
// only reads Title, Content and Snippet; the rest is passthrough metadata.
type Article struct {
	Title       string
	Content     string // may be empty; many feeds only carry a snippet
	Snippet     string
	URL         string
	Source      string
	PublishedAt time.Time

	// Filled in by the company mapper when a listed company is recognized.
	Company string
	Ticker  string
}

// ScoredArticle pairs an article with its classification and batch rank.
type ScoredArticle struct {
	Article        *Article
	Classification *Classification
	Rank           int // 1-based, assigned after ranking; 0 = unranked
}

// Pick is the persisted record of a high-relevance article.
type Pick struct {
	Timestamp      time.Time
	Title          string
	URL            string
	Source         string
	Ticker         string
	RelevanceScore float64
	SentimentScore float64
	FinalScore     float64
	ImpactLevel    ImpactLevel
	Recommendation Recommendation
	HasCatalyst    bool
	Categories     []string
}
