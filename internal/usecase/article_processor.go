package usecase

import (
	"context"
	"fmt"
	"time"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
	domsvc "MorningScan/internal/domain/service"
)

// ArticleProcessor scores incoming articles and routes the resulting picks
// to the configured backend. Articles below the relevance floor are scored
// but never persisted.
type ArticleProcessor struct {
	classifier   domsvc.Classifier
	mapper       domsvc.CompanyMapper
	pub          drepo.Publisher
	store        drepo.PickStore
	metrics      drepo.Metrics
	backend      string
	minRelevance float64
}

// NewArticleProcessor creates a new ArticleProcessor instance.
func NewArticleProcessor(
	classifier domsvc.Classifier,
	mapper domsvc.CompanyMapper,
	pub drepo.Publisher,
	store drepo.PickStore,
	metrics drepo.Metrics,
	backend string,
	minRelevance float64,
) *ArticleProcessor {
	return &ArticleProcessor{
		classifier:   classifier,
		mapper:       mapper,
		pub:          pub,
		store:        store,
		metrics:      metrics,
		backend:      backend,
		minRelevance: minRelevance,
	}
}

// Process scores one article and persists the pick when it clears the
// relevance floor. The scored article is returned either way so callers
// can aggregate over the full batch.
func (p *ArticleProcessor) Process(ctx context.Context, a *models.Article) (*models.ScoredArticle, error) {
	if a == nil {
		return nil, fmt.Errorf("article is nil")
	}

	start := time.Now()

	if a.Ticker == "" && p.mapper != nil {
		if company, ticker, ok := p.mapper.Map(a.Title + " " + a.Snippet); ok {
			a.Company = company
			a.Ticker = ticker
		}
	}

	cls := p.classifier.Classify(a.Title, a.Content, a.Snippet)
	scored := &models.ScoredArticle{Article: a, Classification: &cls}

	p.metrics.RecordArticleScanned(a.Source)
	p.metrics.RecordRecommendation(cls.Recommendation)
	p.metrics.RecordLatency("classify", time.Since(start).Seconds())

	if cls.RelevanceScore < p.minRelevance {
		return scored, nil
	}
	if err := p.persist(ctx, []*models.Pick{PickFromScored(scored)}); err != nil {
		p.metrics.RecordError("process")
		return scored, fmt.Errorf("process article: %w", err)
	}
	p.metrics.RecordPickStored(p.backend)
	return scored, nil
}

// PersistPicks routes an already-built pick batch to the backend.
func (p *ArticleProcessor) PersistPicks(ctx context.Context, picks []*models.Pick) error {
	if len(picks) == 0 {
		return nil
	}
	start := time.Now()
	if err := p.persist(ctx, picks); err != nil {
		p.metrics.RecordError("persist_batch")
		return fmt.Errorf("persist picks: %w", err)
	}
	for range picks {
		p.metrics.RecordPickStored(p.backend)
	}
	p.metrics.RecordLatency("persist_batch", time.Since(start).Seconds())
	return nil
}

func (p *ArticleProcessor) persist(ctx context.Context, picks []*models.Pick) error {
	switch p.backend {
	case "kafka":
		return p.pub.PublishBatch(ctx, picks)
	case "clickhouse":
		return p.store.StoreBatch(ctx, picks)
	default:
		return fmt.Errorf("unknown backend: %s", p.backend)
	}
}

// MinRelevance exposes the relevance floor for the scan pipeline.
func (p *ArticleProcessor) MinRelevance() float64 { return p.minRelevance }

// Close closes underlying resources if available.
func (p *ArticleProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}

// PickFromScored flattens a scored article into its persisted pick record.
func PickFromScored(s *models.ScoredArticle) *models.Pick {
	cl := s.Classification
	ts := s.Article.PublishedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &models.Pick{
		Timestamp:      ts,
		Title:          s.Article.Title,
		URL:            s.Article.URL,
		Source:         s.Article.Source,
		Ticker:         s.Article.Ticker,
		RelevanceScore: cl.RelevanceScore,
		SentimentScore: cl.SentimentScore,
		FinalScore:     cl.FinalScore,
		ImpactLevel:    cl.ImpactLevel,
		Recommendation: cl.Recommendation,
		HasCatalyst:    cl.HasCatalyst,
		Categories:     cl.Categories,
	}
}
