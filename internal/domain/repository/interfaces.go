package repository

import (
	"context"
	"time"

	"MorningScan/internal/domain/models"
)

// ArticleSource fetches a batch of articles from one news source.
// Implementations must be safe to call repeatedly; a failing source
// returns an error and the pipeline moves on to the next one.
type ArticleSource interface {
	Name() string
	Fetch(ctx context.Context, maxItems int) ([]*models.Article, error)
}

// NewsStream is a live push feed of articles (WebSocket-backed).
type NewsStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Article, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher pushes classified picks to the event bus.
type Publisher interface {
	Publish(ctx context.Context, p *models.Pick) error
	PublishBatch(ctx context.Context, picks []*models.Pick) error
	Close() error
}

// PickStore persists the picks history.
type PickStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, p *models.Pick) error
	StoreBatch(ctx context.Context, picks []*models.Pick) error
	Query(ctx context.Context, minScore float64, from, to time.Time, limit int) ([]*models.Pick, error)
	Health(ctx context.Context) error
	Close() error
}

// ScanRunStore keeps the history of completed scans.
type ScanRunStore interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, run *models.ScanRun) error
	Recent(ctx context.Context, limit int) ([]*models.ScanRun, error)
}

// Metrics records operational counters for the scanner.
type Metrics interface {
	RecordArticleScanned(source string)
	RecordRecommendation(rec models.Recommendation)
	RecordPickStored(backend string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
