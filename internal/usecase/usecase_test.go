package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"MorningScan/internal/domain/models"
)

type fakeClassifier struct {
	relevance float64
	final     float64
	rec       models.Recommendation
}

func (f *fakeClassifier) Classify(title, content, snippet string) models.Classification {
	return models.Classification{
		RelevanceScore: f.relevance,
		FinalScore:     f.final,
		Recommendation: f.rec,
		ImpactLevel:    models.ImpactLow,
	}
}

type fakeMapper struct{}

func (fakeMapper) Map(text string) (string, string, bool) {
	return "Volvo", "VOLV-B", true
}

type fakePublisher struct {
	published []*models.Pick
	fail      bool
	closed    bool
}

func (f *fakePublisher) Publish(ctx context.Context, p *models.Pick) error {
	return f.PublishBatch(ctx, []*models.Pick{p})
}

func (f *fakePublisher) PublishBatch(ctx context.Context, picks []*models.Pick) error {
	if f.fail {
		return fmt.Errorf("broker down")
	}
	f.published = append(f.published, picks...)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

type fakeStore struct {
	stored []*models.Pick
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) Store(ctx context.Context, p *models.Pick) error {
	return f.StoreBatch(ctx, []*models.Pick{p})
}

func (f *fakeStore) StoreBatch(ctx context.Context, picks []*models.Pick) error {
	f.stored = append(f.stored, picks...)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, minScore float64, from, to time.Time, limit int) ([]*models.Pick, error) {
	return nil, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

type fakeMetrics struct {
	scanned   int
	stored    int
	errors    map[string]int
	latencies map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: map[string]int{}, latencies: map[string]int{}}
}

func (f *fakeMetrics) RecordArticleScanned(source string)              { f.scanned++ }
func (f *fakeMetrics) RecordRecommendation(rec models.Recommendation) {}
func (f *fakeMetrics) RecordPickStored(backend string)                { f.stored++ }
func (f *fakeMetrics) RecordError(kind string)                        { f.errors[kind]++ }
func (f *fakeMetrics) RecordLatency(op string, seconds float64)       { f.latencies[op]++ }

func TestProcessPersistsAboveFloor(t *testing.T) {
	pub := &fakePublisher{}
	m := newFakeMetrics()
	proc := NewArticleProcessor(
		&fakeClassifier{relevance: 0.6, final: 0.5, rec: models.RecWatch},
		fakeMapper{}, pub, nil, m, "kafka", 0.3,
	)

	a := &models.Article{Title: "Volvo vinner order", Source: "test"}
	scored, err := proc.Process(context.Background(), a)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if scored.Classification.RelevanceScore != 0.6 {
		t.Fatalf("relevance = %v, want 0.6", scored.Classification.RelevanceScore)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d picks, want 1", len(pub.published))
	}
	if a.Ticker != "VOLV-B" {
		t.Fatalf("ticker = %q, want VOLV-B", a.Ticker)
	}
	if m.stored != 1 {
		t.Fatalf("stored metric = %d, want 1", m.stored)
	}
}

func TestProcessSkipsBelowFloor(t *testing.T) {
	pub := &fakePublisher{}
	proc := NewArticleProcessor(
		&fakeClassifier{relevance: 0.1, rec: models.RecIgnore},
		nil, pub, nil, newFakeMetrics(), "kafka", 0.3,
	)

	scored, err := proc.Process(context.Background(), &models.Article{Title: "x", Source: "test"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if scored == nil {
		t.Fatal("scored article should be returned even when not persisted")
	}
	if len(pub.published) != 0 {
		t.Fatalf("published %d picks, want 0", len(pub.published))
	}
}

func TestProcessNilArticle(t *testing.T) {
	proc := NewArticleProcessor(&fakeClassifier{}, nil, &fakePublisher{}, nil, newFakeMetrics(), "kafka", 0)
	if _, err := proc.Process(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil article")
	}
}

func TestPersistBackendRouting(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStore{}
	picks := []*models.Pick{{Title: "a"}, {Title: "b"}}

	kafkaProc := NewArticleProcessor(&fakeClassifier{}, nil, pub, store, newFakeMetrics(), "kafka", 0)
	if err := kafkaProc.PersistPicks(context.Background(), picks); err != nil {
		t.Fatalf("kafka persist error = %v", err)
	}
	if len(pub.published) != 2 || len(store.stored) != 0 {
		t.Fatalf("kafka backend routed wrong: pub=%d store=%d", len(pub.published), len(store.stored))
	}

	chProc := NewArticleProcessor(&fakeClassifier{}, nil, pub, store, newFakeMetrics(), "clickhouse", 0)
	if err := chProc.PersistPicks(context.Background(), picks); err != nil {
		t.Fatalf("clickhouse persist error = %v", err)
	}
	if len(store.stored) != 2 {
		t.Fatalf("clickhouse backend stored %d, want 2", len(store.stored))
	}

	badProc := NewArticleProcessor(&fakeClassifier{}, nil, pub, store, newFakeMetrics(), "s3", 0)
	if err := badProc.PersistPicks(context.Background(), picks); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestPersistPicksEmptyBatch(t *testing.T) {
	proc := NewArticleProcessor(&fakeClassifier{}, nil, nil, nil, newFakeMetrics(), "kafka", 0)
	if err := proc.PersistPicks(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}

func TestRankArticles(t *testing.T) {
	mk := func(title string, relevance float64) *models.ScoredArticle {
		return &models.ScoredArticle{
			Article:        &models.Article{Title: title},
			Classification: &models.Classification{RelevanceScore: relevance},
		}
	}
	items := []*models.ScoredArticle{mk("low", 0.2), mk("high", 0.9), mk("mid", 0.5), mk("tie", 0.5)}
	RankArticles(items)

	wantOrder := []string{"high", "mid", "tie", "low"}
	for i, want := range wantOrder {
		if items[i].Article.Title != want {
			t.Fatalf("position %d = %q, want %q", i, items[i].Article.Title, want)
		}
		if items[i].Rank != i+1 {
			t.Fatalf("rank at %d = %d, want %d", i, items[i].Rank, i+1)
		}
	}
}

func TestRankArticlesKeyIsRelevance(t *testing.T) {
	items := []*models.ScoredArticle{
		{
			Article:        &models.Article{Title: "broad"},
			Classification: &models.Classification{RelevanceScore: 0.2, FinalScore: 0.8},
		},
		{
			Article:        &models.Article{Title: "relevant"},
			Classification: &models.Classification{RelevanceScore: 0.9, FinalScore: 0.3},
		},
	}
	RankArticles(items)

	if items[0].Article.Title != "relevant" || items[0].Rank != 1 {
		t.Fatalf("rank 1 = %q (rank %d), want relevant", items[0].Article.Title, items[0].Rank)
	}
}

func TestKafkaArticlesHandler(t *testing.T) {
	m := newFakeMetrics()
	proc := NewArticleProcessor(
		&fakeClassifier{relevance: 0.5, rec: models.RecWatch},
		nil, &fakePublisher{}, nil, m, "kafka", 0.3,
	)
	h := NewKafkaArticlesHandler("articles.raw", proc, m)

	if h.Topic() != "articles.raw" {
		t.Fatalf("Topic() = %q", h.Topic())
	}

	msg := []byte(`{"title":"Bolaget vinner order","source":"mfn.se","published_at":1724900000}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if m.errors["consumer_unmarshal"] != 1 {
		t.Fatalf("consumer_unmarshal errors = %d, want 1", m.errors["consumer_unmarshal"])
	}
}

func TestConsumerHookRecords(t *testing.T) {
	m := newFakeMetrics()
	h := NewConsumerHook(m, nil)

	ctx, msg, data, err := h.BeforeHandle(context.Background(), "articles.raw", kafkago.Message{}, nil)
	if err != nil {
		t.Fatalf("BeforeHandle error = %v", err)
	}
	h.AfterHandle(ctx, "articles.raw", msg, data, nil)
	if m.latencies["consumer_handle"] != 1 {
		t.Fatalf("handle latency recorded %d times, want 1", m.latencies["consumer_handle"])
	}

	h.OnError(ctx, "articles.raw", msg, data, fmt.Errorf("broker down"))
	if m.errors["consumer_handle"] != 1 {
		t.Fatalf("handle errors = %d, want 1", m.errors["consumer_handle"])
	}
}

func TestPickFromScoredTimestampFallback(t *testing.T) {
	s := &models.ScoredArticle{
		Article:        &models.Article{Title: "t"},
		Classification: &models.Classification{},
	}
	p := PickFromScored(s)
	if p.Timestamp.IsZero() {
		t.Fatal("zero publish time should fall back to now")
	}

	at := time.Date(2026, 8, 28, 7, 0, 0, 0, time.UTC)
	s.Article.PublishedAt = at
	if got := PickFromScored(s).Timestamp; !got.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", got, at)
	}
}
