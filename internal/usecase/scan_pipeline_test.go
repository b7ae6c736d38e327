package usecase

import (
	"context"
	"fmt"
	"testing"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
	"MorningScan/internal/services/nlp"
	applogger "MorningScan/pkg/logger"
)

type fakeSource struct {
	name     string
	articles []*models.Article
	fail     bool
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, maxItems int) ([]*models.Article, error) {
	if f.fail {
		return nil, fmt.Errorf("feed unreachable")
	}
	return f.articles, nil
}

type fakeReporter struct {
	sent     int
	items    int
	insights models.InsightSummary
}

func (f *fakeReporter) SendDailyReport(ctx context.Context, items []*models.ScoredArticle, insights models.InsightSummary) error {
	f.sent++
	f.items = len(items)
	f.insights = insights
	return nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestScanPipelineRun(t *testing.T) {
	good := &fakeSource{name: "feed-a", articles: []*models.Article{
		{Title: "Volvo vinner order", Source: "feed-a"},
		{Title: "Dagens väder", Source: "feed-a"},
	}}
	bad := &fakeSource{name: "feed-b", fail: true}

	pub := &fakePublisher{}
	m := newFakeMetrics()
	cls := &fakeClassifier{relevance: 0.5, final: 0.5, rec: models.RecWatch}
	proc := NewArticleProcessor(cls, nil, pub, nil, m, "kafka", 0.3)
	rep := &fakeReporter{}

	p := NewScanPipeline(
		[]drepo.ArticleSource{good, bad},
		proc, cls, fakeMapper{}, nlp.NewAggregator(), rep, nil, nil, m, testLogger(t), 50,
	)

	res, err := p.Run(context.Background(), "api", 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Run.TotalItems != 2 {
		t.Fatalf("TotalItems = %d, want 2", res.Run.TotalItems)
	}
	if res.Run.Opportunities != 2 {
		t.Fatalf("Opportunities = %d, want 2", res.Run.Opportunities)
	}
	if res.Run.Source != "api" {
		t.Fatalf("Source = %q, want api", res.Run.Source)
	}
	if m.errors["source_fetch"] != 1 {
		t.Fatalf("source_fetch errors = %d, want 1", m.errors["source_fetch"])
	}
	if len(pub.published) != 2 {
		t.Fatalf("published %d picks, want 2", len(pub.published))
	}
	if rep.sent != 1 || rep.items != 2 {
		t.Fatalf("reporter sent=%d items=%d, want 1/2", rep.sent, rep.items)
	}
	for i, s := range res.Opportunities {
		if s.Rank != i+1 {
			t.Fatalf("rank at %d = %d", i, s.Rank)
		}
	}
}

type classifierByTitle map[string]models.Classification

func (m classifierByTitle) Classify(title, content, snippet string) models.Classification {
	return m[title]
}

func TestScanPipelineCountsCoverAllScored(t *testing.T) {
	src := &fakeSource{name: "feed", articles: []*models.Article{
		{Title: "strong", Source: "feed"},
		{Title: "floor-only", Source: "feed"},
	}}

	// "floor-only" clears the pick floor (0.3) but fails every
	// opportunity criterion; it must still reach the pick store and the
	// insight totals.
	cls := classifierByTitle{
		"strong":     {RelevanceScore: 0.6, FinalScore: 0.7, Recommendation: models.RecBuy},
		"floor-only": {RelevanceScore: 0.35, FinalScore: 0.2, Recommendation: models.RecWatch},
	}

	pub := &fakePublisher{}
	m := newFakeMetrics()
	proc := NewArticleProcessor(cls, nil, pub, nil, m, "kafka", 0.3)
	p := NewScanPipeline(
		[]drepo.ArticleSource{src},
		proc, cls, nil, nlp.NewAggregator(), nil, nil, nil, m, testLogger(t), 50,
	)

	res, err := p.Run(context.Background(), "api", 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(res.Opportunities))
	}
	if len(pub.published) != 2 {
		t.Fatalf("published %d picks, want 2 (floor-only must be kept)", len(pub.published))
	}
	if res.Insights.TotalItems != res.Run.TotalItems {
		t.Fatalf("insight total %d != run total %d", res.Insights.TotalItems, res.Run.TotalItems)
	}
	if res.Insights.TotalItems != 2 {
		t.Fatalf("insight total = %d, want 2", res.Insights.TotalItems)
	}
	if res.Insights.StrongOpportunities != 1 {
		t.Fatalf("strong = %d, want 1", res.Insights.StrongOpportunities)
	}
}

func TestScanPipelineClassifyBatch(t *testing.T) {
	cls := &fakeClassifier{relevance: 0.5, final: 0.7, rec: models.RecBuy}
	proc := NewArticleProcessor(cls, nil, &fakePublisher{}, nil, newFakeMetrics(), "kafka", 0.3)
	p := NewScanPipeline(nil, proc, cls, fakeMapper{}, nlp.NewAggregator(), nil, nil, nil, newFakeMetrics(), testLogger(t), 50)

	res := p.ClassifyBatch([]models.ClassifyRequest{
		{Title: "Bolaget höjer prognos"},
		{Title: "Noterar rekordresultat"},
	})
	if res.Run != nil {
		t.Fatal("ad-hoc batch should have no run record")
	}
	if len(res.Opportunities) != 2 {
		t.Fatalf("opportunities = %d, want 2", len(res.Opportunities))
	}
	if res.Insights.StrongOpportunities != 2 {
		t.Fatalf("strong = %d, want 2", res.Insights.StrongOpportunities)
	}
	if res.Opportunities[0].Article.Ticker == "" {
		t.Fatal("mapper should have filled the ticker")
	}
}
