package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
	domsvc "MorningScan/internal/domain/service"
	"MorningScan/internal/services/nlp"
	"MorningScan/internal/services/report"
	applogger "MorningScan/pkg/logger"
)

// ScanResult is what one full scan run produced, for API responses and
// run bookkeeping.
type ScanResult struct {
	Run           *models.ScanRun
	Opportunities []*models.ScoredArticle
	Insights      models.InsightSummary
}

// ScanPipeline runs the full fetch -> score -> rank -> report cycle over
// all configured sources. One instance is shared between the scheduler
// and the API trigger; runs are independent.
type ScanPipeline struct {
	sources    []drepo.ArticleSource
	proc       *ArticleProcessor
	classifier domsvc.Classifier
	mapper     domsvc.CompanyMapper
	aggregator *nlp.Aggregator
	reporter   domsvc.ReportSender
	pickLog    *report.CSVPickLog
	runs       drepo.ScanRunStore
	metrics    drepo.Metrics
	logger     *applogger.Logger

	maxItems int

	mu   sync.Mutex
	last *ScanResult
}

// NewScanPipeline creates a new ScanPipeline instance. reporter, pickLog
// and runs may be nil; the corresponding step is skipped.
func NewScanPipeline(
	sources []drepo.ArticleSource,
	proc *ArticleProcessor,
	classifier domsvc.Classifier,
	mapper domsvc.CompanyMapper,
	aggregator *nlp.Aggregator,
	reporter domsvc.ReportSender,
	pickLog *report.CSVPickLog,
	runs drepo.ScanRunStore,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	maxItems int,
) *ScanPipeline {
	if maxItems <= 0 {
		maxItems = 50
	}
	return &ScanPipeline{
		sources:    sources,
		proc:       proc,
		classifier: classifier,
		mapper:     mapper,
		aggregator: aggregator,
		reporter:   reporter,
		pickLog:    pickLog,
		runs:       runs,
		metrics:    metrics,
		logger:     logger,
		maxItems:   maxItems,
	}
}

// Run executes one scan. trigger records what started the run
// ("scheduled", "api" or "stream"). A failing source or report step does
// not abort the run; only a total persistence failure is returned.
func (p *ScanPipeline) Run(ctx context.Context, trigger string, maxItems int) (*ScanResult, error) {
	start := time.Now()
	if maxItems <= 0 {
		maxItems = p.maxItems
	}

	articles, failed := p.collect(ctx, maxItems)
	p.logger.Info("scan collected articles",
		applogger.String("trigger", trigger),
		applogger.Int("articles", len(articles)),
		applogger.Int("failed_sources", failed))

	scored := make([]*models.ScoredArticle, 0, len(articles))
	failedItems := 0
	for _, a := range articles {
		if a.Ticker == "" && p.mapper != nil {
			if company, ticker, ok := p.mapper.Map(a.Title + " " + a.Snippet); ok {
				a.Company = company
				a.Ticker = ticker
			}
		}
		cls := p.classifier.Classify(a.Title, a.Content, a.Snippet)
		if cls.Recommendation == models.RecIgnore && cls.RelevanceScore == 0 && len(cls.Signals) == 0 {
			failedItems++
		}
		p.metrics.RecordArticleScanned(a.Source)
		p.metrics.RecordRecommendation(cls.Recommendation)
		scored = append(scored, &models.ScoredArticle{Article: a, Classification: &cls})
	}

	// Insights and picks cover the whole scored batch; the opportunity
	// filter only narrows what gets ranked and reported.
	insights := p.aggregator.Summarize(scored)

	picks := make([]*models.Pick, 0, len(scored))
	for _, s := range scored {
		if s.Classification.RelevanceScore >= p.proc.MinRelevance() {
			picks = append(picks, PickFromScored(s))
		}
	}

	opportunities := nlp.FilterOpportunities(scored)
	RankArticles(opportunities)

	if p.pickLog != nil {
		if err := p.pickLog.Append(picks); err != nil {
			p.metrics.RecordError("pick_log")
			p.logger.Warn("pick log append failed", applogger.Error(err))
		}
	}
	if err := p.proc.PersistPicks(ctx, picks); err != nil {
		return nil, fmt.Errorf("scan persist: %w", err)
	}

	if p.reporter != nil {
		if err := p.reporter.SendDailyReport(ctx, opportunities, insights); err != nil {
			p.metrics.RecordError("report")
			p.logger.Warn("daily report failed", applogger.Error(err))
		}
	}

	run := &models.ScanRun{
		RunAt:               start,
		Source:              trigger,
		TotalItems:          len(scored),
		Opportunities:       len(opportunities),
		StrongOpportunities: insights.StrongOpportunities,
		CatalystCount:       insights.CatalystCount,
		SignalsDetected:     insights.SignalsDetected,
		FailedItems:         failedItems,
		Duration:            time.Since(start),
	}
	if p.runs != nil {
		if err := p.runs.Record(ctx, run); err != nil {
			p.metrics.RecordError("scan_run_store")
			p.logger.Warn("scan run record failed", applogger.Error(err))
		}
	}
	p.metrics.RecordLatency("scan", run.Duration.Seconds())

	p.logger.Info("scan finished",
		applogger.String("trigger", trigger),
		applogger.Int("total", run.TotalItems),
		applogger.Int("opportunities", run.Opportunities),
		applogger.Int("strong", run.StrongOpportunities),
		applogger.Duration("took", run.Duration))

	result := &ScanResult{Run: run, Opportunities: opportunities, Insights: insights}
	p.mu.Lock()
	p.last = result
	p.mu.Unlock()
	return result, nil
}

// LastResult returns the most recent completed scan, nil before the first.
func (p *ScanPipeline) LastResult() *ScanResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// ClassifyBatch scores ad-hoc items without touching sources or storage.
// The returned result has no Run record.
func (p *ScanPipeline) ClassifyBatch(items []models.ClassifyRequest) *ScanResult {
	scored := make([]*models.ScoredArticle, 0, len(items))
	for _, it := range items {
		a := &models.Article{Title: it.Title, Content: it.Content, Snippet: it.Snippet, Source: "api"}
		if p.mapper != nil {
			if company, ticker, ok := p.mapper.Map(a.Title + " " + a.Snippet); ok {
				a.Company = company
				a.Ticker = ticker
			}
		}
		cls := p.classifier.Classify(a.Title, a.Content, a.Snippet)
		p.metrics.RecordArticleScanned(a.Source)
		p.metrics.RecordRecommendation(cls.Recommendation)
		scored = append(scored, &models.ScoredArticle{Article: a, Classification: &cls})
	}
	insights := p.aggregator.Summarize(scored)
	opportunities := nlp.FilterOpportunities(scored)
	RankArticles(opportunities)
	return &ScanResult{Opportunities: opportunities, Insights: insights}
}

// collect fetches from every source, tolerating per-source failures.
// Returns the merged article list and the number of failed sources.
func (p *ScanPipeline) collect(ctx context.Context, maxItems int) ([]*models.Article, int) {
	var all []*models.Article
	failed := 0
	for _, src := range p.sources {
		items, err := src.Fetch(ctx, maxItems)
		if err != nil {
			failed++
			p.metrics.RecordError("source_fetch")
			p.logger.Warn("source fetch failed",
				applogger.String("source", src.Name()),
				applogger.Error(err))
			continue
		}
		all = append(all, items...)
	}
	return all, failed
}
