package service

import (
	"context"

	"MorningScan/internal/domain/models"
)

// Classifier turns raw article text into a classification. Implementations
// must never return an error or panic to the caller; a failed analysis
// yields the empty IGNORE classification instead.
type Classifier interface {
	Classify(title, content, snippet string) models.Classification
}

// CompanyMapper resolves company mentions in text to listed tickers.
type CompanyMapper interface {
	Map(text string) (company string, ticker string, ok bool)
}

// ReportSender delivers a daily report for a ranked batch.
type ReportSender interface {
	SendDailyReport(ctx context.Context, items []*models.ScoredArticle, insights models.InsightSummary) error
}
