package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MorningScan/internal/domain/models"
)

func sampleItems() []*models.ScoredArticle {
	return []*models.ScoredArticle{
		{
			Article: &models.Article{
				Title:   "Ericsson rapporterar 25% tillväxt",
				URL:     "https://example.com/a",
				Source:  "test",
				Company: "Ericsson",
				Ticker:  "ERIC-B",
			},
			Classification: &models.Classification{
				FinalScore:     0.72,
				Recommendation: models.RecBuy,
				Timeframe:      "Short-term (1-4 weeks)",
				Summary:        "Impact: HIGH | Tone: Positive",
			},
			Rank: 1,
		},
		{
			Article: &models.Article{Title: "Volvo vinner order", Source: "test"},
			Classification: &models.Classification{
				FinalScore:     0.45,
				Recommendation: models.RecWatch,
				Timeframe:      "Medium-term (1-3 months)",
			},
			Rank: 2,
		},
	}
}

func TestFormatDailyReport(t *testing.T) {
	insights := models.InsightSummary{
		TotalItems:          5,
		StrongOpportunities: 1,
		CatalystCount:       2,
		Insights:            "Analyzed 5 items | 1 strong opportunities",
	}
	now := time.Date(2026, 8, 28, 8, 30, 0, 0, time.UTC)

	out := FormatDailyReport(sampleItems(), insights, now)

	for _, want := range []string{
		"MORGONSCAN 2026-08-28",
		"1. Ericsson rapporterar 25% tillväxt",
		"Ericsson (ERIC-B)",
		"BUY | score 0.72 | Short-term (1-4 weeks)",
		"https://example.com/a",
		"2. Volvo vinner order",
		"Totalt 5 analyserade | 1 starka | 2 katalysatorer",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDailyReportEmpty(t *testing.T) {
	out := FormatDailyReport(nil, models.InsightSummary{Insights: "No news to analyze"}, time.Now())
	if !strings.Contains(out, "Inga intressanta nyheter") {
		t.Fatalf("empty report = %q", out)
	}
}

func TestFormatDailyReportCapsItems(t *testing.T) {
	var items []*models.ScoredArticle
	for i := 0; i < 15; i++ {
		items = append(items, &models.ScoredArticle{
			Article:        &models.Article{Title: "Nyhet"},
			Classification: &models.Classification{Recommendation: models.RecWatch},
		})
	}
	out := FormatDailyReport(items, models.InsightSummary{}, time.Now())
	if strings.Contains(out, "11. ") {
		t.Fatalf("report lists more than %d items:\n%s", maxReportItems, out)
	}
}

func TestCSVPickLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picks.csv")
	log := NewCSVPickLog(path)

	picks := []*models.Pick{
		{
			Timestamp:      time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC),
			Title:          "Ericsson, \"rekordorder\"",
			URL:            "https://example.com/a",
			Source:         "test",
			Ticker:         "ERIC-B",
			RelevanceScore: 0.8,
			SentimentScore: 0.4,
			FinalScore:     0.72,
			ImpactLevel:    models.ImpactHigh,
			Recommendation: models.RecBuy,
			HasCatalyst:    true,
			Categories:     []string{"earnings", "orders"},
		},
		nil, // skipped
	}
	if err := log.Append(picks); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// Second append must not repeat the header.
	if err := log.Append(picks[:1]); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 picks", len(rows))
	}
	if rows[0][0] != "timestamp" {
		t.Fatalf("header row = %v", rows[0])
	}
	row := rows[1]
	if row[1] != "Ericsson, \"rekordorder\"" {
		t.Fatalf("title not round-tripped: %q", row[1])
	}
	if row[4] != "ERIC-B" || row[9] != "BUY" || row[10] != "true" {
		t.Fatalf("row = %v", row)
	}
	if row[11] != "earnings;orders" {
		t.Fatalf("categories = %q", row[11])
	}
}

func TestCSVPickLogEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picks.csv")
	log := NewCSVPickLog(path)

	if err := log.Append(nil); err != nil {
		t.Fatalf("Append(nil): %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty batch should not create the file")
	}
}
