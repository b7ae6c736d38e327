package nlp

import (
	"fmt"
	"sort"
	"strings"

	"MorningScan/internal/domain/models"
)

// Aggregator folds a batch of classifications into one InsightSummary.
// It holds no state; Summarize is a pure function over its input.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Summarize recomputes the full aggregate view over a scan batch.
// Calling it twice on the same input yields the same summary.
func (a *Aggregator) Summarize(items []*models.ScoredArticle) models.InsightSummary {
	summary := models.InsightSummary{
		ImpactCounts:    make(map[models.ImpactLevel]int),
		SentimentCounts: make(map[string]int),
		CategoryCounts:  make(map[string]int),
		SignalBreakdown: make(map[models.SignalFamily]int),
	}
	if len(items) == 0 {
		summary.Insights = "No news to analyze"
		return summary
	}

	for _, item := range items {
		if item == nil || item.Classification == nil {
			continue
		}
		cl := item.Classification

		summary.TotalItems++
		if cl.FinalScore >= 0.6 {
			summary.StrongOpportunities++
		}
		if cl.HasCatalyst {
			summary.CatalystCount++
		}
		summary.SignalsDetected += len(cl.Signals)

		summary.ImpactCounts[cl.ImpactLevel]++
		summary.SentimentCounts[cl.SentimentLabel]++
		for _, cat := range cl.Categories {
			summary.CategoryCounts[cat]++
		}
		for _, s := range cl.Signals {
			summary.SignalBreakdown[s.Family]++
		}
	}

	if summary.TotalItems == 0 {
		summary.Insights = "No news to analyze"
		return summary
	}
	summary.Insights = a.narrative(summary)
	return summary
}

// narrative renders the one-line batch insight used in morning reports.
func (a *Aggregator) narrative(s models.InsightSummary) string {
	parts := []string{
		fmt.Sprintf("Analyzed %d items", s.TotalItems),
	}
	if s.StrongOpportunities > 0 {
		parts = append(parts, fmt.Sprintf("%d strong opportunities", s.StrongOpportunities))
	}
	if s.CatalystCount > 0 {
		parts = append(parts, fmt.Sprintf("%d catalyst events", s.CatalystCount))
	}
	if s.SignalsDetected > 0 {
		parts = append(parts, fmt.Sprintf("signals: %s", topFamilies(s.SignalBreakdown, 3)))
	}
	if top, count := topCategory(s.CategoryCounts); top != "" {
		parts = append(parts, fmt.Sprintf("dominant theme: %s (%d)", top, count))
	}
	return strings.Join(parts, " | ")
}

// topFamilies renders the n most frequent signal families as
// "family(count)" pairs, most frequent first; ties break alphabetically
// like topCategory.
func topFamilies(counts map[models.SignalFamily]int, n int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, string(name))
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		return counts[models.SignalFamily(names[i])] > counts[models.SignalFamily(names[j])]
	})
	if len(names) > n {
		names = names[:n]
	}

	rendered := make([]string, 0, len(names))
	for _, name := range names {
		rendered = append(rendered, fmt.Sprintf("%s(%d)", name, counts[models.SignalFamily(name)]))
	}
	return strings.Join(rendered, ", ")
}

// topCategory picks the most frequent category; ties break alphabetically
// so the narrative is stable across runs.
func topCategory(counts map[string]int) (string, int) {
	if len(counts) == 0 {
		return "", 0
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best, bestCount := "", 0
	for _, name := range names {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best, bestCount
}
