package report

import (
	"fmt"
	"strings"
	"time"

	"MorningScan/internal/domain/models"
	"MorningScan/pkg/util"
)

// maxReportItems caps how many picks the morning report lists.
const maxReportItems = 10

// FormatDailyReport renders the plain-text morning report. Items are
// expected pre-ranked; the formatter does not reorder them.
func FormatDailyReport(items []*models.ScoredArticle, insights models.InsightSummary, now time.Time) string {
	var b strings.Builder

	local := now.In(util.StockholmLocation())
	fmt.Fprintf(&b, "MORGONSCAN %s\n", local.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	if len(items) == 0 {
		b.WriteString("Inga intressanta nyheter i dag.\n")
		if insights.Insights != "" {
			fmt.Fprintf(&b, "\n%s\n", insights.Insights)
		}
		return b.String()
	}

	shown := items
	if len(shown) > maxReportItems {
		shown = shown[:maxReportItems]
	}

	for i, item := range shown {
		cl := item.Classification
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Article.Title)
		if item.Article.Ticker != "" {
			fmt.Fprintf(&b, "   %s (%s)\n", item.Article.Company, item.Article.Ticker)
		}
		fmt.Fprintf(&b, "   %s | score %.2f | %s\n", cl.Recommendation, cl.FinalScore, cl.Timeframe)
		if cl.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", cl.Summary)
		}
		if item.Article.URL != "" {
			fmt.Fprintf(&b, "   %s\n", item.Article.URL)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Totalt %d analyserade | %d starka | %d katalysatorer\n",
		insights.TotalItems, insights.StrongOpportunities, insights.CatalystCount)
	if insights.Insights != "" {
		fmt.Fprintf(&b, "%s\n", insights.Insights)
	}
	return b.String()
}
