package nlp

import (
	"fmt"
	"sort"
	"strings"

	"MorningScan/internal/domain/models"
	domsvc "MorningScan/internal/domain/service"
	applogger "MorningScan/pkg/logger"
)

// Relevance blend weights: keyword evidence vs pattern signals. Hand-tuned;
// preserved for behavioral compatibility with the historical scanner.
const (
	keywordRelevanceWeight = 0.4
	signalRelevanceWeight  = 0.6
)

// Final-score component weights.
const (
	sentimentWeight   = 0.3
	relevanceWeight   = 0.2
	advancedWeight    = 0.4
	riskPenaltyWeight = 0.1
)

// signalRelevanceWeights weighs each family's contribution to relevance.
var signalRelevanceWeights = map[models.SignalFamily]float64{
	models.FamilyQuantitative: 0.30,
	models.FamilyTiming:       0.25,
	models.FamilyCompetitive:  0.20,
	models.FamilyManagement:   0.15,
	models.FamilyTailwind:     0.05,
	models.FamilyValue:        0.05,
}

// defaultSignalWeight applies to any family missing from the table.
const defaultSignalWeight = 0.1

// signalCategoryNames maps families to report taxonomy categories for
// signals strong enough to categorize an article.
var signalCategoryNames = map[models.SignalFamily]string{
	models.FamilyQuantitative: "financial_metrics",
	models.FamilyCompetitive:  "competitive_advantage",
	models.FamilyManagement:   "governance",
	models.FamilyTiming:       "market_timing",
	models.FamilyValue:        "value_opportunity",
}

const maxCategories = 5

// Classifier is the single entry point of the scoring core. It fuses
// keyword evidence and pattern signals into one Classification per article.
// Stateless between calls; safe for concurrent use.
type Classifier struct {
	keywords *KeywordAnalyzer
	detector *SignalDetector
	logger   *applogger.Logger
}

// NewClassifier wires the matcher and detector into a classifier.
func NewClassifier(keywords *KeywordAnalyzer, detector *SignalDetector) *Classifier {
	return &Classifier{keywords: keywords, detector: detector}
}

// SetLogger injects a structured logger for recoverable analysis failures.
func (c *Classifier) SetLogger(l *applogger.Logger) { c.logger = l }

// Classify scores one article. It never panics or returns an error: any
// internal fault produces the empty IGNORE classification, so a batch loop
// over scraped text can never be halted by one malformed item.
func (c *Classifier) Classify(title, content, snippet string) (cls models.Classification) {
	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Error("classification failed", applogger.String("panic", fmt.Sprint(r)))
			}
			cls = EmptyClassification()
		}
	}()

	fullText := strings.TrimSpace(title + " " + content + " " + snippet)
	sets := c.keywords.ExtractKeywords(fullText)

	signals := c.detector.Detect(title, content, snippet)
	metrics := c.detector.CalculateAdvancedScore(signals)

	relevance := c.relevanceScore(sets, signals)
	sentiment := c.keywords.CalculateSentimentScore(sets.Positive, sets.Negative)

	impact := impactLevel(relevance, sentiment, len(sets.Catalyst), signals)
	hasCatalyst := len(sets.Catalyst) > 0 || anyFamily(signals, models.FamilyTiming)
	categories := c.classifyCategories(sets, signals)

	finalScore := fuseFinalScore(sentiment, relevance, metrics)
	recommendation := recommendationFor(finalScore)
	timeframe := timeframeFor(finalScore, signals)

	summary := buildSummary(impact, sentiment, hasCatalyst, categories, signals,
		len(sets.Positive), len(sets.Negative), len(sets.Catalyst))

	return models.Classification{
		RelevanceScore:    relevance,
		SentimentScore:    sentiment,
		SentimentLabel:    SentimentLabel(sentiment),
		ImpactLevel:       impact,
		HasCatalyst:       hasCatalyst,
		Categories:        categories,
		Summary:           summary,
		Signals:           signals,
		AdvancedScore:     metrics.AdvancedScore,
		RiskAdjustedScore: metrics.RiskAdjustedScore,
		SignalConfidence:  metrics.Confidence,
		FinalScore:        finalScore,
		Recommendation:    recommendation,
		Timeframe:         timeframe,
		PositiveKeywords:  sets.Positive,
		NegativeKeywords:  sets.Negative,
		CatalystKeywords:  sets.Catalyst,
	}
}

// relevanceScore blends keyword relevance (40%) with signal relevance (60%).
// Signal relevance is a per-family weighted, confidence-scaled average over
// non-negative signals, normalized by the weight actually present.
func (c *Classifier) relevanceScore(sets KeywordSets, signals []models.Signal) float64 {
	keywordPart := c.keywords.CalculateRelevanceScore(sets.Positive, sets.Negative, sets.Catalyst) * keywordRelevanceWeight

	var signalPart float64
	if len(signals) > 0 {
		var weightedSum, totalWeight float64
		for _, s := range signals {
			if s.Strength <= 0 {
				continue
			}
			w, ok := signalRelevanceWeights[s.Family]
			if !ok {
				w = defaultSignalWeight
			}
			weightedSum += s.Strength * w * s.Confidence
			totalWeight += w * s.Confidence
		}
		if totalWeight > 0 {
			signalPart = (weightedSum / totalWeight) * signalRelevanceWeight
		}
	}

	score := keywordPart + signalPart
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// impactLevel evaluates the fixed-priority impact branches; the first
// matching branch wins.
func impactLevel(relevance, sentiment float64, catalystCount int, signals []models.Signal) models.ImpactLevel {
	for _, s := range signals {
		if s.Strength > 0.7 && (s.Family == models.FamilyQuantitative || s.Family == models.FamilyTiming) {
			return models.ImpactHigh
		}
		if s.Timeframe == models.TimeframeImmediate && s.Strength > 0.6 {
			return models.ImpactHigh
		}
	}
	if relevance > 0.7 && (sentiment > 0.3 || catalystCount > 1) {
		return models.ImpactHigh
	}
	if relevance > 0.4 && (sentiment > 0.1 || catalystCount > 0) {
		return models.ImpactMedium
	}
	return models.ImpactLow
}

// classifyCategories merges keyword taxonomy categories with categories
// contributed by strong signals. Keyword categories keep taxonomy order,
// signal categories follow the fixed family order; the union is
// deduplicated and truncated to five.
func (c *Classifier) classifyCategories(sets KeywordSets, signals []models.Signal) []string {
	categories := c.keywords.ClassifyCategories(sets.Positive, sets.Catalyst)

	strong := make(map[models.SignalFamily]bool)
	for _, s := range signals {
		if s.Strength > 0.5 {
			strong[s.Family] = true
		}
	}

	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		seen[cat] = true
	}
	for _, fam := range signalFamilyOrder {
		name, ok := signalCategoryNames[fam]
		if !ok || !strong[fam] || seen[name] {
			continue
		}
		categories = append(categories, name)
		seen[name] = true
	}

	if len(categories) > maxCategories {
		categories = categories[:maxCategories]
	}
	return categories
}

// fuseFinalScore combines the three scoring layers minus the risk penalty,
// clipped at zero.
func fuseFinalScore(sentiment, relevance float64, metrics models.AdvancedMetrics) float64 {
	score := sentiment*sentimentWeight +
		relevance*relevanceWeight +
		metrics.RiskAdjustedScore*advancedWeight -
		metrics.RiskFactors*riskPenaltyWeight
	if score < 0 {
		score = 0
	}
	return score
}

func recommendationFor(finalScore float64) models.Recommendation {
	switch {
	case finalScore >= 0.8:
		return models.RecStrongBuy
	case finalScore >= 0.6:
		return models.RecBuy
	case finalScore >= 0.4:
		return models.RecWatch
	case finalScore >= 0.2:
		return models.RecWeakSignal
	default:
		return models.RecIgnore
	}
}

func timeframeFor(finalScore float64, signals []models.Signal) string {
	for _, s := range signals {
		if s.Timeframe == models.TimeframeImmediate && s.Strength > 0.6 {
			return "Immediate (1-3 days)"
		}
	}
	for _, s := range signals {
		if s.Timeframe == models.TimeframeShortTerm && s.Strength > 0.5 {
			return "Short-term (1-4 weeks)"
		}
	}
	if finalScore >= 0.6 {
		return "Medium-term (1-3 months)"
	}
	return "Long-term (3+ months)"
}

// SentimentLabel discretizes a sentiment score for reports.
func SentimentLabel(score float64) string {
	switch {
	case score > 0.3:
		return "Very Positive"
	case score > 0.1:
		return "Positive"
	case score > -0.1:
		return "Neutral"
	case score > -0.3:
		return "Negative"
	default:
		return "Very Negative"
	}
}

// buildSummary renders the one-line classification summary. Markers are
// plain ASCII throughout: keyword counts as "N+ N- N!" and the literal
// CATALYST EVENT flag, no glyphs.
func buildSummary(impact models.ImpactLevel, sentiment float64, hasCatalyst bool,
	categories []string, signals []models.Signal, posCount, negCount, catCount int) string {

	catPart := "General"
	if len(categories) > 0 {
		top := categories
		if len(top) > 3 {
			top = top[:3]
		}
		catPart = strings.Join(top, ", ")
	}

	parts := []string{
		fmt.Sprintf("Impact: %s", strings.ToUpper(string(impact))),
		fmt.Sprintf("Tone: %s", SentimentLabel(sentiment)),
		fmt.Sprintf("Categories: %s", catPart),
		fmt.Sprintf("Keywords: %d+ %d- %d!", posCount, negCount, catCount),
	}
	if len(signals) > 0 {
		parts = append(parts, fmt.Sprintf("Signals: %s", SignalSummary(signals)))
	}
	if hasCatalyst {
		parts = append(parts, "CATALYST EVENT")
	}
	return strings.Join(parts, " | ")
}

// EmptyClassification is the well-defined result for a failed analysis:
// all-zero scores, IGNORE, and a fixed summary.
func EmptyClassification() models.Classification {
	return models.Classification{
		SentimentLabel: "Unknown",
		ImpactLevel:    models.ImpactLow,
		Categories:     []string{},
		Summary:        "Analysis failed",
		Signals:        []models.Signal{},
		Recommendation: models.RecIgnore,
		Timeframe:      "Unknown",
	}
}

// FilterOpportunities keeps the articles worth surfacing: a strong overall
// or advanced score, a relevant catalyst, or a direct buy call. The result
// is sorted by final score descending.
func FilterOpportunities(items []*models.ScoredArticle) []*models.ScoredArticle {
	var out []*models.ScoredArticle
	for _, item := range items {
		if item == nil || item.Classification == nil {
			continue
		}
		cl := item.Classification
		keep := cl.FinalScore >= 0.4 ||
			cl.AdvancedScore >= 0.5 ||
			(cl.RelevanceScore >= 0.3 && cl.HasCatalyst) ||
			cl.Recommendation == models.RecStrongBuy ||
			cl.Recommendation == models.RecBuy
		if keep {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Classification.FinalScore > out[j].Classification.FinalScore
	})
	return out
}

func anyFamily(signals []models.Signal, fam models.SignalFamily) bool {
	for _, s := range signals {
		if s.Family == fam {
			return true
		}
	}
	return false
}

var _ domsvc.Classifier = (*Classifier)(nil)
