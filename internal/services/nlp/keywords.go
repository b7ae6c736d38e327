package nlp

import (
	"sort"
	"strings"

	"MorningScan/internal/domain/models"
)

// KeywordSets groups matches by lexicon category.
type KeywordSets struct {
	Positive []models.KeywordMatch
	Negative []models.KeywordMatch
	Catalyst []models.KeywordMatch
}

// Total returns the total number of matches across all categories.
func (s KeywordSets) Total() int {
	return len(s.Positive) + len(s.Negative) + len(s.Catalyst)
}

// KeywordAnalyzer matches the fixed Swedish financial vocabularies against
// article text. It is immutable after construction and safe for concurrent
// use without synchronization.
type KeywordAnalyzer struct {
	positive   []lexiconEntry
	negative   []lexiconEntry
	catalyst   []lexiconEntry
	industries map[string][]string
}

type lexiconEntry struct {
	phrase  string // original casing, kept for display
	lowered string // matched form
}

// NewKeywordAnalyzer builds the analyzer from the compiled-in lexicons.
func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{
		positive:   buildEntries(positiveLexicon),
		negative:   buildEntries(negativeLexicon),
		catalyst:   buildEntries(catalystLexicon),
		industries: industryLexicon,
	}
}

func buildEntries(phrases []string) []lexiconEntry {
	out := make([]lexiconEntry, len(phrases))
	for i, p := range phrases {
		out[i] = lexiconEntry{phrase: p, lowered: strings.ToLower(p)}
	}
	return out
}

// ExtractKeywords scans text for all three vocabularies. Empty text yields
// three empty lists; the matcher never fails.
func (a *KeywordAnalyzer) ExtractKeywords(text string) KeywordSets {
	if strings.TrimSpace(text) == "" {
		return KeywordSets{}
	}
	lowered := strings.ToLower(text)
	return KeywordSets{
		Positive: a.findMatches(lowered, a.positive, models.KeywordPositive),
		Negative: a.findMatches(lowered, a.negative, models.KeywordNegative),
		Catalyst: a.findMatches(lowered, a.catalyst, models.KeywordCatalyst),
	}
}

// findMatches locates every occurrence of every phrase in the lowered text.
// A phrase matching N times yields N KeywordMatch records.
func (a *KeywordAnalyzer) findMatches(lowered string, entries []lexiconEntry, cat models.KeywordCategory) []models.KeywordMatch {
	var matches []models.KeywordMatch
	for _, e := range entries {
		start := 0
		for {
			idx := strings.Index(lowered[start:], e.lowered)
			if idx < 0 {
				break
			}
			pos := start + idx

			ctxStart := pos - 50
			if ctxStart < 0 {
				ctxStart = 0
			}
			ctxEnd := pos + len(e.lowered) + 50
			if ctxEnd > len(lowered) {
				ctxEnd = len(lowered)
			}

			matches = append(matches, models.KeywordMatch{
				Phrase:   e.phrase,
				Category: cat,
				Position: pos,
				Context:  lowered[ctxStart:ctxEnd],
				Score:    keywordScore(e.phrase, pos, len(lowered), cat),
			})
			start = pos + 1
		}
	}
	return matches
}

// keywordScore is the per-match score. Early, long and catalyst-vocabulary
// phrases score higher: base 0.5, +0.3 within the first 10% of the text
// (+0.2 within the first 30%), +0.2 for phrases over 20 chars (+0.1 over
// 10), +0.1 for catalyst phrases. Clamped to 1.0.
func keywordScore(phrase string, position, textLen int, cat models.KeywordCategory) float64 {
	score := 0.5

	if float64(position) < float64(textLen)*0.1 {
		score += 0.3
	} else if float64(position) < float64(textLen)*0.3 {
		score += 0.2
	}

	if len(phrase) > 20 {
		score += 0.2
	} else if len(phrase) > 10 {
		score += 0.1
	}

	if cat == models.KeywordCatalyst {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// CalculateSentimentScore is the signed keyword evidence: sum of positive
// match scores minus sum of negative match scores. Deliberately not
// normalized, so keyword-dense articles carry larger magnitude.
func (a *KeywordAnalyzer) CalculateSentimentScore(positive, negative []models.KeywordMatch) float64 {
	var score float64
	for _, m := range positive {
		score += m.Score
	}
	for _, m := range negative {
		score -= m.Score
	}
	return score
}

// CalculateRelevanceScore estimates how much the text concerns actionable
// financial information: average match strength plus quantity and catalyst
// bonuses, clamped to 1.0. No keywords at all means zero relevance.
func (a *KeywordAnalyzer) CalculateRelevanceScore(positive, negative, catalyst []models.KeywordMatch) float64 {
	total := len(positive) + len(negative) + len(catalyst)
	if total == 0 {
		return 0
	}

	var sum float64
	for _, m := range positive {
		sum += m.Score
	}
	for _, m := range negative {
		sum += m.Score
	}
	for _, m := range catalyst {
		sum += m.Score
	}

	avgStrength := sum / float64(total)
	quantityBonus := float64(total) * 0.05
	if quantityBonus > 0.3 {
		quantityBonus = 0.3
	}
	catalystBonus := float64(len(catalyst)) * 0.1
	if catalystBonus > 0.2 {
		catalystBonus = 0.2
	}

	score := avgStrength + quantityBonus + catalystBonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ClassifyCategories maps matched positive and catalyst phrases to the fixed
// taxonomy via substring checks on the phrase itself. The result is
// deduplicated and ordered by taxonomy precedence so output is deterministic.
func (a *KeywordAnalyzer) ClassifyCategories(positive, catalyst []models.KeywordMatch) []string {
	seen := make(map[string]bool)
	for _, m := range append(append([]models.KeywordMatch{}, positive...), catalyst...) {
		phrase := strings.ToLower(m.Phrase)
		for _, rule := range categoryRules {
			if containsAny(phrase, rule.markers) {
				seen[rule.category] = true
				break
			}
		}
	}

	var out []string
	for _, rule := range categoryRules {
		if seen[rule.category] {
			out = append(out, rule.category)
		}
	}
	return out
}

// KeywordSummary is a per-text keyword digest used in reports and debugging.
type KeywordSummary struct {
	PositiveCount int
	NegativeCount int
	CatalystCount int
	TotalCount    int
	Sentiment     float64
	TopPositive   []models.KeywordMatch
	TopNegative   []models.KeywordMatch
	TopCatalyst   []models.KeywordMatch
	HasCatalyst   bool
	OverallTone   string
}

// Summarize produces a keyword digest for a piece of text.
func (a *KeywordAnalyzer) Summarize(text string) KeywordSummary {
	sets := a.ExtractKeywords(text)
	sentiment := a.CalculateSentimentScore(sets.Positive, sets.Negative)

	tone := "neutral"
	if sentiment > 0.1 {
		tone = "positive"
	} else if sentiment < -0.1 {
		tone = "negative"
	}

	return KeywordSummary{
		PositiveCount: len(sets.Positive),
		NegativeCount: len(sets.Negative),
		CatalystCount: len(sets.Catalyst),
		TotalCount:    sets.Total(),
		Sentiment:     sentiment,
		TopPositive:   topByScore(sets.Positive, 5),
		TopNegative:   topByScore(sets.Negative, 5),
		TopCatalyst:   topByScore(sets.Catalyst, 5),
		HasCatalyst:   len(sets.Catalyst) > 0,
		OverallTone:   tone,
	}
}

// IsHighImpact reports whether text looks like high-impact financial news:
// strong absolute sentiment, a catalyst phrase, or at least three
// sentiment-bearing keywords.
func (a *KeywordAnalyzer) IsHighImpact(text string) bool {
	sets := a.ExtractKeywords(text)
	sentiment := a.CalculateSentimentScore(sets.Positive, sets.Negative)
	if sentiment < 0 {
		sentiment = -sentiment
	}
	return sentiment > 0.3 || len(sets.Catalyst) > 0 || len(sets.Positive)+len(sets.Negative) >= 3
}

// IndustryRelevance scores text relevance per industry as the fraction of
// that industry's marker terms present.
func (a *KeywordAnalyzer) IndustryRelevance(text string) map[string]float64 {
	lowered := strings.ToLower(text)
	out := make(map[string]float64, len(a.industries))
	for industry, terms := range a.industries {
		hits := 0
		for _, t := range terms {
			if strings.Contains(lowered, strings.ToLower(t)) {
				hits++
			}
		}
		score := float64(hits) / float64(len(terms))
		if score > 1.0 {
			score = 1.0
		}
		out[industry] = score
	}
	return out
}

func topByScore(matches []models.KeywordMatch, n int) []models.KeywordMatch {
	sorted := append([]models.KeywordMatch{}, matches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
