package nlp

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"MorningScan/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	a := NewKeywordAnalyzer()

	for _, text := range []string{"", "   ", "\n\t"} {
		sets := a.ExtractKeywords(text)
		if sets.Total() != 0 {
			t.Fatalf("ExtractKeywords(%q) = %d matches, want 0", text, sets.Total())
		}
	}
}

func TestExtractKeywordsFindsPhrases(t *testing.T) {
	a := NewKeywordAnalyzer()

	sets := a.ExtractKeywords("Bolaget höjer prognos efter stark rapport")
	if len(sets.Positive) != 2 {
		t.Fatalf("positive matches = %d, want 2", len(sets.Positive))
	}
	if len(sets.Negative) != 0 || len(sets.Catalyst) != 0 {
		t.Fatalf("unexpected negative/catalyst matches: %d/%d",
			len(sets.Negative), len(sets.Catalyst))
	}

	phrases := map[string]bool{}
	for _, m := range sets.Positive {
		phrases[m.Phrase] = true
		if m.Category != models.KeywordPositive {
			t.Fatalf("match %q category = %q, want positive", m.Phrase, m.Category)
		}
	}
	if !phrases["höjer prognos"] || !phrases["stark rapport"] {
		t.Fatalf("matched phrases = %v, want höjer prognos and stark rapport", phrases)
	}
}

func TestExtractKeywordsCaseInsensitive(t *testing.T) {
	a := NewKeywordAnalyzer()

	sets := a.ExtractKeywords("BOLAGET HÖJER PROGNOS")
	if len(sets.Positive) != 1 {
		t.Fatalf("positive matches = %d, want 1", len(sets.Positive))
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	a := NewKeywordAnalyzer()
	text := "Bolaget höjer prognos efter stark rapport och säkrar finansiering"

	first := a.ExtractKeywords(text)
	second := a.ExtractKeywords(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ExtractKeywords not deterministic:\n%+v\nvs\n%+v", first, second)
	}
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name     string
		phrase   string
		position int
		textLen  int
		cat      models.KeywordCategory
		want     float64
	}{
		{"base only", "lanserar", 500, 1000, models.KeywordPositive, 0.5},
		{"early position", "lanserar", 0, 1000, models.KeywordPositive, 0.8},
		{"mid position", "lanserar", 200, 1000, models.KeywordPositive, 0.7},
		{"long phrase", "överträffar finansiella mål", 500, 1000, models.KeywordPositive, 0.7},
		{"medium phrase", "höjer prognos", 500, 1000, models.KeywordPositive, 0.6},
		{"catalyst bonus", "Q1", 500, 1000, models.KeywordCatalyst, 0.6},
		{"clamped at one", "kapitalmarknadsuppdatering", 0, 1000, models.KeywordCatalyst, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keywordScore(tt.phrase, tt.position, tt.textLen, tt.cat)
			if !almostEqual(got, tt.want) {
				t.Fatalf("keywordScore(%q, %d, %d, %s) = %v, want %v",
					tt.phrase, tt.position, tt.textLen, tt.cat, got, tt.want)
			}
		})
	}
}

func TestMatchScoresWithinBounds(t *testing.T) {
	a := NewKeywordAnalyzer()
	text := "Bolaget höjer prognos, säkrar finansiering och utfärdar vinstvarning. " +
		strings.Repeat("Rekordorder och kapitalmarknadsdag. ", 10)

	sets := a.ExtractKeywords(text)
	if sets.Total() == 0 {
		t.Fatalf("expected matches in fixture text")
	}
	for _, matches := range [][]models.KeywordMatch{sets.Positive, sets.Negative, sets.Catalyst} {
		for _, m := range matches {
			if m.Score < 0 || m.Score > 1 {
				t.Fatalf("match %q score %v out of [0, 1]", m.Phrase, m.Score)
			}
		}
	}
}

func TestCalculateSentimentScore(t *testing.T) {
	a := NewKeywordAnalyzer()

	pos := []models.KeywordMatch{{Score: 0.8}, {Score: 0.5}}
	neg := []models.KeywordMatch{{Score: 0.6}}
	if got := a.CalculateSentimentScore(pos, neg); !almostEqual(got, 0.7) {
		t.Fatalf("sentiment = %v, want 0.7", got)
	}
	if got := a.CalculateSentimentScore(nil, neg); !almostEqual(got, -0.6) {
		t.Fatalf("negative-only sentiment = %v, want -0.6", got)
	}
	if got := a.CalculateSentimentScore(nil, nil); got != 0 {
		t.Fatalf("empty sentiment = %v, want 0", got)
	}
}

func TestCalculateRelevanceScore(t *testing.T) {
	a := NewKeywordAnalyzer()

	if got := a.CalculateRelevanceScore(nil, nil, nil); got != 0 {
		t.Fatalf("relevance with no matches = %v, want 0", got)
	}

	pos := []models.KeywordMatch{{Score: 0.5}, {Score: 0.5}}
	cat := []models.KeywordMatch{{Score: 0.6}}
	// avg 0.5333 + quantity 0.15 + catalyst 0.1
	want := (0.5+0.5+0.6)/3 + 0.15 + 0.1
	if got := a.CalculateRelevanceScore(pos, nil, cat); !almostEqual(got, want) {
		t.Fatalf("relevance = %v, want %v", got, want)
	}

	// Many strong matches must still clamp to 1.
	var many []models.KeywordMatch
	for i := 0; i < 20; i++ {
		many = append(many, models.KeywordMatch{Score: 1.0})
	}
	if got := a.CalculateRelevanceScore(many, nil, many); got != 1.0 {
		t.Fatalf("relevance = %v, want clamp at 1.0", got)
	}
}

func TestRelevanceCatalystMonotonic(t *testing.T) {
	a := NewKeywordAnalyzer()

	pos := []models.KeywordMatch{{Score: 0.5}}
	without := a.CalculateRelevanceScore(pos, nil, nil)
	with := a.CalculateRelevanceScore(pos, nil, []models.KeywordMatch{{Score: 0.5}})
	if with <= without {
		t.Fatalf("relevance with catalyst (%v) should exceed without (%v)", with, without)
	}
}

func TestSentimentMonotonicWithExtraPositive(t *testing.T) {
	c := NewClassifier(NewKeywordAnalyzer(), NewSignalDetector())

	title := "Vinstvarning men bolaget höjer prognos"
	snippet := "stark efterfrågan under kvartalet"

	base := c.Classify(title, "", snippet)
	more := c.Classify(title, "", snippet+" och stark efterfrågan även i Norden")
	if more.SentimentScore < base.SentimentScore {
		t.Fatalf("sentiment dropped from %v to %v after repeating a positive phrase",
			base.SentimentScore, more.SentimentScore)
	}
}

func TestClassifyCategoriesOrderAndDedup(t *testing.T) {
	a := NewKeywordAnalyzer()

	pos := []models.KeywordMatch{
		{Phrase: "höjer prognos"}, // guidance
		{Phrase: "stororder"},     // orders
		{Phrase: "stark rapport"}, // earnings
		{Phrase: "rekordorder"},   // orders again, must dedup
	}
	got := a.ClassifyCategories(pos, nil)
	want := []string{"earnings", "orders", "guidance"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	a := NewKeywordAnalyzer()

	s := a.Summarize("Bolaget höjer prognos efter stark rapport")
	if s.PositiveCount != 2 || s.NegativeCount != 0 {
		t.Fatalf("counts = %d+/%d-, want 2+/0-", s.PositiveCount, s.NegativeCount)
	}
	if s.OverallTone != "positive" {
		t.Fatalf("tone = %q, want positive", s.OverallTone)
	}
	if len(s.TopPositive) > 5 {
		t.Fatalf("top positive holds %d entries, max 5", len(s.TopPositive))
	}

	s = a.Summarize("Bolaget utfärdar vinstvarning")
	if s.OverallTone != "negative" {
		t.Fatalf("tone = %q, want negative", s.OverallTone)
	}
	s = a.Summarize("Helt vanlig text utan innehåll")
	if s.OverallTone != "neutral" {
		t.Fatalf("tone = %q, want neutral", s.OverallTone)
	}
}

func TestIsHighImpact(t *testing.T) {
	a := NewKeywordAnalyzer()

	if !a.IsHighImpact("Bolaget säkrar finansiering inför produktionsstart") {
		t.Fatalf("catalyst text should be high impact")
	}
	if a.IsHighImpact("Vädret blev soligt under onsdagen") {
		t.Fatalf("bland text should not be high impact")
	}
}

func TestIndustryRelevance(t *testing.T) {
	a := NewKeywordAnalyzer()

	scores := a.IndustryRelevance("Satsning på AI och cybersäkerhet")
	if !almostEqual(scores["tech"], 2.0/9.0) {
		t.Fatalf("tech relevance = %v, want %v", scores["tech"], 2.0/9.0)
	}
	if scores["healthcare"] != 0 {
		t.Fatalf("healthcare relevance = %v, want 0", scores["healthcare"])
	}
	for industry, score := range scores {
		if score < 0 || score > 1 {
			t.Fatalf("%s relevance %v out of [0, 1]", industry, score)
		}
	}
}
