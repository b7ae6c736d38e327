package nlp

import (
	"reflect"
	"strings"
	"testing"

	"MorningScan/internal/domain/models"
)

func TestDetectRevenueGrowth(t *testing.T) {
	d := NewSignalDetector()

	signals := d.Detect("Ericsson rapporterar 25% tillväxt", "", "")
	if len(signals) != 1 {
		t.Fatalf("signals = %d, want 1: %+v", len(signals), signals)
	}
	s := signals[0]
	if s.Family != models.FamilyQuantitative || s.Kind != "quantitative.revenue_growth" {
		t.Fatalf("signal = %s/%s, want quantitative.revenue_growth", s.Family, s.Kind)
	}
	// 25% against threshold 10: saturated strength times metric weight.
	if !almostEqual(s.Strength, 0.8) {
		t.Fatalf("strength = %v, want 0.8", s.Strength)
	}
	if !almostEqual(s.Confidence, 0.8) {
		t.Fatalf("confidence = %v, want 0.8", s.Confidence)
	}
	if s.Timeframe != models.TimeframeShortTerm {
		t.Fatalf("timeframe = %s, want short-term", s.Timeframe)
	}
}

func TestDetectBelowThreshold(t *testing.T) {
	d := NewSignalDetector()

	if signals := d.Detect("Bolaget rapporterar 5% tillväxt", "", ""); len(signals) != 0 {
		t.Fatalf("5%% growth is below threshold, got %+v", signals)
	}
}

func TestDetectLargeContract(t *testing.T) {
	d := NewSignalDetector()

	signals := d.Detect("Bolaget vinner order på 3 miljarder kronor", "", "")
	if len(signals) != 1 {
		t.Fatalf("signals = %d, want 1: %+v", len(signals), signals)
	}
	s := signals[0]
	if s.Kind != "quantitative.large_contracts" {
		t.Fatalf("kind = %s, want quantitative.large_contracts", s.Kind)
	}
	if !almostEqual(s.Strength, 0.9) {
		t.Fatalf("strength = %v, want 0.9", s.Strength)
	}
}

func TestDetectTimingSignal(t *testing.T) {
	d := NewSignalDetector()

	signals := d.Detect("Bolaget överträffade förväntningarna", "", "")
	if len(signals) != 1 {
		t.Fatalf("signals = %d, want 1: %+v", len(signals), signals)
	}
	s := signals[0]
	if s.Family != models.FamilyTiming || s.Kind != "timing.earnings_surprise" {
		t.Fatalf("signal = %s/%s, want timing.earnings_surprise", s.Family, s.Kind)
	}
	if !almostEqual(s.Strength, 0.9) || s.Timeframe != models.TimeframeImmediate {
		t.Fatalf("strength/timeframe = %v/%s, want 0.9/immediate", s.Strength, s.Timeframe)
	}
}

func TestDetectCompetitiveSaturation(t *testing.T) {
	d := NewSignalDetector()

	// One patents term: one hit out of three possible.
	signals := d.Detect("Bolaget söker patent", "", "")
	if len(signals) != 1 {
		t.Fatalf("signals = %d, want 1: %+v", len(signals), signals)
	}
	if !almostEqual(signals[0].Strength, (1.0/3)*0.7) {
		t.Fatalf("strength = %v, want %v", signals[0].Strength, (1.0/3)*0.7)
	}

	// Three patents terms saturate the sub-category at strength 0.7.
	signals = d.Detect("Patent och innovation efter tekniskt genombrott", "", "")
	if len(signals) != 1 {
		t.Fatalf("signals = %d, want one merged patents signal: %+v", len(signals), signals)
	}
	if !almostEqual(signals[0].Strength, 0.7) {
		t.Fatalf("saturated strength = %v, want 0.7", signals[0].Strength)
	}
}

func TestDetectRisks(t *testing.T) {
	d := NewSignalDetector()

	signals := d.Detect("Bolaget får en varning om ökade skulder", "", "")
	if len(signals) != 1 {
		t.Fatalf("signals = %d, want 1: %+v", len(signals), signals)
	}
	s := signals[0]
	if s.Family != models.FamilyRisk {
		t.Fatalf("family = %s, want risk", s.Family)
	}
	if !almostEqual(s.Strength, -2.0/3) {
		t.Fatalf("strength = %v, want %v", s.Strength, -2.0/3)
	}
	if !almostEqual(s.Confidence, 0.7) {
		t.Fatalf("confidence = %v, want 0.7", s.Confidence)
	}
}

func TestDetectEmptyAndBlandText(t *testing.T) {
	d := NewSignalDetector()

	if signals := d.Detect("", "", ""); len(signals) != 0 {
		t.Fatalf("empty text produced signals: %+v", signals)
	}
	if signals := d.Detect("Solen sken över Stockholm i dag", "", ""); len(signals) != 0 {
		t.Fatalf("bland text produced signals: %+v", signals)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := NewSignalDetector()
	title := "Ericsson rapporterar 25% tillväxt och vinner order på 3 miljarder"

	first := d.Detect(title, "", "")
	second := d.Detect(title, "", "")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Detect not deterministic:\n%+v\nvs\n%+v", first, second)
	}
}

func TestDetectStrengthBounds(t *testing.T) {
	d := NewSignalDetector()
	text := "Rapporterar 900% tillväxt, order på 50 miljarder, patent, innovation, " +
		"överträffade förväntningarna, höjer prognos, undervärderad, kassarik, " +
		"varning förlust skulder stämning konkurrens"

	for _, s := range d.Detect(text, "", "") {
		if s.Strength < -1 || s.Strength > 1 {
			t.Fatalf("signal %s strength %v out of [-1, 1]", s.Kind, s.Strength)
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Fatalf("signal %s confidence %v out of [0, 1]", s.Kind, s.Confidence)
		}
	}
}

func TestCalculateAdvancedScoreEmpty(t *testing.T) {
	d := NewSignalDetector()

	m := d.CalculateAdvancedScore(nil)
	if m.AdvancedScore != 0 || m.RiskAdjustedScore != 0 || m.SignalCount != 0 {
		t.Fatalf("empty metrics = %+v, want zero value", m)
	}
}

func TestCalculateAdvancedScore(t *testing.T) {
	d := NewSignalDetector()

	signals := []models.Signal{
		{Family: models.FamilyQuantitative, Strength: 0.8, Confidence: 0.8},
		{Family: models.FamilyValue, Strength: 0.5, Confidence: 0.6},
		{Family: models.FamilyRisk, Strength: -0.6, Confidence: 0.7},
	}
	m := d.CalculateAdvancedScore(signals)

	wantAdvanced := (0.8*0.8 + 0.5*0.6) / (0.8 + 0.6)
	wantPenalty := 0.6 * 0.7
	if !almostEqual(m.AdvancedScore, wantAdvanced) {
		t.Fatalf("advanced = %v, want %v", m.AdvancedScore, wantAdvanced)
	}
	if !almostEqual(m.RiskFactors, wantPenalty) {
		t.Fatalf("risk factors = %v, want %v", m.RiskFactors, wantPenalty)
	}
	if !almostEqual(m.RiskAdjustedScore, wantAdvanced-wantPenalty) {
		t.Fatalf("risk adjusted = %v, want %v", m.RiskAdjustedScore, wantAdvanced-wantPenalty)
	}
	if !almostEqual(m.Confidence, (0.8+0.6+0.7)/3) {
		t.Fatalf("confidence = %v, want %v", m.Confidence, (0.8+0.6+0.7)/3)
	}
	if m.SignalCount != 3 {
		t.Fatalf("signal count = %d, want 3", m.SignalCount)
	}
}

func TestCalculateAdvancedScoreRiskFloor(t *testing.T) {
	d := NewSignalDetector()

	signals := []models.Signal{
		{Family: models.FamilyValue, Strength: 0.1, Confidence: 0.5},
		{Family: models.FamilyRisk, Strength: -1.0, Confidence: 0.7},
	}
	m := d.CalculateAdvancedScore(signals)
	if m.RiskAdjustedScore != 0 {
		t.Fatalf("risk adjusted = %v, want floor at 0", m.RiskAdjustedScore)
	}
	if m.RiskFactors <= 0 {
		t.Fatalf("risk factors = %v, want positive penalty", m.RiskFactors)
	}
}

func TestSignalSummary(t *testing.T) {
	if got := SignalSummary(nil); got != "No advanced signals detected" {
		t.Fatalf("empty summary = %q", got)
	}

	weak := []models.Signal{{Family: models.FamilyValue, Strength: 0.3}}
	if got := SignalSummary(weak); got != "Weak signals detected" {
		t.Fatalf("weak summary = %q", got)
	}

	strong := []models.Signal{
		{Family: models.FamilyTiming, Strength: 0.9},
		{Family: models.FamilyQuantitative, Strength: 0.8},
		{Family: models.FamilyQuantitative, Strength: 0.7},
	}
	got := SignalSummary(strong)
	if got != "Quantitative(2) | Timing(1)" {
		t.Fatalf("summary = %q, want %q", got, "Quantitative(2) | Timing(1)")
	}
	if strings.Contains(got, "Value") {
		t.Fatalf("summary mentions absent family: %q", got)
	}
}
