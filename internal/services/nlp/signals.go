package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"MorningScan/internal/domain/models"
)

// Per-family confidence priors. Fixed by hand, not learned; they encode how
// reliable each rule family is judged to be. Tunable, not fundamental.
const (
	quantConfidence       = 0.8
	competitiveConfidence = 0.6
	managementConfidence  = 0.7
	timingConfidence      = 0.8
	tailwindConfidence    = 0.5
	valueConfidence       = 0.6
	riskConfidence        = 0.7
)

// quantMetric is one numeric threshold-gated metric: a signal fires only
// when an extracted value meets the threshold.
type quantMetric struct {
	subtype   string
	patterns  []*regexp.Regexp
	threshold float64
	weight    float64
}

// presenceRule is one boolean keyword-gated rule with a fixed strength.
type presenceRule struct {
	subtype  string
	terms    []string
	strength float64
}

// SignalDetector runs seven independent rule families over article text.
// Each family is stateless and order-independent relative to the others.
// The detector is immutable after construction and safe for concurrent use.
type SignalDetector struct {
	quant       []quantMetric
	competitive []presenceRule
	management  []presenceRule
	timing      []presenceRule
	tailwind    []presenceRule
	value       []presenceRule
	risk        []string
}

// NewSignalDetector compiles the pattern tables.
func NewSignalDetector() *SignalDetector {
	return &SignalDetector{
		quant: []quantMetric{
			{
				subtype: "revenue_growth",
				patterns: compileAll(
					`intäkter.*?(\d+).*?procent`,
					`omsättning.*?ökade.*?(\d+).*?%`,
					`försäljning.*?upp.*?(\d+).*?procent`,
					`rapporterar.*?(\d+)\s?%.*?tillväxt`,
					`revenue.*?grew.*?(\d+).*?%`,
				),
				threshold: 10, // 10%+ growth is significant
				weight:    0.8,
			},
			{
				subtype: "margin_improvement",
				patterns: compileAll(
					`marginal.*?förbättrades.*?(\d+)`,
					`lönsamhet.*?ökade.*?(\d+)`,
					`margin.*?improved.*?(\d+)`,
				),
				threshold: 2, // 2+ points of margin
				weight:    0.7,
			},
			{
				subtype: "large_contracts",
				patterns: compileAll(
					`kontrakt.*?värt.*?(\d+).*?miljard`,
					`order.*?(\d+).*?miljard`,
					`avtal.*?(\d+).*?miljard`,
				),
				threshold: 1, // 1+ billion SEK
				weight:    0.9,
			},
			{
				subtype: "market_share",
				patterns: compileAll(
					`marknadsandel.*?(\d+).*?procent`,
					`market.*?share.*?(\d+).*?%`,
				),
				threshold: 25, // 25%+ market share is strong
				weight:    0.6,
			},
		},
		competitive: []presenceRule{
			{subtype: "patents", terms: lowerAll("patent", "patentansökan", "immaterialrätt", "intellectual property", "tekniskt genombrott", "innovation", "forskningsresultat")},
			{subtype: "regulatory_moat", terms: lowerAll("regulatoriskt godkännande", "licens", "certifiering", "fda-godkännande", "ce-märkning", "regulatory approval", "compliance")},
			{subtype: "exclusive_deals", terms: lowerAll("exklusiv", "exclusive", "ensamrätt", "partnerskap", "strategiskt samarbete")},
			{subtype: "barriers_to_entry", terms: lowerAll("barriärer", "svår att kopiera", "unique", "unik position", "först i världen")},
		},
		management: []presenceRule{
			{subtype: "insider_buying", terms: lowerAll("vd köper aktier", "ledning köper", "insider buying", "management köp"), strength: 0.8},
			{subtype: "leadership_change", terms: lowerAll("ny vd", "new ceo", "ledningsbyte", "management change"), strength: 0.6},
			{subtype: "strategic_vision", terms: lowerAll("strategisk plan", "vision", "transformation", "omstrukturering"), strength: 0.5},
		},
		timing: []presenceRule{
			{subtype: "earnings_surprise", terms: lowerAll("överträffade förväntningarna", "beat expectations", "bättre än väntat"), strength: 0.9},
			{subtype: "guidance_raise", terms: lowerAll("höjer prognos", "raises guidance", "uppjusterar", "förbättrad prognos"), strength: 0.8},
			{subtype: "analyst_upgrades", terms: lowerAll("uppgraderad", "köpråd", "buy rating", "target price raised"), strength: 0.7},
			{subtype: "institutional_buying", terms: lowerAll("institutionella investerare", "institutional buying", "fonder köper"), strength: 0.6},
		},
		tailwind: []presenceRule{
			{subtype: "sector_rotation", terms: lowerAll("sektorrotation", "sector rotation", "branschtrend"), strength: 0.6},
			{subtype: "regulatory_tailwinds", terms: lowerAll("gynnsam reglering", "regulatory support", "statligt stöd"), strength: 0.6},
			{subtype: "demographic_trends", terms: lowerAll("demografisk trend", "aging population", "urbanisering"), strength: 0.6},
			{subtype: "technology_adoption", terms: lowerAll("teknisk adoption", "digital transformation", "ai adoption"), strength: 0.6},
		},
		value: []presenceRule{
			{subtype: "undervalued", terms: lowerAll("undervärderad", "undervalued", "lågt värderad", "rabatt"), strength: 0.7},
			{subtype: "asset_value", terms: lowerAll("tillgångsvärde", "asset value", "bokfört värde", "substansvärde"), strength: 0.6},
			{subtype: "cash_rich", terms: lowerAll("kassarik", "cash rich", "stark balansräkning", "skuldfri"), strength: 0.8},
		},
		risk: lowerAll(riskLexicon...),
	}
}

// Detect runs all rule families over the concatenated article text and
// returns every signal that fired. It is a pure function of its inputs.
func (d *SignalDetector) Detect(title, content, snippet string) []models.Signal {
	text := strings.ToLower(title + " " + content + " " + snippet)

	var signals []models.Signal
	signals = append(signals, d.detectQuantitative(text)...)
	signals = append(signals, d.detectCompetitive(text)...)
	signals = append(signals, d.detectManagement(text)...)
	signals = append(signals, d.detectTiming(text)...)
	signals = append(signals, d.detectTailwinds(text)...)
	signals = append(signals, d.detectValue(text)...)
	signals = append(signals, d.detectRisks(text)...)
	return signals
}

// detectQuantitative extracts numeric values near domain terms and fires a
// signal per match when the value meets the metric threshold. Matches whose
// captured group is not parseable are skipped; the scan continues.
func (d *SignalDetector) detectQuantitative(text string) []models.Signal {
	var signals []models.Signal
	for _, m := range d.quant {
		for _, re := range m.patterns {
			for _, groups := range re.FindAllStringSubmatch(text, -1) {
				if len(groups) < 2 {
					continue
				}
				value, err := strconv.ParseFloat(groups[1], 64)
				if err != nil {
					continue
				}
				if value < m.threshold {
					continue
				}
				strength := value / (m.threshold * 2)
				if strength > 1.0 {
					strength = 1.0
				}
				signals = append(signals, models.Signal{
					Family:      models.FamilyQuantitative,
					Kind:        "quantitative." + m.subtype,
					Strength:    strength * m.weight,
					Confidence:  quantConfidence,
					Timeframe:   models.TimeframeShortTerm,
					Explanation: fmt.Sprintf("%s: %.0f%%+ detected", humanize(m.subtype), value),
				})
			}
		}
	}
	return signals
}

// detectCompetitive fires at most one signal per sub-category; strength
// scales with how many of its terms appear, saturating at three.
func (d *SignalDetector) detectCompetitive(text string) []models.Signal {
	var signals []models.Signal
	for _, rule := range d.competitive {
		hits := 0
		for _, t := range rule.terms {
			if strings.Contains(text, t) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		strength := float64(hits) / 3
		if strength > 1.0 {
			strength = 1.0
		}
		signals = append(signals, models.Signal{
			Family:      models.FamilyCompetitive,
			Kind:        "competitive." + rule.subtype,
			Strength:    strength * 0.7,
			Confidence:  competitiveConfidence,
			Timeframe:   models.TimeframeLongTerm,
			Explanation: fmt.Sprintf("Competitive advantage: %s indicators found", humanize(rule.subtype)),
		})
	}
	return signals
}

func (d *SignalDetector) detectManagement(text string) []models.Signal {
	return detectPresence(text, d.management, models.FamilyManagement,
		managementConfidence, models.TimeframeMediumTerm, "Management signal")
}

func (d *SignalDetector) detectTiming(text string) []models.Signal {
	return detectPresence(text, d.timing, models.FamilyTiming,
		timingConfidence, models.TimeframeImmediate, "Timing signal")
}

func (d *SignalDetector) detectTailwinds(text string) []models.Signal {
	return detectPresence(text, d.tailwind, models.FamilyTailwind,
		tailwindConfidence, models.TimeframeLongTerm, "Tailwind")
}

func (d *SignalDetector) detectValue(text string) []models.Signal {
	return detectPresence(text, d.value, models.FamilyValue,
		valueConfidence, models.TimeframeMediumTerm, "Value signal")
}

// detectRisks counts hits across the flat risk list and emits a single
// signal with negative strength when any are present. This is the only
// family that can reduce the aggregate score.
func (d *SignalDetector) detectRisks(text string) []models.Signal {
	count := 0
	for _, t := range d.risk {
		if strings.Contains(text, t) {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	strength := float64(count) / 3
	if strength > 1.0 {
		strength = 1.0
	}
	return []models.Signal{{
		Family:      models.FamilyRisk,
		Kind:        "risk_factors",
		Strength:    -strength,
		Confidence:  riskConfidence,
		Timeframe:   models.TimeframeImmediate,
		Explanation: fmt.Sprintf("Risk factors detected: %d indicators", count),
	}}
}

func detectPresence(text string, rules []presenceRule, family models.SignalFamily,
	confidence float64, tf models.Timeframe, label string) []models.Signal {
	var signals []models.Signal
	for _, rule := range rules {
		if !textContainsAny(text, rule.terms) {
			continue
		}
		signals = append(signals, models.Signal{
			Family:      family,
			Kind:        string(family) + "." + rule.subtype,
			Strength:    rule.strength,
			Confidence:  confidence,
			Timeframe:   tf,
			Explanation: fmt.Sprintf("%s: %s", label, humanize(rule.subtype)),
		})
	}
	return signals
}

// CalculateAdvancedScore fuses a signal list into the advanced metrics.
// Positive signals enter a confidence-weighted average; risk signals are
// accumulated separately and subtracted as a penalty.
func (d *SignalDetector) CalculateAdvancedScore(signals []models.Signal) models.AdvancedMetrics {
	if len(signals) == 0 {
		return models.AdvancedMetrics{}
	}

	var weightedSum, totalWeight, riskPenalty, confidenceSum float64
	for _, s := range signals {
		confidenceSum += s.Confidence
		if s.Strength < 0 {
			riskPenalty += -s.Strength * s.Confidence
			continue
		}
		weightedSum += s.Strength * s.Confidence
		totalWeight += s.Confidence
	}

	var advanced float64
	if totalWeight > 0 {
		advanced = weightedSum / totalWeight
	}

	riskAdjusted := advanced - riskPenalty
	if riskAdjusted < 0 {
		riskAdjusted = 0
	}

	return models.AdvancedMetrics{
		AdvancedScore:     advanced,
		Confidence:        confidenceSum / float64(len(signals)),
		SignalCount:       len(signals),
		RiskAdjustedScore: riskAdjusted,
		RiskFactors:       riskPenalty,
	}
}

// signalFamilyOrder fixes the display order of families in summaries.
var signalFamilyOrder = []models.SignalFamily{
	models.FamilyQuantitative,
	models.FamilyTiming,
	models.FamilyCompetitive,
	models.FamilyManagement,
	models.FamilyTailwind,
	models.FamilyValue,
	models.FamilyRisk,
}

// SignalSummary renders a short per-family digest of strong signals.
func SignalSummary(signals []models.Signal) string {
	if len(signals) == 0 {
		return "No advanced signals detected"
	}

	strong := make(map[models.SignalFamily]int)
	for _, s := range signals {
		if s.Strength > 0.6 {
			strong[s.Family]++
		}
	}

	var parts []string
	for _, fam := range signalFamilyOrder {
		if n := strong[fam]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", titleCase(string(fam)), n))
		}
	}
	if len(parts) == 0 {
		return "Weak signals detected"
	}
	return strings.Join(parts, " | ")
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func lowerAll(terms ...string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

func textContainsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func humanize(subtype string) string {
	return strings.ReplaceAll(subtype, "_", " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
