package models

// KeywordCategory identifies which lexicon a keyword match came from.
type KeywordCategory string

const (
	KeywordPositive KeywordCategory = "positive"
	KeywordNegative KeywordCategory = "negative"
	KeywordCatalyst KeywordCategory = "catalyst"
)

// KeywordMatch is one occurrence of a lexicon phrase in article text.
// Score is computed once at match time and never mutated afterwards.
type KeywordMatch struct {
	Phrase   string
	Category KeywordCategory
	Position int    // character offset of the match start
	Context  string // ±50 chars around the match, for auditing
	Score    float64
}

// SignalFamily is the rule family that produced a signal. It is stored
// explicitly on the signal rather than derived from the kind string.
type SignalFamily string

const (
	FamilyQuantitative SignalFamily = "quantitative"
	FamilyCompetitive  SignalFamily = "competitive"
	FamilyManagement   SignalFamily = "management"
	FamilyTiming       SignalFamily = "timing"
	FamilyTailwind     SignalFamily = "tailwind"
	FamilyValue        SignalFamily = "value"
	FamilyRisk         SignalFamily = "risk"
)

// Timeframe is the horizon a signal is expected to play out over.
type Timeframe string

const (
	TimeframeImmediate  Timeframe = "immediate"
	TimeframeShortTerm  Timeframe = "short-term"
	TimeframeMediumTerm Timeframe = "medium-term"
	TimeframeLongTerm   Timeframe = "long-term"
)

// Signal is one pattern-detected trading indicator. Negative strength
// marks a risk signal; only the risk family produces those.
type Signal struct {
	Family      SignalFamily
	Kind        string  // dotted subtype, e.g. "quantitative.revenue_growth"
	Strength    float64 // [-1, 1]
	Confidence  float64 // [0, 1], fixed per rule family
	Timeframe   Timeframe
	Explanation string
}

// AdvancedMetrics is the fused view over a signal list.
type AdvancedMetrics struct {
	AdvancedScore     float64
	Confidence        float64
	SignalCount       int
	RiskAdjustedScore float64
	RiskFactors       float64 // accumulated risk penalty
}

// ImpactLevel is the coarse market-significance estimate for an article.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Recommendation is the terminal trading call for an article.
type Recommendation string

const (
	RecStrongBuy  Recommendation = "STRONG BUY"
	RecBuy        Recommendation = "BUY"
	RecWatch      Recommendation = "WATCH"
	RecWeakSignal Recommendation = "WEAK SIGNAL"
	RecIgnore     Recommendation = "IGNORE"
)

// Classification is the immutable result of scoring one article.
// It is produced in a single shot; recomputation is the only update path.
type Classification struct {
	RelevanceScore float64
	SentimentScore float64
	SentimentLabel string
	ImpactLevel    ImpactLevel
	HasCatalyst    bool
	Categories     []string
	Summary        string

	Signals           []Signal
	AdvancedScore     float64
	RiskAdjustedScore float64
	SignalConfidence  float64

	FinalScore     float64
	Recommendation Recommendation
	Timeframe      string

	PositiveKeywords []KeywordMatch
	NegativeKeywords []KeywordMatch
	CatalystKeywords []KeywordMatch
}

// InsightSummary is a read-only aggregate over a batch of classifications.
// It is recomputed fully on each call and holds no state between calls.
type InsightSummary struct {
	TotalItems          int
	StrongOpportunities int // final score >= 0.6
	SignalsDetected     int
	CatalystCount       int
	ImpactCounts        map[ImpactLevel]int
	SentimentCounts     map[string]int
	CategoryCounts      map[string]int
	SignalBreakdown     map[SignalFamily]int
	Insights            string
}
