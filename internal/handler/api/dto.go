package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"MorningScan/internal/domain/models"
	"MorningScan/internal/usecase"
	xhttp "MorningScan/pkg/http"
)

// Response shapes for the scanner endpoints. Domain structs stay free of
// json tags; the wire format is decided here.

type SignalDTO struct {
	Family      string  `json:"family"`
	Kind        string  `json:"kind"`
	Strength    float64 `json:"strength"`
	Confidence  float64 `json:"confidence"`
	Timeframe   string  `json:"timeframe"`
	Explanation string  `json:"explanation"`
}

type ClassificationDTO struct {
	RelevanceScore    float64     `json:"relevance_score"`
	SentimentScore    float64     `json:"sentiment_score"`
	SentimentLabel    string      `json:"sentiment_label"`
	ImpactLevel       string      `json:"impact_level"`
	HasCatalyst       bool        `json:"has_catalyst"`
	Categories        []string    `json:"categories"`
	Summary           string      `json:"summary"`
	Signals           []SignalDTO `json:"signals"`
	AdvancedScore     float64     `json:"advanced_score"`
	RiskAdjustedScore float64     `json:"risk_adjusted_score"`
	SignalConfidence  float64     `json:"signal_confidence"`
	FinalScore        float64     `json:"final_score"`
	Recommendation    string      `json:"recommendation"`
	Timeframe         string      `json:"timeframe"`
	PositiveKeywords  int         `json:"positive_keywords"`
	NegativeKeywords  int         `json:"negative_keywords"`
	CatalystKeywords  int         `json:"catalyst_keywords"`
}

type ScoredArticleDTO struct {
	Rank           int               `json:"rank"`
	Title          string            `json:"title"`
	URL            string            `json:"url,omitempty"`
	Source         string            `json:"source,omitempty"`
	Company        string            `json:"company,omitempty"`
	Ticker         string            `json:"ticker,omitempty"`
	PublishedAt    *time.Time        `json:"published_at,omitempty"`
	Classification ClassificationDTO `json:"classification"`
}

type InsightsDTO struct {
	TotalItems          int            `json:"total_items"`
	StrongOpportunities int            `json:"strong_opportunities"`
	SignalsDetected     int            `json:"signals_detected"`
	CatalystCount       int            `json:"catalyst_count"`
	ImpactCounts        map[string]int `json:"impact_counts"`
	SentimentCounts     map[string]int `json:"sentiment_counts"`
	CategoryCounts      map[string]int `json:"category_counts"`
	SignalBreakdown     map[string]int `json:"signal_breakdown"`
	Insights            string         `json:"insights"`
}

type ScanResultDTO struct {
	Run           *ScanRunDTO        `json:"run,omitempty"`
	Opportunities []ScoredArticleDTO `json:"opportunities"`
	Insights      InsightsDTO        `json:"insights"`
}

type PickDTO struct {
	Timestamp      time.Time `json:"timestamp"`
	Title          string    `json:"title"`
	URL            string    `json:"url,omitempty"`
	Source         string    `json:"source"`
	Ticker         string    `json:"ticker,omitempty"`
	RelevanceScore float64   `json:"relevance_score"`
	SentimentScore float64   `json:"sentiment_score"`
	FinalScore     float64   `json:"final_score"`
	ImpactLevel    string    `json:"impact_level"`
	Recommendation string    `json:"recommendation"`
	HasCatalyst    bool      `json:"has_catalyst"`
	Categories     []string  `json:"categories"`
}

type InsightsResponse struct {
	Latest *InsightsDTO `json:"latest,omitempty"`
	Runs   []ScanRunDTO `json:"runs"`
}

type ScanRunDTO struct {
	RunAt               time.Time `json:"run_at"`
	Source              string    `json:"source"`
	TotalItems          int       `json:"total_items"`
	Opportunities       int       `json:"opportunities"`
	StrongOpportunities int       `json:"strong_opportunities"`
	CatalystCount       int       `json:"catalyst_count"`
	SignalsDetected     int       `json:"signals_detected"`
	FailedItems         int       `json:"failed_items"`
	DurationMS          int64     `json:"duration_ms"`
}

func classificationDTO(cls *models.Classification) ClassificationDTO {
	signals := make([]SignalDTO, 0, len(cls.Signals))
	for _, s := range cls.Signals {
		signals = append(signals, SignalDTO{
			Family:      string(s.Family),
			Kind:        s.Kind,
			Strength:    s.Strength,
			Confidence:  s.Confidence,
			Timeframe:   string(s.Timeframe),
			Explanation: s.Explanation,
		})
	}
	return ClassificationDTO{
		RelevanceScore:    cls.RelevanceScore,
		SentimentScore:    cls.SentimentScore,
		SentimentLabel:    cls.SentimentLabel,
		ImpactLevel:       string(cls.ImpactLevel),
		HasCatalyst:       cls.HasCatalyst,
		Categories:        cls.Categories,
		Summary:           cls.Summary,
		Signals:           signals,
		AdvancedScore:     cls.AdvancedScore,
		RiskAdjustedScore: cls.RiskAdjustedScore,
		SignalConfidence:  cls.SignalConfidence,
		FinalScore:        cls.FinalScore,
		Recommendation:    string(cls.Recommendation),
		Timeframe:         cls.Timeframe,
		PositiveKeywords:  len(cls.PositiveKeywords),
		NegativeKeywords:  len(cls.NegativeKeywords),
		CatalystKeywords:  len(cls.CatalystKeywords),
	}
}

func scoredDTO(s *models.ScoredArticle) ScoredArticleDTO {
	dto := ScoredArticleDTO{
		Rank:           s.Rank,
		Title:          s.Article.Title,
		URL:            s.Article.URL,
		Source:         s.Article.Source,
		Company:        s.Article.Company,
		Ticker:         s.Article.Ticker,
		Classification: classificationDTO(s.Classification),
	}
	if !s.Article.PublishedAt.IsZero() {
		t := s.Article.PublishedAt
		dto.PublishedAt = &t
	}
	return dto
}

func insightsDTO(s models.InsightSummary) InsightsDTO {
	impact := make(map[string]int, len(s.ImpactCounts))
	for k, v := range s.ImpactCounts {
		impact[string(k)] = v
	}
	families := make(map[string]int, len(s.SignalBreakdown))
	for k, v := range s.SignalBreakdown {
		families[string(k)] = v
	}
	return InsightsDTO{
		TotalItems:          s.TotalItems,
		StrongOpportunities: s.StrongOpportunities,
		SignalsDetected:     s.SignalsDetected,
		CatalystCount:       s.CatalystCount,
		ImpactCounts:        impact,
		SentimentCounts:     s.SentimentCounts,
		CategoryCounts:      s.CategoryCounts,
		SignalBreakdown:     families,
		Insights:            s.Insights,
	}
}

func batchDTO(res *usecase.ScanResult) ScanResultDTO {
	return scanResultDTO(res)
}

func scanResultDTO(res *usecase.ScanResult) ScanResultDTO {
	items := make([]ScoredArticleDTO, 0, len(res.Opportunities))
	for _, s := range res.Opportunities {
		items = append(items, scoredDTO(s))
	}
	dto := ScanResultDTO{Opportunities: items, Insights: insightsDTO(res.Insights)}
	if res.Run != nil {
		r := runDTO(res.Run)
		dto.Run = &r
	}
	return dto
}

func picksDTO(picks []*models.Pick) []PickDTO {
	out := make([]PickDTO, 0, len(picks))
	for _, p := range picks {
		out = append(out, PickDTO{
			Timestamp:      p.Timestamp,
			Title:          p.Title,
			URL:            p.URL,
			Source:         p.Source,
			Ticker:         p.Ticker,
			RelevanceScore: p.RelevanceScore,
			SentimentScore: p.SentimentScore,
			FinalScore:     p.FinalScore,
			ImpactLevel:    string(p.ImpactLevel),
			Recommendation: string(p.Recommendation),
			HasCatalyst:    p.HasCatalyst,
			Categories:     p.Categories,
		})
	}
	return out
}

func runDTO(r *models.ScanRun) ScanRunDTO {
	return ScanRunDTO{
		RunAt:               r.RunAt,
		Source:              r.Source,
		TotalItems:          r.TotalItems,
		Opportunities:       r.Opportunities,
		StrongOpportunities: r.StrongOpportunities,
		CatalystCount:       r.CatalystCount,
		SignalsDetected:     r.SignalsDetected,
		FailedItems:         r.FailedItems,
		DurationMS:          r.Duration.Milliseconds(),
	}
}

func runsDTO(runs []*models.ScanRun) []ScanRunDTO {
	out := make([]ScanRunDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, runDTO(r))
	}
	return out
}

const insightsCacheKey = "insights:latest"

func pickCacheKey(req *models.PicksRequest) string {
	return fmt.Sprintf("picks:%d:%.2f:%d", req.Limit, req.MinScore, req.Days)
}

// marshalEnvelope renders data the same way SuccessResponse would, so
// cached bytes replay byte-identical responses.
func marshalEnvelope(data interface{}) ([]byte, error) {
	return json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
}
