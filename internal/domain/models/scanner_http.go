package models

// Requests for scanner HTTP endpoints. Defined in domain for consistency and reuse.

type ClassifyRequest struct {
	Title   string `json:"title" validate:"required,max=2000"`
	Content string `json:"content" validate:"max=200000"`
	Snippet string `json:"snippet" validate:"max=10000"`
}

type ClassifyBatchRequest struct {
	Items []ClassifyRequest `json:"items" validate:"required,min=1,max=500,dive"`
}

type PicksRequest struct {
	Limit    int     `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
	MinScore float64 `query:"min_score" json:"min_score" validate:"gte=0,lte=1"`
	Days     int     `query:"days" json:"days" default:"7" validate:"gte=1,lte=90"`
}

type ScanRequest struct {
	// MaxItems caps how many items each source may return for this run.
	MaxItems int `json:"max_items" default:"50" validate:"gte=1,lte=500"`
	// Async enqueues the scan instead of running it inline.
	Async bool `json:"async"`
}
