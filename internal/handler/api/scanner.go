package api

import (
	"net/http"
	"time"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
	domsvc "MorningScan/internal/domain/service"
	icache "MorningScan/internal/service/cache"
	"MorningScan/internal/service/metrics"
	"MorningScan/internal/service/ratelimit"
	"MorningScan/internal/usecase"
	xhttp "MorningScan/pkg/http"
	applogger "MorningScan/pkg/logger"
	"MorningScan/pkg/util"

	"github.com/labstack/echo/v4"
)

// ScannerHandler exposes the scanner over HTTP following Clean Architecture.
type ScannerHandler struct {
	classifier domsvc.Classifier
	pipeline   *usecase.ScanPipeline
	picks      drepo.PickStore
	runs       drepo.ScanRunStore
	enqueue    func(msgType string, payload interface{}) error

	cache icache.BytesCache
	rl    *ratelimit.Limiter
	l     *applogger.Logger
}

func NewScannerHandler(
	classifier domsvc.Classifier,
	pipeline *usecase.ScanPipeline,
	picks drepo.PickStore,
	runs drepo.ScanRunStore,
) *ScannerHandler {
	metrics.Register()
	return &ScannerHandler{
		classifier: classifier,
		pipeline:   pipeline,
		picks:      picks,
		runs:       runs,
		rl:         ratelimit.New(),
	}
}

func (h *ScannerHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *ScannerHandler) SetLogger(l *applogger.Logger) { h.l = l }

// SetEnqueue wires the async scan path to the queue.
func (h *ScannerHandler) SetEnqueue(fn func(msgType string, payload interface{}) error) {
	h.enqueue = fn
}

func (h *ScannerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/classify", h.Classify)
	g.POST("/classify/batch", h.ClassifyBatch)
	g.GET("/picks", h.Picks)
	g.GET("/insights", h.Insights)
	g.POST("/scan", h.Scan)
	e.GET("/health", h.Health)
}

// Classify scores a single article without persisting anything.
func (h *ScannerHandler) Classify(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	}()

	req := &models.ClassifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":classify", 10, 5) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "too many requests", 429))
	}

	cls := h.classifier.Classify(req.Title, req.Content, req.Snippet)
	return xhttp.SuccessResponse(c, classificationDTO(&cls))
}

// ClassifyBatch scores a batch and returns the ranked opportunity subset
// plus an insight summary. Nothing is persisted.
func (h *ScannerHandler) ClassifyBatch(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues("classify_batch").Observe(time.Since(start).Seconds())
	}()

	req := &models.ClassifyBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":classify_batch", 4, 1) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "too many requests", 429))
	}

	res := h.pipeline.ClassifyBatch(req.Items)
	return xhttp.SuccessResponse(c, batchDTO(res))
}

// Picks returns stored picks ordered by final score.
func (h *ScannerHandler) Picks(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues("picks").Observe(time.Since(start).Seconds())
	}()

	req := &models.PicksRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := pickCacheKey(req)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			if h.l != nil {
				h.l.Warn("picks cache_get_error", applogger.Error(err))
			}
		} else if ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	from, to := util.DaysBack(req.Days)
	picks, err := h.picks.Query(c.Request().Context(), req.MinScore, from, to, req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues("picks").Inc()
		if h.l != nil {
			h.l.Error("picks query error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}

	body := picksDTO(picks)
	if h.cache != nil {
		if b, err := marshalEnvelope(body); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 30*time.Second); err != nil && h.l != nil {
				h.l.Warn("picks cache_set_error", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, body)
}

// Insights returns the recent scan run history.
func (h *ScannerHandler) Insights(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues("insights").Observe(time.Since(start).Seconds())
	}()

	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(insightsCacheKey); err == nil && ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	runs, err := h.runs.Recent(c.Request().Context(), 30)
	if err != nil {
		metrics.APIErrors.WithLabelValues("insights").Inc()
		if h.l != nil {
			h.l.Error("insights query error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}

	out := InsightsResponse{Runs: runsDTO(runs)}
	if last := h.pipeline.LastResult(); last != nil {
		latest := insightsDTO(last.Insights)
		out.Latest = &latest
	}
	if h.cache != nil {
		if b, err := marshalEnvelope(out); err == nil {
			if err := h.cache.SetBytes(insightsCacheKey, b, 30*time.Second); err != nil && h.l != nil {
				h.l.Warn("insights cache_set_error", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, out)
}

// Scan triggers a scan run, inline or queued.
func (h *ScannerHandler) Scan(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	}()

	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":scan", 2, 0.2) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("rate_limited", "", "too many requests", 429))
	}

	if req.Async {
		if h.enqueue == nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("async scans are not enabled"))
		}
		payload := usecase.ScanJobPayload{MaxItems: req.MaxItems, Trigger: "api"}
		if err := h.enqueue(usecase.ScanJobType, payload); err != nil {
			metrics.APIErrors.WithLabelValues("scan").Inc()
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, map[string]string{"status": "queued"})
	}

	res, err := h.pipeline.Run(c.Request().Context(), "api", req.MaxItems)
	if err != nil {
		metrics.APIErrors.WithLabelValues("scan").Inc()
		if h.l != nil {
			h.l.Error("scan run error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, scanResultDTO(res))
}

// Health reports liveness plus backend reachability.
func (h *ScannerHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.picks != nil {
		if err := h.picks.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["store"] = err.Error()
		}
	}
	return xhttp.SuccessResponse(c, status)
}
