package usecase

import (
	"context"

	applogger "MorningScan/pkg/logger"
	"MorningScan/pkg/queue"
)

const ScanJobType = "scan"

// ScanJobPayload is the queue payload for an async scan trigger.
type ScanJobPayload struct {
	MaxItems int    `json:"max_items"`
	Trigger  string `json:"trigger"`
}

// ScanJob runs a full scan from the Redis queue. It backs the async mode
// of the scan API endpoint.
type ScanJob struct {
	pipeline *ScanPipeline
	logger   *applogger.Logger
}

func NewScanJob(pipeline *ScanPipeline, logger *applogger.Logger) *ScanJob {
	return &ScanJob{pipeline: pipeline, logger: logger}
}

func (j *ScanJob) Name() string { return "scan_job" }

func (j *ScanJob) Type() string { return ScanJobType }

func (j *ScanJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ScanJobPayload](payload)
	if err != nil {
		return err
	}
	trigger := p.Trigger
	if trigger == "" {
		trigger = "api"
	}
	res, err := j.pipeline.Run(ctx, trigger, p.MaxItems)
	if err != nil {
		j.logger.Error("queued scan failed", applogger.Error(err))
		return err
	}
	j.logger.Info("queued scan done",
		applogger.Int("total", res.Run.TotalItems),
		applogger.Int("opportunities", res.Run.Opportunities))
	return nil
}
