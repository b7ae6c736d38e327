package models

import "time"

// ScanRun is the persisted record of one completed scan: when it ran and
// what the batch looked like in aggregate.
type ScanRun struct {
	RunAt               time.Time
	Source              string // "scheduled", "api", "stream"
	TotalItems          int
	Opportunities       int
	StrongOpportunities int
	CatalystCount       int
	SignalsDetected     int
	FailedItems         int
	Duration            time.Duration
}
