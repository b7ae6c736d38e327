package util

import (
    "sync"
    "time"
)

var (
    stockholmOnce sync.Once
    stockholmLoc  *time.Location
)

// StockholmLocation returns the Europe/Stockholm zone. Falls back to a
// fixed CET offset if the zone database is unavailable.
func StockholmLocation() *time.Location {
    stockholmOnce.Do(func() {
        loc, err := time.LoadLocation("Europe/Stockholm")
        if err != nil {
            loc = time.FixedZone("CET", 1*60*60)
        }
        stockholmLoc = loc
    })
    return stockholmLoc
}

// NowStockholm returns the current wall-clock time in Stockholm.
func NowStockholm() time.Time {
    return time.Now().In(StockholmLocation())
}

// NextRun returns the next occurrence of hh:mm Stockholm time after now.
// If today's slot has already passed, the run moves to tomorrow.
func NextRun(now time.Time, hour, minute int) time.Time {
    local := now.In(StockholmLocation())
    run := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, StockholmLocation())
    if !run.After(local) {
        run = run.AddDate(0, 0, 1)
    }
    return run
}

// IsTradingDay reports whether t falls on a Stockholm exchange weekday.
// Exchange holidays are not tracked; a holiday scan simply finds no news.
func IsTradingDay(t time.Time) bool {
    switch t.In(StockholmLocation()).Weekday() {
    case time.Saturday, time.Sunday:
        return false
    default:
        return true
    }
}
