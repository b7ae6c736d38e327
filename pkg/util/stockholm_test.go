package util

import (
    "testing"
    "time"
)

func TestNextRunSameDay(t *testing.T) {
    loc := StockholmLocation()
    now := time.Date(2026, 8, 28, 6, 0, 0, 0, loc)
    run := NextRun(now, 8, 30)
    want := time.Date(2026, 8, 28, 8, 30, 0, 0, loc)
    if !run.Equal(want) {
        t.Fatalf("next run %v, want %v", run, want)
    }
}

func TestNextRunRollsToTomorrow(t *testing.T) {
    loc := StockholmLocation()
    now := time.Date(2026, 8, 28, 9, 0, 0, 0, loc)
    run := NextRun(now, 8, 30)
    want := time.Date(2026, 8, 29, 8, 30, 0, 0, loc)
    if !run.Equal(want) {
        t.Fatalf("next run %v, want %v", run, want)
    }
}

func TestNextRunExactBoundary(t *testing.T) {
    loc := StockholmLocation()
    now := time.Date(2026, 8, 28, 8, 30, 0, 0, loc)
    run := NextRun(now, 8, 30)
    if !run.After(now) {
        t.Fatalf("run at the boundary must move to the next day, got %v", run)
    }
}

func TestIsTradingDay(t *testing.T) {
    loc := StockholmLocation()
    friday := time.Date(2026, 8, 28, 12, 0, 0, 0, loc)
    saturday := time.Date(2026, 8, 29, 12, 0, 0, 0, loc)
    if !IsTradingDay(friday) {
        t.Fatalf("friday should be a trading day")
    }
    if IsTradingDay(saturday) {
        t.Fatalf("saturday should not be a trading day")
    }
}

func TestDaysBack(t *testing.T) {
    from, to := DaysBack(7)
    if !to.After(from) {
        t.Fatalf("from %v not before to %v", from, to)
    }
    gap := to.Sub(from)
    if gap < 6*24*time.Hour || gap > 8*24*time.Hour {
        t.Fatalf("gap = %v, want about 7 days", gap)
    }

    from, to = DaysBack(0)
    if to.Sub(from) > 26*time.Hour {
        t.Fatalf("zero days should clamp to one day, got %v", to.Sub(from))
    }
}
