package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"MorningScan/internal/domain/models"
)

var csvHeader = []string{
	"timestamp", "title", "url", "source", "ticker",
	"relevance", "sentiment", "final_score",
	"impact", "recommendation", "has_catalyst", "categories",
}

// CSVPickLog appends picks to a local CSV file, one row per pick. The log
// is the scanner's flat audit trail and survives restarts; the header is
// written once when the file is created.
type CSVPickLog struct {
	path string
	mu   sync.Mutex
}

func NewCSVPickLog(path string) *CSVPickLog {
	return &CSVPickLog{path: path}
}

// Append writes the picks to the log. Rows from one call are flushed
// together.
func (l *CSVPickLog) Append(picks []*models.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	writeHeader := false
	if info, err := os.Stat(l.path); err != nil || info.Size() == 0 {
		writeHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open pick log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write pick log header: %w", err)
		}
	}
	for _, p := range picks {
		if p == nil {
			continue
		}
		if err := w.Write(pickRow(p)); err != nil {
			return fmt.Errorf("write pick row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush pick log: %w", err)
	}
	return nil
}

func pickRow(p *models.Pick) []string {
	return []string{
		p.Timestamp.Format(time.RFC3339),
		p.Title,
		p.URL,
		p.Source,
		p.Ticker,
		strconv.FormatFloat(p.RelevanceScore, 'f', 4, 64),
		strconv.FormatFloat(p.SentimentScore, 'f', 4, 64),
		strconv.FormatFloat(p.FinalScore, 'f', 4, 64),
		string(p.ImpactLevel),
		string(p.Recommendation),
		strconv.FormatBool(p.HasCatalyst),
		strings.Join(p.Categories, ";"),
	}
}
