package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MorningScan/internal/domain/models"
	"MorningScan/internal/domain/repository"
	pkgkafka "MorningScan/pkg/kafka"
)

// pickSchema creates the picks history table. MergeTree ordered by day and
// score so the morning-report query reads one partition range.
const pickSchema = `CREATE TABLE IF NOT EXISTS %s (
    ts DateTime,
    title String,
    url String,
    source String,
    ticker String,
    relevance Float64,
    sentiment Float64,
    final_score Float64,
    impact LowCardinality(String),
    recommendation LowCardinality(String),
    has_catalyst UInt8,
    categories String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(ts)
ORDER BY (toDate(ts), final_score)`

// ClickHousePickStore implements PickStore for ClickHouse.
type ClickHousePickStore struct {
	db    *sql.DB
	table string
}

// NewClickHousePickStore creates ClickHouse pick storage.
func NewClickHousePickStore(db *sql.DB, table string) repository.PickStore {
	return &ClickHousePickStore{db: db, table: table}
}

// Init creates the picks table if missing.
func (s *ClickHousePickStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(pickSchema, s.table))
	if err != nil {
		return fmt.Errorf("init picks table: %w", err)
	}
	return nil
}

func (s *ClickHousePickStore) Store(ctx context.Context, p *models.Pick) error {
	return s.StoreBatch(ctx, []*models.Pick{p})
}

func (s *ClickHousePickStore) StoreBatch(ctx context.Context, picks []*models.Pick) error {
	if len(picks) == 0 {
		return nil
	}
	// Multi-row VALUES insert; a morning scan is at most a few hundred rows.
	values := make([]string, 0, len(picks))
	args := make([]interface{}, 0, len(picks)*12)
	for _, p := range picks {
		if p == nil || p.Title == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			p.Timestamp,
			p.Title,
			p.URL,
			p.Source,
			p.Ticker,
			p.RelevanceScore,
			p.SentimentScore,
			p.FinalScore,
			string(p.ImpactLevel),
			string(p.Recommendation),
			boolToUInt8(p.HasCatalyst),
			strings.Join(p.Categories, ";"),
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (ts, title, url, source, ticker, relevance, sentiment, final_score, impact, recommendation, has_catalyst, categories) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store picks: %w", err)
	}
	return nil
}

func (s *ClickHousePickStore) Query(ctx context.Context, minScore float64, from, to time.Time, limit int) ([]*models.Pick, error) {
	q := fmt.Sprintf("SELECT ts, title, url, source, ticker, relevance, sentiment, final_score, impact, recommendation, has_catalyst, categories FROM %s WHERE final_score >= ? AND ts >= ? AND ts <= ? ORDER BY final_score DESC, ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, minScore, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		var (
			p          models.Pick
			impact     string
			rec        string
			catalyst   uint8
			categories string
		)
		if err := rows.Scan(&p.Timestamp, &p.Title, &p.URL, &p.Source, &p.Ticker,
			&p.RelevanceScore, &p.SentimentScore, &p.FinalScore,
			&impact, &rec, &catalyst, &categories); err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		p.ImpactLevel = models.ImpactLevel(impact)
		p.Recommendation = models.Recommendation(rec)
		p.HasCatalyst = catalyst != 0
		if categories != "" {
			p.Categories = strings.Split(categories, ";")
		}
		picks = append(picks, &p)
	}
	return picks, rows.Err()
}

func (s *ClickHousePickStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHousePickStore) Close() error {
	return nil // pool managed by pkg/clickhouse
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// KafkaPickPublisher implements Publisher for Kafka.
type KafkaPickPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPickPublisher creates a Kafka pick publisher.
func NewKafkaPickPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPickPublisher{producer: producer, topic: topic}
}

func (p *KafkaPickPublisher) Publish(ctx context.Context, pick *models.Pick) error {
	return p.producer.Publish(ctx, p.topic, pickKey(pick), pickPayload(pick))
}

func (p *KafkaPickPublisher) PublishBatch(ctx context.Context, picks []*models.Pick) error {
	if len(picks) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(picks))
	for i, pick := range picks {
		msgs[i] = pkgkafka.Message{
			Key:   pickKey(pick),
			Value: pickPayload(pick),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPickPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// pickKey partitions by ticker so one company's picks stay ordered.
// Tickerless picks share a partition keyed by source.
func pickKey(p *models.Pick) []byte {
	if p.Ticker != "" {
		return []byte(p.Ticker)
	}
	return []byte(p.Source)
}

func pickPayload(p *models.Pick) map[string]interface{} {
	return map[string]interface{}{
		"ts":             p.Timestamp.Unix(),
		"title":          p.Title,
		"url":            p.URL,
		"source":         p.Source,
		"ticker":         p.Ticker,
		"relevance":      p.RelevanceScore,
		"sentiment":      p.SentimentScore,
		"final_score":    p.FinalScore,
		"impact":         string(p.ImpactLevel),
		"recommendation": string(p.Recommendation),
		"has_catalyst":   p.HasCatalyst,
		"categories":     p.Categories,
	}
}
