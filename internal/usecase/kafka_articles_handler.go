package usecase

import (
	"context"
	"encoding/json"
	"time"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
)

// rawArticle is the wire shape of articles consumed from Kafka.
type rawArticle struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Snippet     string `json:"snippet"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt int64  `json:"published_at"`
}

// KafkaArticlesHandler consumes raw articles from a Kafka topic and runs
// them through the scoring pipeline.
type KafkaArticlesHandler struct {
	topic   string
	proc    *ArticleProcessor
	metrics drepo.Metrics
}

func NewKafkaArticlesHandler(topic string, proc *ArticleProcessor, metrics drepo.Metrics) *KafkaArticlesHandler {
	return &KafkaArticlesHandler{topic: topic, proc: proc, metrics: metrics}
}

func (h *KafkaArticlesHandler) Topic() string { return h.topic }

func (h *KafkaArticlesHandler) Handle(ctx context.Context, value []byte) error {
	start := time.Now()

	var raw rawArticle
	if err := json.Unmarshal(value, &raw); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	published := time.Now()
	if raw.PublishedAt > 0 {
		published = time.Unix(raw.PublishedAt, 0)
	}
	source := raw.Source
	if source == "" {
		source = "kafka"
	}

	a := &models.Article{
		Title:       raw.Title,
		Content:     raw.Content,
		Snippet:     raw.Snippet,
		URL:         raw.URL,
		Source:      source,
		PublishedAt: published,
	}

	if _, err := h.proc.Process(ctx, a); err != nil {
		return err
	}

	h.metrics.RecordLatency("consume", time.Since(start).Seconds())
	return nil
}
