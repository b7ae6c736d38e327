package usecase

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	drepo "MorningScan/internal/domain/repository"
	pkgkafka "MorningScan/pkg/kafka"
	applogger "MorningScan/pkg/logger"
)

// ConsumerHook threads handling time through the article consumer and
// records failed messages against the scanner's error metrics.
type ConsumerHook struct {
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewConsumerHook(metrics drepo.Metrics, logger *applogger.Logger) *ConsumerHook {
	return &ConsumerHook{metrics: metrics, logger: logger}
}

func (h *ConsumerHook) BeforeHandle(ctx context.Context, topic string, km kafkago.Message, data []byte) (context.Context, kafkago.Message, []byte, error) {
	return pkgkafka.WithStartTime(ctx, time.Now()), km, data, nil
}

func (h *ConsumerHook) AfterHandle(ctx context.Context, topic string, km kafkago.Message, data []byte, err error) {
	if start, ok := ctx.Value(pkgkafka.CtxStartTime).(time.Time); ok {
		h.metrics.RecordLatency("consumer_handle", time.Since(start).Seconds())
	}
}

func (h *ConsumerHook) OnError(ctx context.Context, topic string, km kafkago.Message, data []byte, err error) {
	h.metrics.RecordError("consumer_handle")
	if h.logger != nil {
		h.logger.Warn("article message failed",
			applogger.String("topic", topic),
			applogger.Int("partition", km.Partition),
			applogger.Error(err))
	}
}
