package usecase

import (
	"context"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
	mid "MorningScan/internal/middleware"
)

// ArticleCollector consumes the live news stream and feeds articles into
// the intake pipeline.
type ArticleCollector struct {
	stream  drepo.NewsStream
	proc    *ArticleProcessor
	metrics drepo.Metrics
	pipe    *mid.IntakePipeline
}

// NewArticleCollector creates a new ArticleCollector instance.
func NewArticleCollector(stream drepo.NewsStream, proc *ArticleProcessor, metrics drepo.Metrics, pipe *mid.IntakePipeline) *ArticleCollector {
	return &ArticleCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the news stream is connected.
func (c *ArticleCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *ArticleCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	artCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, artCh, errCh)
	return nil
}

// consume drains the stream channels until they close or ctx is done.
// Reconnection lives inside the stream, so a read error here is only
// recorded; the article channel keeps delivering across reconnects.
func (c *ArticleCollector) consume(ctx context.Context, artCh <-chan *models.Article, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				return
			}
			if err != nil {
				c.metrics.RecordError("stream")
			}
		case a, ok := <-artCh:
			if !ok {
				return
			}
			if a == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, a)
			} else {
				_, _ = c.proc.Process(ctx, a)
			}
		}
	}
}

func (c *ArticleCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying ArticleProcessor for lifecycle management.
func (c *ArticleCollector) Processor() *ArticleProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *ArticleCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
