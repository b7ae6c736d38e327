package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MorningScan/internal/domain/models"
	domrepo "MorningScan/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, a *models.Article) (*models.ScoredArticle, error)
}

// IntakePipeline sits between the live news stream and the processor.
// It validates, throttles per source, optionally transforms, and buffers
// articles when the downstream backend is unavailable.
type IntakePipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.Article
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-source last accepted time
	// optional article transform hook
	transform func(*models.Article) *models.Article
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*IntakePipeline)

// WithMaxRPS sets the max accepted articles per second per source.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IntakePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IntakePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to normalize articles.
func WithTransform(fn func(*models.Article) *models.Article) PipelineOption {
	return func(p *IntakePipeline) { p.transform = fn }
}

// NewIntakePipeline creates a new pipeline.
func NewIntakePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IntakePipeline {
	p := &IntakePipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   10,  // press feeds rarely exceed a handful per second
		bufSize:  500, // default buffer
		bufCh:    make(chan *models.Article, 500),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Article, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(source string) { p.metrics.RecordError("pipeline_throttle_" + source) }
	return p
}

// Start launches background flushing of buffered articles.
func (p *IntakePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case a := <-p.bufCh:
				if a == nil {
					continue
				}
				if _, err := p.proc.Process(ctx, a); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- a:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IntakePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards an article downstream,
// buffering on errors.
func (p *IntakePipeline) Process(ctx context.Context, a *models.Article) error {
	start := time.Now()
	if err := validateArticle(a); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		a = p.transform(a)
		if err := validateArticle(a); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if !p.allow(a.Source, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(a.Source)
		}
		return nil
	}

	if _, err := p.proc.Process(ctx, a); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- a:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateArticle(a *models.Article) error {
	if a == nil {
		return fmt.Errorf("article nil")
	}
	if a.Title == "" {
		return fmt.Errorf("title empty")
	}
	if a.Source == "" {
		return fmt.Errorf("source empty")
	}
	return nil
}

func (p *IntakePipeline) allow(source string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// simple throttle: at most maxRPS accepted per second per source
	last := p.lastSeen[source]
	if last.IsZero() {
		p.lastSeen[source] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[source] = now
	return true
}
