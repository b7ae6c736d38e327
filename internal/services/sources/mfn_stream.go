package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MorningScan/internal/domain/models"
	drepo "MorningScan/internal/domain/repository"
)

// MFNStream implements a NewsStream backed by the MFN press-release
// WebSocket feed. MFN pushes every Nordic regulatory release in realtime,
// which makes it the lowest-latency source the scanner has.
type MFNStream struct {
	websocketURL   string
	filter         string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewMFNStream creates a new MFN NewsStream. filter narrows the feed
// server-side (for example to Swedish-language releases).
func NewMFNStream(websocketURL, filter string, reconnectDelay, pingInterval time.Duration) drepo.NewsStream {
	return &MFNStream{
		websocketURL:   websocketURL,
		filter:         filter,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *MFNStream) Connect(ctx context.Context) error {
	u := s.websocketURL
	if s.filter != "" {
		u = fmt.Sprintf("%s?filter=%s", s.websocketURL, s.filter)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("mfn connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	log.Printf("mfn: connected")
	return nil
}

// Subscribe is a no-op: MFN streams everything matching the URL filter.
func (s *MFNStream) Subscribe(ctx context.Context) error {
	if s.current() == nil {
		return fmt.Errorf("mfn not connected")
	}
	return nil
}

func (s *MFNStream) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	return s.conn
}

type mfnAuthor struct {
	Name string `json:"name"`
}

type mfnContent struct {
	Title       string `json:"title"`
	Preamble    string `json:"preamble"`
	PublishDate string `json:"publish_date"`
}

type mfnItem struct {
	URL     string     `json:"url"`
	Author  mfnAuthor  `json:"author"`
	Content mfnContent `json:"content"`
}

type mfnMessage struct {
	Type string  `json:"type"`
	Item mfnItem `json:"data"`
}

// Read streams Article events and errors.
func (s *MFNStream) Read(ctx context.Context) (<-chan *models.Article, <-chan error) {
	articles := make(chan *models.Article, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if conn := s.current(); conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop; survives disconnects by redialing so the channels stay
	// live for the lifetime of ctx
	go func() {
		defer close(articles)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			conn := s.current()
			if conn == nil {
				if !s.redial(ctx) {
					return
				}
				continue
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				select {
				case errs <- fmt.Errorf("mfn read: %w", err):
				default:
				}
				if !s.redial(ctx) {
					return
				}
				continue
			}
			article, ok := decodeMFNFrame(b)
			if !ok {
				continue
			}
			select {
			case articles <- article:
			default:
				// drop on backpressure
			}
		}
	}()

	return articles, errs
}

// redial reconnects until it succeeds or ctx is cancelled. Returns false
// only on cancellation.
func (s *MFNStream) redial(ctx context.Context) bool {
	for {
		if err := s.Reconnect(ctx); err != nil {
			if ctx.Err() != nil {
				return false
			}
			continue
		}
		return true
	}
}

// decodeMFNFrame parses one feed frame into an Article. Heartbeats and
// frames without a title are skipped.
func decodeMFNFrame(b []byte) (*models.Article, bool) {
	var m mfnMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false
	}
	if m.Type != "item" {
		return nil, false
	}
	title := strings.TrimSpace(m.Item.Content.Title)
	if title == "" {
		return nil, false
	}

	published := time.Now()
	if m.Item.Content.PublishDate != "" {
		if ts, err := time.Parse(time.RFC3339, m.Item.Content.PublishDate); err == nil {
			published = ts
		}
	}

	return &models.Article{
		Title:       title,
		Snippet:     strings.TrimSpace(m.Item.Content.Preamble),
		URL:         m.Item.URL,
		Source:      "mfn.se",
		Company:     strings.TrimSpace(m.Item.Author.Name),
		PublishedAt: published,
	}, true
}

// Reconnect closes and reconnects, waiting out the configured delay.
func (s *MFNStream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.reconnectDelay):
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *MFNStream) Close() error {
	s.mu.Lock()
	s.connected = false
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *MFNStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
