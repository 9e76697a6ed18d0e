package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Config describes how to reach the realtime AI endpoint.
type Config struct {
	URL    string
	APIKey string
	Model  string

	// LogTraffic wraps the transport in a pass-through logging
	// decorator at construction time.
	LogTraffic bool
}

// transport is the minimal write surface of the upstream socket, kept
// behind an interface so traffic logging can wrap it.
type transport interface {
	write(data []byte) error
}

type connTransport struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (t *connTransport) write(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

// loggingTransport logs outgoing event types and sizes, eliding audio
// payload bodies.
type loggingTransport struct {
	next   transport
	logger *zap.Logger
}

func (t *loggingTransport) write(data []byte) error {
	var peek struct {
		Type  string `json:"type"`
		Audio string `json:"audio"`
	}
	if err := json.Unmarshal(data, &peek); err == nil {
		if peek.Audio != "" {
			t.logger.Debug("OUT",
				zap.String("type", peek.Type),
				zap.Int("audio_bytes", len(peek.Audio)))
		} else {
			t.logger.Debug("OUT",
				zap.String("type", peek.Type),
				zap.Int("bytes", len(data)))
		}
	}
	return t.next.write(data)
}

// Client is one live upstream realtime session.
type Client struct {
	conn      *websocket.Conn
	send      transport
	logger    *zap.Logger
	logIn     bool
	closeOnce sync.Once
}

// Dial establishes the upstream link. Failure is fatal for the owning
// connection; callers close the client socket and do not retry.
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	q := u.Query()
	q.Set("model", cfg.Model)
	u.RawQuery = q.Encode()

	header := http.Header{
		"Authorization": {"Bearer " + cfg.APIKey},
		"OpenAI-Beta":   {"realtime=v1"},
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial upstream: %w", err)
	}

	var send transport = &connTransport{conn: conn}
	if cfg.LogTraffic {
		send = &loggingTransport{next: send, logger: logger}
	}

	return &Client{
		conn:   conn,
		send:   send,
		logger: logger,
		logIn:  cfg.LogTraffic,
	}, nil
}

// Start launches the read loop. onEvent is invoked for every decoded
// event in arrival order; onClose fires exactly once when the link
// drops, with a nil error for a clean close.
func (c *Client) Start(onEvent func(Envelope), onClose func(error)) {
	go c.readLoop(onEvent, onClose)
}

func (c *Client) readLoop(onEvent func(Envelope), onClose func(error)) {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				onClose(nil)
			} else {
				onClose(err)
			}
			return
		}

		env, err := ParseEnvelope(msg)
		if err != nil {
			c.logger.Error("Skipping malformed upstream event", zap.Error(err))
			continue
		}

		if c.logIn && env.Type != EventResponseAudioDelta {
			c.logger.Debug("IN", zap.String("type", env.Type), zap.Int("bytes", len(msg)))
		}

		onEvent(env)
	}
}

// SendRaw forwards a client event verbatim.
func (c *Client) SendRaw(data []byte) error {
	return c.send.write(data)
}

// SendEvent marshals and sends a relay-originated protocol event.
func (c *Client) SendEvent(event map[string]any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal upstream event: %w", err)
	}
	return c.send.write(data)
}

// Close shuts the upstream socket down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
	})
}
