// Package firehose maintains a streaming websocket feed of social mentions
// and keeps a bounded rolling buffer of the most recent ones. Sentiment
// queries sample the buffer instead of hitting the network.
package firehose

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

const platform = "social"

type Client struct {
	url            string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	buf       []models.RawMention
	next      int
	filled    bool
}

func New(url string, bufferSize int, reconnectDelay, pingInterval time.Duration, log *logger.Logger) *Client {
	if bufferSize <= 0 {
		bufferSize = 5000
	}
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Client{
		url:            url,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
		buf:            make([]models.RawMention, bufferSize),
	}
}

func (c *Client) Name() string { return platform }

// frame is one inbound message: a batch of mention events.
type frame struct {
	Type string `json:"type"`
	Data []struct {
		Text       string `json:"text"`
		Timestamp  int64  `json:"ts"` // ms
		Engagement int    `json:"engagement"`
	} `json:"data"`
}

// Run connects and keeps the stream alive until ctx is done, reconnecting
// after read failures. Intended to run as a background goroutine for the
// process lifetime.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.connect(ctx); err != nil {
			c.log.Warn("firehose connect failed", logger.Error(err))
		} else {
			c.readLoop(ctx)
		}

		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.log.Info("firehose connected", logger.String("url", c.url))
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	pingCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.pingLoop(pingCtx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			c.log.Warn("firehose read failed", logger.Error(err))
			c.markDisconnected()
			return
		}

		var f frame
		if err := json.Unmarshal(b, &f); err != nil {
			// ignore non-mention frames
			continue
		}
		if f.Type != "mention" {
			continue
		}
		for _, d := range f.Data {
			c.push(models.RawMention{
				Platform:   platform,
				Text:       d.Text,
				Timestamp:  time.UnixMilli(d.Timestamp).UTC(),
				Engagement: d.Engagement,
			})
		}
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (c *Client) push(m models.RawMention) {
	c.mu.Lock()
	c.buf[c.next] = m
	c.next++
	if c.next == len(c.buf) {
		c.next = 0
		c.filled = true
	}
	c.mu.Unlock()
}

// Mentions samples the rolling buffer for items mentioning any query term
// and not older than the timeframe cutoff. Never touches the network, never
// errors.
func (c *Client) Mentions(_ context.Context, query, timeframe string) ([]models.RawMention, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}
	cutoff := time.Now().Add(-timeframeWindow(timeframe))

	c.mu.RLock()
	defer c.mu.RUnlock()

	n := c.next
	if c.filled {
		n = len(c.buf)
	}

	var out []models.RawMention
	for i := 0; i < n; i++ {
		m := c.buf[i]
		if m.Timestamp.Before(cutoff) {
			continue
		}
		text := strings.ToLower(m.Text)
		for _, t := range terms {
			if strings.Contains(text, t) {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func timeframeWindow(timeframe string) time.Duration {
	switch timeframe {
	case "day", "24h":
		return 24 * time.Hour
	case "week", "7d":
		return 7 * 24 * time.Hour
	case "year", "12m":
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

func (c *Client) markDisconnected() {
	c.mu.Lock()
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// IsConnected indicates stream status.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close tears down the connection.
func (c *Client) Close() {
	c.markDisconnected()
}
