package firehose

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

func newTestClient(size int) *Client {
	return New("ws://example.invalid", size, time.Second, time.Second, logger.Nop())
}

func TestMentionsFiltersByTermAndAge(t *testing.T) {
	c := newTestClient(10)
	now := time.Now().UTC()

	c.push(models.RawMention{Platform: platform, Text: "new coffee shop opening", Timestamp: now})
	c.push(models.RawMention{Platform: platform, Text: "something unrelated", Timestamp: now})
	c.push(models.RawMention{Platform: platform, Text: "coffee prices up", Timestamp: now.Add(-60 * 24 * time.Hour)})

	got, err := c.Mentions(context.Background(), "coffee austin", "month")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new coffee shop opening", got[0].Text)
}

func TestBufferWrapsAtCapacity(t *testing.T) {
	c := newTestClient(3)
	now := time.Now().UTC()

	for _, text := range []string{"alpha one", "alpha two", "alpha three", "alpha four"} {
		c.push(models.RawMention{Platform: platform, Text: text, Timestamp: now})
	}

	got, err := c.Mentions(context.Background(), "alpha", "month")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	texts := make([]string, len(got))
	for i, m := range got {
		texts[i] = m.Text
	}
	assert.NotContains(t, texts, "alpha one")
	assert.Contains(t, texts, "alpha four")
}

func TestNewDefaultsZeroIntervals(t *testing.T) {
	// a zero ping interval must not reach time.NewTicker in the ping loop
	c := New("ws://example.invalid", 0, 0, 0, logger.Nop())
	assert.Equal(t, 5*time.Second, c.reconnectDelay)
	assert.Equal(t, 30*time.Second, c.pingInterval)
	assert.Len(t, c.buf, 5000)
}

func TestMentionsEmptyQuery(t *testing.T) {
	c := newTestClient(3)
	got, err := c.Mentions(context.Background(), "  ", "month")
	require.NoError(t, err)
	assert.Nil(t, got)
}
