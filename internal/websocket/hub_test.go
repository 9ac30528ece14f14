package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func newClient(h *Hub, buf int) *Client {
	c := &Client{Hub: h, ID: uuid.New(), Send: make(chan []byte, buf)}
	h.register <- c
	return c
}

func receive(t *testing.T, c *Client) events.BaseEvent {
	t.Helper()
	select {
	case msg := <-c.Send:
		var ev events.BaseEvent
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return events.BaseEvent{}
	}
}

func TestHub_Broadcast(t *testing.T) {
	h := runHub(t)
	a := newClient(h, 4)
	b := newClient(h, 4)

	n, err := h.ClientCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, h.Publish(context.Background(), events.SpeciesClassified{
		SessionID: "121", Label: "Myotis myotis", ConfidencePercent: 92, OccurredAt: time.Now(),
	}))

	for _, c := range []*Client{a, b} {
		ev := receive(t, c)
		assert.Equal(t, events.TypeSpeciesClassified, ev.Type)
		assert.Equal(t, "Myotis myotis", ev.Data["label"])
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := runHub(t)
	slow := newClient(h, 0)
	fast := newClient(h, 4)

	require.NoError(t, h.Publish(context.Background(), events.SessionNotFound{FolderName: "X"}))
	receive(t, fast)

	n, err := h.ClientCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_Unregister(t *testing.T) {
	h := runHub(t)
	c := newClient(h, 1)
	h.unregister <- c

	n, err := h.ClientCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
