package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"datahub-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyDeliversToEveryConnectionOfUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	user := uuid.New()
	other := uuid.New()
	tabA := &Client{Hub: hub, UserID: user, Send: make(chan []byte, 1)}
	tabB := &Client{Hub: hub, UserID: user, Send: make(chan []byte, 1)}
	stranger := &Client{Hub: hub, UserID: other, Send: make(chan []byte, 1)}
	hub.register <- tabA
	hub.register <- tabB
	hub.register <- stranger

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[user]) == 2
	}, time.Second, 10*time.Millisecond)

	hub.Notify(user, "selection_reset", map[string]string{"nodeType": "sample"})

	for _, c := range []*Client{tabA, tabB} {
		select {
		case raw := <-c.Send:
			var got envelope
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, "selection_reset", got.Type)
		case <-time.After(time.Second):
			t.Fatal("push not delivered")
		}
	}
	assert.Empty(t, stranger.Send)
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}
