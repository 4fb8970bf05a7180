package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"datahub-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries pushes between instances so a user connected to
// another instance still receives them.
const ClusterChannel = "portal_cluster_events"

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type clusterMessage struct {
	TargetUserID string          `json:"target_user_id"`
	Origin       string          `json:"origin"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> connections (one per tab or device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// nil runs the hub single-instance
	rdb *redis.Client
	// instance id, used to skip our own cluster messages
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("HUB", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

// Notify pushes {type, data} to every connection of userID, here and on
// other instances.
func (h *Hub) Notify(userID uuid.UUID, messageType string, data any) {
	payload, err := json.Marshal(envelope{Type: messageType, Data: data})
	if err != nil {
		h.logger.Error("HUB", "Failed to encode push", map[string]interface{}{"error": err.Error(), "type": messageType})
		return
	}

	h.deliver(userID, payload)

	if h.rdb != nil {
		raw, _ := json.Marshal(clusterMessage{TargetUserID: userID.String(), Origin: h.origin, Message: payload})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, raw).Err(); err != nil {
			h.logger.Warn("HUB", "Failed to fan out push", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver writes to local connections. A full buffer means the client stopped
// reading; it is dropped. The read lock keeps remove from closing a channel
// mid-send.
func (h *Hub) deliver(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("HUB", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": userID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("HUB", "Cluster message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.origin {
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}
		h.deliver(uid, payload.Message)
	}
}
