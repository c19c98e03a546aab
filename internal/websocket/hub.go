package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ClusterChannel = "cluster_events"

	clusterKindMessage    = "message"
	clusterKindDisconnect = "disconnect"
)

// clusterEnvelope is what instances exchange over redis. Origin lets an
// instance skip its own publications, which were already delivered locally.
type clusterEnvelope struct {
	Origin       string          `json:"origin"`
	Kind         string          `json:"kind"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message,omitempty"`
}

// Hub tracks live connections per user. Only the Run loop mutates the client
// map or closes a client's Send channel; senders hold the read lock, so a
// channel is never closed while someone is writing to it.
type Hub struct {
	// Registered clients: UserID -> set of clients (multi-device)
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	disconnect chan uuid.UUID
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication, may be nil
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		disconnect: make(chan uuid.UUID),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client map until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, set := range h.clients {
				for client := range set {
					close(client.Send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			close(h.done)
			metrics.LiveConnections.Set(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			metrics.LiveConnections.Inc()
			h.logger.Info("WS", "Client registered", map[string]interface{}{"user_id": client.UserID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case userID := <-h.disconnect:
			h.mu.Lock()
			for client := range h.clients[userID] {
				h.removeLocked(client)
			}
			h.mu.Unlock()
			h.logger.Info("WS", "User disconnected", map[string]interface{}{"user_id": userID.String()})
		}
	}
}

// removeLocked is idempotent; a client already removed is ignored.
func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	metrics.LiveConnections.Dec()
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Send pushes an event to every connection of userID on every instance.
func (h *Hub) Send(userID uuid.UUID, eventType string, data interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		h.logger.Error("WS", "Failed to encode live event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(userID, message)
	h.publish(clusterEnvelope{
		Origin:       h.instanceID,
		Kind:         clusterKindMessage,
		TargetUserID: userID.String(),
		Message:      message,
	})
}

// Disconnect closes every connection of userID on every instance.
func (h *Hub) Disconnect(userID uuid.UUID) {
	h.disconnectLocal(userID)
	h.publish(clusterEnvelope{
		Origin:       h.instanceID,
		Kind:         clusterKindDisconnect,
		TargetUserID: userID.String(),
	})
}

// ClientCount reports local connections for userID.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) disconnectLocal(userID uuid.UUID) {
	select {
	case h.disconnect <- userID:
	case <-h.done:
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, message []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[userID] {
		select {
		case client.Send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("WS", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID.String()})
		go h.Unregister(client)
	}
}

func (h *Hub) publish(env clusterEnvelope) {
	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("WS", "Failed to publish cluster event", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterPayload([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterPayload(raw []byte) {
	var env clusterEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn("WS", "Cluster event parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if env.Origin == h.instanceID {
		return
	}

	userID, err := uuid.Parse(env.TargetUserID)
	if err != nil {
		return
	}

	switch env.Kind {
	case clusterKindMessage:
		h.deliverLocal(userID, env.Message)
	case clusterKindDisconnect:
		h.disconnectLocal(userID)
	}
}
