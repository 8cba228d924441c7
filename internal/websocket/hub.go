package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"td-generator-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel  = "tdgen_workspace_events"
	broadcastTarget = "*"
)

// Hub fans workspace events out to the browsers that have the workspace open.
type Hub struct {
	// Registered clients: workspace ID -> connections (several tabs may share one)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis relays messages to the other instances; nil disables it.
	rdb      *redis.Client
	instance string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin      string          `json:"origin"`
	WorkspaceID string          `json:"workspace_id"`
	Message     json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instance:   uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.remove(client)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// remove closes the client's channel only if it is still registered, so a
// client unregistered twice is closed once.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.WorkspaceID]
	for i, c := range clients {
		if c != client {
			continue
		}
		h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
		close(client.Send)
		break
	}
	if len(h.clients[client.WorkspaceID]) == 0 {
		delete(h.clients, client.WorkspaceID)
		h.logger.Info("Hub", "Workspace has no more clients", map[string]interface{}{"workspace_id": client.WorkspaceID})
	}
}

// Publish delivers data to the local clients of the workspace and relays it
// to the other instances.
func (h *Hub) Publish(workspaceID string, data []byte) {
	h.deliver(workspaceID, data)
	h.relay(workspaceID, data)
}

func (h *Hub) relay(workspaceID string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{
		Origin:      h.instance,
		WorkspaceID: workspaceID,
		Message:     data,
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis relay failed", map[string]interface{}{"error": err.Error()})
	}
}

// Broadcast delivers data to every local client and relays it.
func (h *Hub) Broadcast(data []byte) {
	h.deliverAll(data)
	h.relay(broadcastTarget, data)
}

func (h *Hub) deliverAll(data []byte) {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.deliver(id, data)
	}
}

// ClientCount reports how many connections have the workspace open here.
func (h *Hub) ClientCount(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

func (h *Hub) deliver(workspaceID string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[workspaceID] {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"workspace_id": workspaceID})
		go func(c *Client) {
			select {
			case h.unregister <- c:
			case <-h.done:
			}
		}(client)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-h.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instance {
				continue
			}
			if payload.WorkspaceID == broadcastTarget {
				h.deliverAll(payload.Message)
				continue
			}
			h.deliver(payload.WorkspaceID, payload.Message)
		}
	}
}
