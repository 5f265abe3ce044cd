package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks connected clients and fans messages out to them.
type Hub struct {
	clients     map[*Client]bool
	userClients map[uuid.UUID][]*Client

	Register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu     sync.RWMutex
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[uuid.UUID][]*Client),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 256),
		logger:      logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				peers := h.userClients[client.UserID]
				for i, c := range peers {
					if c == client {
						h.userClients[client.UserID] = append(peers[:i], peers[i+1:]...)
						break
					}
				}
				if len(h.userClients[client.UserID]) == 0 {
					delete(h.userClients, client.UserID)
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the frame rather than block the hub.
					h.logger.Warn("dropping websocket frame", zap.String("userID", client.UserID.String()))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a typed payload to every connected client.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(Envelope{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error("failed to marshal websocket envelope", zap.Error(err))
		return
	}
	h.broadcast <- data
}

// SendToUser delivers a typed payload to one user's open connections.
func (h *Hub) SendToUser(userID uuid.UUID, msgType string, payload interface{}) {
	data, err := json.Marshal(Envelope{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error("failed to marshal websocket envelope", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.userClients[userID] {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("dropping websocket frame", zap.String("userID", userID.String()))
		}
	}
}
