package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cixi/storefront-backend/pkg/logger"
)

const sendBufferSize = 64

// Event is one catalog change pushed to listeners
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one connected catalog listener
type Client struct {
	Hub  *Hub
	Conn *Conn
	Send chan []byte
}

func NewClient(hub *Hub, conn *Conn) *Client {
	return &Client{
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
	}
}

// Hub fans catalog events out to every connected client.
// Run owns the client set; other goroutines talk to it through channels.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	// done is closed when Run stops; stopped is set under stopMu once no
	// Register call can still enqueue
	done    chan struct{}
	stopMu  sync.RWMutex
	stopped bool

	mu    sync.RWMutex
	count int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes hub traffic until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			close(h.done)
			h.stopMu.Lock()
			h.stopped = true
			h.stopMu.Unlock()
			h.drainRegistrations()
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount()
			logger.Info("Catalog listener connected", map[string]interface{}{
				"listeners": len(h.clients),
			})

		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
				logger.Info("Catalog listener disconnected", map[string]interface{}{
					"listeners": len(h.clients),
				})
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.remove(client)
					logger.Warn("Listener send buffer full, disconnecting", map[string]interface{}{
						"listeners": len(h.clients),
					})
				}
			}
		}
	}
}

// drainRegistrations closes clients that were queued but never admitted
func (h *Hub) drainRegistrations() {
	for {
		select {
		case client := <-h.register:
			close(client.Send)
		default:
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

// Publish queues an event for every listener. It never blocks; when the
// broadcast queue is full the event is dropped.
func (h *Hub) Publish(eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		logger.Error("Failed to marshal catalog event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": eventType,
		})
	}
}

// Register admits client. After Run has returned the client's Send
// channel is closed instead, which ends its write pump.
func (h *Hub) Register(client *Client) {
	h.stopMu.RLock()
	defer h.stopMu.RUnlock()
	if h.stopped {
		close(client.Send)
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister never blocks once Run has returned
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount reports connected listeners as last seen by Run
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
