package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
)

const (
	// Maximum client messages accepted per second
	maxMessagesPerSecond = 10
)

// ClientMessage is sent by terminals to narrow the feed.
// An empty variant list subscribes to every variant again.
type ClientMessage struct {
	Type       string `json:"type"` // subscribe, unsubscribe
	VariantIDs []uint `json:"variant_ids"`
}

// StockEvent is the payload pushed for every committed movement
type StockEvent struct {
	Type        string               `json:"type"`
	MovementID  uint                 `json:"movement_id"`
	VariantID   uint                 `json:"variant_id"`
	Kind        model.AdjustmentKind `json:"kind"`
	KindLabel   string               `json:"kind_label"`
	Delta       int                  `json:"delta"`
	StockBefore int                  `json:"stock_before"`
	StockAfter  int                  `json:"stock_after"`
	Reason      string               `json:"reason"`
	UserID      *uint                `json:"user_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewStockEvent converts a ledger row into its feed payload
func NewStockEvent(m model.StockMovement) StockEvent {
	return StockEvent{
		Type:        "stock_movement",
		MovementID:  m.ID,
		VariantID:   m.VariantID,
		Kind:        m.Kind,
		KindLabel:   m.Kind.Label(),
		Delta:       m.Delta,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}

// Client is one connected terminal
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte

	// variants the client follows; nil means all
	variants map[uint]bool
	mu       sync.RWMutex

	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

// NewClient prepares a client with a buffered send queue
func NewClient(hub *Hub, conn *Conn, userID uint, buffer int) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, buffer),
	}
}

// Follows reports whether the client wants events for variantID
func (c *Client) Follows(variantID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.variants == nil {
		return true
	}
	return c.variants[variantID]
}

func (c *Client) subscribe(ids []uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		c.variants = nil
		return
	}
	if c.variants == nil {
		c.variants = make(map[uint]bool, len(ids))
	}
	for _, id := range ids {
		c.variants[id] = true
	}
}

// unsubscribe drops ids from an explicit subscription. A client following
// every variant has no list to remove from, so it reports false and the
// client must subscribe to the variants it wants instead.
func (c *Client) unsubscribe(ids []uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.variants == nil {
		return false
	}
	for _, id := range ids {
		delete(c.variants, id)
	}
	return true
}

// stockBroadcast is one encoded event queued for delivery
type stockBroadcast struct {
	VariantID uint
	Message   []byte
}

// Hub fans committed stock movements out to connected clients
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *stockBroadcast

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *stockBroadcast, 1024),
	}
}

// Run dispatches registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Stock feed client registered", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			remaining := len(h.clients)
			h.mu.Unlock()
			logger.Info("Stock feed client unregistered", map[string]interface{}{
				"user_id":           client.UserID,
				"remaining_clients": remaining,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.Follows(message.VariantID) {
					continue
				}
				select {
				case client.Send <- message.Message:
				default:
					// slow consumer
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishMovements queues one event per movement. Events are dropped when
// the broadcast queue is full; the ledger stays the source of truth.
func (h *Hub) PublishMovements(movements []model.StockMovement) {
	for _, m := range movements {
		data, err := json.Marshal(NewStockEvent(m))
		if err != nil {
			logger.Error("Failed to marshal stock event", err, map[string]interface{}{
				"movement_id": m.ID,
			})
			continue
		}

		select {
		case h.broadcast <- &stockBroadcast{VariantID: m.VariantID, Message: data}:
		default:
			logger.Warn("Broadcast channel full, stock event dropped", map[string]interface{}{
				"movement_id": m.ID,
				"variant_id":  m.VariantID,
			})
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage applies a subscription change sent by the client
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	switch msg.Type {
	case "subscribe":
		client.subscribe(msg.VariantIDs)
	case "unsubscribe":
		if !client.unsubscribe(msg.VariantIDs) {
			logger.Warn("Unsubscribe rejected, client follows all variants", map[string]interface{}{
				"user_id":     client.UserID,
				"variant_ids": msg.VariantIDs,
			})
		}
	default:
		logger.Warn("Unknown client message type", map[string]interface{}{
			"user_id": client.UserID,
			"type":    msg.Type,
		})
	}
}
