// Package websocket connects devices to the interaction pipeline. Each
// client owns one interaction service; control messages start and stop
// interactions, binary frames carry audio in both directions.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aryasatya/momentum/domain/repositories"
	"github.com/aryasatya/momentum/internal/classify"
	"github.com/aryasatya/momentum/internal/response"
	"github.com/aryasatya/momentum/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Devices connect directly, not from browsers.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients and the shared collaborators each
// client's interaction service needs.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	classifier *classify.Classifier
	engine     *response.Engine
	habits     repositories.HabitRepository
	devices    repositories.DeviceRepository
	encourager repositories.Encourager
	speech     SpeechProvider

	logger *zap.Logger
}

// NewHub creates a WebSocket hub. encourager may be nil.
func NewHub(
	classifier *classify.Classifier,
	engine *response.Engine,
	habits repositories.HabitRepository,
	devices repositories.DeviceRepository,
	encourager repositories.Encourager,
	speech SpeechProvider,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		classifier: classifier,
		engine:     engine,
		habits:     habits,
		devices:    devices,
		encourager: encourager,
		speech:     speech,
		logger:     logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if existing, ok := h.clients[client.deviceID]; ok {
				existing.shutdown()
			}
			h.clients[client.deviceID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("deviceID", client.deviceID))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.deviceID]; ok && current == client {
				delete(h.clients, client.deviceID)
			}
			h.mu.Unlock()
			client.shutdown()
			h.logger.Info("Client unregistered", zap.String("deviceID", client.deviceID))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WriteData is one outbound websocket frame.
type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage.
	Type    int
	Payload []byte
}

// Client is a middleman between one websocket connection and its
// interaction service.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound frames.
	send chan WriteData

	deviceID string
	audio    *clientAudioSource
	service  *usecase.InteractionService
	done     chan struct{}

	logger *zap.Logger

	closeOnce sync.Once
}

// HandleWebSocket upgrades an authenticated request and wires a client to
// its own interaction service.
func HandleWebSocket(hub *Hub, c echo.Context, deviceID string, logger *zap.Logger) error {
	device, err := hub.devices.GetByID(c.Request().Context(), deviceID)
	if err != nil {
		logger.Warn("WebSocket rejected: unknown device", zap.String("deviceID", deviceID))
		return echo.NewHTTPError(http.StatusForbidden, "unknown device")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan WriteData, 256),
		deviceID: deviceID,
		audio:    newClientAudioSource(),
		done:     make(chan struct{}),
		logger:   logger.With(zap.String("deviceID", deviceID)),
	}

	speechIn, speechOut, err := hub.speech(client.audio, client)
	if err != nil {
		client.logger.Error("Failed to build speech adapters", zap.Error(err))
		conn.Close()
		return err
	}

	client.service = usecase.NewInteractionService(
		usecase.InteractionConfig{HabitID: device.HabitID, HabitName: device.HabitName},
		speechIn,
		speechOut,
		hub.habits,
		hub.classifier,
		hub.engine,
		hub.encourager,
		client.logger,
	)

	client.hub.register <- client

	go client.relayEvents()
	go client.writePump()
	go client.readPump()

	return nil
}

// WriteAudio forwards synthesized audio to the device as a binary frame.
func (c *Client) WriteAudio(chunk []byte) error {
	select {
	case c.send <- WriteData{Type: websocket.BinaryMessage, Payload: chunk}:
		return nil
	case <-c.done:
		return fmt.Errorf("client disconnected")
	}
}

// shutdown stops the interaction service and releases the client's
// resources. Idempotent.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.service.Stop(ctx); err != nil {
			c.logger.Warn("Failed to stop interaction service", zap.Error(err))
		}
		c.audio.Close()
		close(c.done)
	})
}

// readPump pumps frames from the websocket connection into the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processAudioChunk(message)
		default:
			c.logger.Warn("Received unknown frame type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps outbound frames to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage dispatches one control message from the device.
func (c *Client) processMessage(message []byte) {
	messageType, err := ParseMessageType(message)
	if err != nil {
		c.logger.Warn("Invalid control message", zap.Error(err))
		c.sendJSON(NewErrorMessage("invalid_message", err.Error()))
		return
	}

	switch messageType {
	case MessageTypeInteractionStart:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.service.Start(ctx); err != nil {
			c.logger.Warn("Failed to start interaction", zap.Error(err))
			c.sendJSON(NewErrorMessage("start_failed", err.Error()))
		}

	case MessageTypeInteractionStop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.service.Stop(ctx); err != nil {
			c.logger.Warn("Failed to stop interaction", zap.Error(err))
		}

	case MessageTypePing:
		c.sendJSON(NewPongMessage())
	}
}

// processAudioChunk forwards one binary audio frame to the speech input.
func (c *Client) processAudioChunk(data []byte) {
	if len(data) == 0 {
		return
	}
	if !c.audio.Push(data) {
		c.logger.Debug("Dropped audio chunk", zap.Int("size", len(data)))
	}
}

// relayEvents translates interaction service events into control messages.
func (c *Client) relayEvents() {
	events := c.service.Events()
	for {
		select {
		case <-c.done:
			return
		case event := <-events:
			switch event.Type {
			case usecase.EventStateChanged:
				c.sendJSON(NewStateMessage(string(event.State)))
			case usecase.EventResult:
				var commandType string
				var confidence float64
				if event.Command != nil {
					commandType = string(event.Command.Type)
					confidence = event.Command.Confidence
				}
				c.sendJSON(NewResultMessage(commandType, confidence, event.Response))
			case usecase.EventFailure:
				c.sendJSON(NewErrorMessage("interaction_failed", event.Err.Error()))
			}
		}
	}
}

func (c *Client) sendJSON(message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	select {
	case c.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	case <-c.done:
	default:
		c.logger.Warn("Dropped outbound message, send buffer full")
	}
}
