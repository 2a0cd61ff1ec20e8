package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/heima-panel/internal/gesture"
	"github.com/nerrad567/heima-panel/internal/infrastructure/config"
	"github.com/nerrad567/heima-panel/internal/infrastructure/logging"
	"github.com/nerrad567/heima-panel/internal/session"
)

// WebSocket constants.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeAttach      = "attach"
	WSTypeDetach      = "detach"
	WSTypePointer     = "pointer"
	WSTypeCarousel    = "carousel"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"

	// wsSendBufferSize is the per-client outbound message buffer size.
	wsSendBufferSize = 256
)

// Carousel actions.
const (
	CarouselAdvance = "advance"
	CarouselSelect  = "select"
	CarouselSettle  = "settle"
	CarouselResize  = "resize"
)

// WSMessage represents a message sent to/from a WebSocket client.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload is the payload for subscribe/unsubscribe messages.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// WSDevicePayload is the payload for attach/detach messages.
type WSDevicePayload struct {
	Device string `json:"device"`
}

// WSPointerPayload is one raw pointer event. T is an optional client clock
// reading in milliseconds; zero uses the server clock. Readings are mapped
// onto the server clock at the press, so a press may mix both.
type WSPointerPayload struct {
	Surface string  `json:"surface"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	T       int64   `json:"t,omitempty"`
	Source  string  `json:"source,omitempty"`
}

// WSCarouselPayload is a carousel command for a device card.
// Width and Height are only read by resize.
type WSCarouselPayload struct {
	Device    string  `json:"device"`
	Action    string  `json:"action"`
	Direction int     `json:"direction,omitempty"`
	Index     int     `json:"index,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

// Hub manages WebSocket connections and broadcasts events.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	clients map[*WSClient]struct{}
	mu      sync.RWMutex
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	subscriptions map[string]struct{}
	mu            sync.RWMutex
	session       *session.Session

	// clockSkew maps a surface to server time minus client time, taken at
	// the press. Only the read goroutine touches it.
	clockSkew map[string]time.Duration
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new WebSocket hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// Run starts the hub's main loop. It blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client to the hub.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", h.ClientCount())
}

// Unregister removes a client from the hub.
// Only the goroutine that successfully removes the client from the map
// closes the send channel, preventing double-close panics during shutdown.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("websocket client disconnected", "clients", h.ClientCount())
}

// Broadcast sends an event to all clients subscribed to the given channel.
// Lock ordering: hub lock is acquired first, then released before per-client
// subscription checks. This avoids holding both hub and client locks simultaneously.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := encodeEvent(channel, payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "error", err)
		return
	}

	// Snapshot client list under hub lock, then release before sending
	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	sentCount := 0
	for _, client := range clients {
		if client.isSubscribed(channel) {
			client.trySend(data)
			sentCount++
		}
	}
	if sentCount > 0 {
		h.logger.Debug("broadcast sent", "channel", channel, "recipients", sentCount)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

func encodeEvent(eventType string, payload any) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
}

// handleWebSocket upgrades the HTTP connection and starts a panel session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	client.session = session.New(s.home, client, s.sessOpts)
	client.session.SetLogger(s.logger.With("session", client.session.ID()))

	s.hub.Register(client)

	// Start read/write pumps
	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)
}

// SendEvent queues an event for the client. It never blocks.
func (c *WSClient) SendEvent(eventType string, payload any) {
	data, err := encodeEvent(eventType, payload)
	if err != nil {
		c.hub.logger.Error("failed to marshal session event", "event_type", eventType, "error", err)
		return
	}
	c.trySend(data)
}

// readPump reads messages from the WebSocket connection.
func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.session.Close()
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline (keeps connection alive
		// even if browser doesn't respond to protocol-level pings).
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		c.handleMessage(message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming WebSocket message.
func (c *WSClient) handleMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("", "invalid JSON message")
		return
	}

	switch msg.Type {
	case WSTypeSubscribe:
		c.handleSubscribe(msg)
	case WSTypeUnsubscribe:
		c.handleUnsubscribe(msg)
	case WSTypePing:
		c.sendResponse(msg.ID, WSTypePong, nil)
	case WSTypeAttach:
		c.handleAttach(msg)
	case WSTypeDetach:
		c.handleDetach(msg)
	case WSTypePointer:
		c.handlePointer(msg)
	case WSTypeCarousel:
		c.handleCarousel(msg)
	default:
		c.sendError(msg.ID, "unknown message type: "+msg.Type)
	}
}

// decodePayload re-decodes the generic payload into dst.
func decodePayload(msg WSMessage, dst any) error {
	payloadBytes, err := json.Marshal(msg.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(payloadBytes, dst)
}

// handleSubscribe adds channels to the client's subscription list.
func (c *WSClient) handleSubscribe(msg WSMessage) {
	var sub WSSubscribePayload
	if err := decodePayload(msg, &sub); err != nil {
		c.sendError(msg.ID, "invalid subscribe payload")
		return
	}

	c.mu.Lock()
	for _, ch := range sub.Channels {
		c.subscriptions[ch] = struct{}{}
	}
	c.mu.Unlock()

	c.hub.logger.Debug("websocket client subscribed", "channels", sub.Channels)

	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{
		"subscribed": sub.Channels,
	})
}

// handleUnsubscribe removes channels from the client's subscription list.
func (c *WSClient) handleUnsubscribe(msg WSMessage) {
	var sub WSSubscribePayload
	if err := decodePayload(msg, &sub); err != nil {
		c.sendError(msg.ID, "invalid unsubscribe payload")
		return
	}

	c.mu.Lock()
	for _, ch := range sub.Channels {
		delete(c.subscriptions, ch)
	}
	c.mu.Unlock()

	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{
		"unsubscribed": sub.Channels,
	})
}

// handleAttach mounts a device card on the client's session.
func (c *WSClient) handleAttach(msg WSMessage) {
	var p WSDevicePayload
	if err := decodePayload(msg, &p); err != nil || p.Device == "" {
		c.sendError(msg.ID, "invalid attach payload")
		return
	}
	if err := c.session.Attach(p.Device); err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}
	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{"attached": p.Device})
}

// handleDetach unmounts a device card.
func (c *WSClient) handleDetach(msg WSMessage) {
	var p WSDevicePayload
	if err := decodePayload(msg, &p); err != nil || p.Device == "" {
		c.sendError(msg.ID, "invalid detach payload")
		return
	}
	c.session.Detach(p.Device)
	c.sendResponse(msg.ID, WSTypeResponse, map[string]any{"detached": p.Device})
}

// handlePointer feeds a raw pointer event into the session. Successful
// events are not acknowledged; their effects arrive as events.
func (c *WSClient) handlePointer(msg WSMessage) {
	var p WSPointerPayload
	if err := decodePayload(msg, &p); err != nil {
		c.sendError(msg.ID, "invalid pointer payload")
		return
	}
	ev, err := c.pointerEvent(p, time.Now())
	if err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}
	if err := c.session.HandlePointer(p.Surface, ev); err != nil {
		c.sendError(msg.ID, err.Error())
	}
}

// pointerEvent converts a pointer payload received at now into a
// recognizer event on the server clock.
func (c *WSClient) pointerEvent(p WSPointerPayload, now time.Time) (gesture.Event, error) {
	kind, err := gesture.ParseKind(p.Kind)
	if err != nil {
		return gesture.Event{}, err
	}
	source, err := gesture.ParseSource(p.Source)
	if err != nil {
		return gesture.Event{}, err
	}
	if c.clockSkew == nil {
		c.clockSkew = make(map[string]time.Duration)
	}

	t := now
	if p.T > 0 {
		client := time.UnixMilli(p.T)
		skew, ok := c.clockSkew[p.Surface]
		if kind == gesture.KindDown || !ok {
			skew = now.Sub(client)
			c.clockSkew[p.Surface] = skew
		}
		t = client.Add(skew)
	} else if kind == gesture.KindDown {
		delete(c.clockSkew, p.Surface)
	}
	if kind == gesture.KindUp || kind == gesture.KindLeave {
		delete(c.clockSkew, p.Surface)
	}

	return gesture.Event{Kind: kind, Source: source, X: p.X, Y: p.Y, Time: t}, nil
}

// handleCarousel applies a carousel command to a device card.
func (c *WSClient) handleCarousel(msg WSMessage) {
	var p WSCarouselPayload
	if err := decodePayload(msg, &p); err != nil || p.Device == "" {
		c.sendError(msg.ID, "invalid carousel payload")
		return
	}

	var err error
	switch p.Action {
	case CarouselAdvance:
		err = c.session.Advance(p.Device, p.Direction)
	case CarouselSelect:
		err = c.session.Select(p.Device, p.Index)
	case CarouselSettle:
		err = c.session.Settle(p.Device)
	case CarouselResize:
		err = c.session.Resize(p.Device, p.Width, p.Height)
	default:
		err = fmt.Errorf("unknown carousel action: %q", p.Action)
	}
	if err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}
	if msg.ID != "" {
		c.sendResponse(msg.ID, WSTypeResponse, map[string]any{"device": p.Device, "action": p.Action})
	}
}

// trySend attempts to send data to the client's send channel.
// It silently handles closed channels (client disconnected during broadcast)
// and full buffers (slow client).
func (c *WSClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

// isSubscribed checks if the client is subscribed to a channel.
func (c *WSClient) isSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[channel]
	return ok
}

// sendResponse sends a response message to the client.
// Routes through trySend to safely handle closed channels during shutdown.
func (c *WSClient) sendResponse(id, msgType string, payload any) {
	msg := WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.trySend(data)
}

// sendError sends an error message to the client.
func (c *WSClient) sendError(id, message string) {
	c.sendResponse(id, WSTypeError, map[string]string{"message": message})
}
