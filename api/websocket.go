package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/internal/report"
	"github.com/seenimoa/stockgraph/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced on the HTTP routes
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Series can be long.
	maxMessageSize = 256 << 10
)

// ============================================================
// Messages
// ============================================================

// WSMessage is a message sent to WebSocket clients.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// wsRequest is a message received from a client. Data is decoded according
// to Type.
type wsRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SessionDrawing is the payload of "drawing" messages.
type SessionDrawing struct {
	Session string        `json:"session"`
	Drawing chart.Drawing `json:"drawing"`
	SVG     string        `json:"svg"`
}

type configurePayload struct {
	Kind   string  `json:"kind"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type pairsPayload struct {
	Opens  []float64 `json:"opens"`
	Closes []float64 `json:"closes"`
}

type rangePayload struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type sizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ============================================================
// Session
// ============================================================

// session is the server side of one WebSocket connection. It owns a single
// chart that the client mutates message by message.
type session struct {
	id     string
	chart  *chart.Chart
	width  float64
	height float64
}

func (s *Server) newSession() *session {
	def := s.chartDefaults()
	return &session{
		id:     uuid.NewString(),
		chart:  chart.New(models.KindLine, def.Style),
		width:  def.Width,
		height: def.Height,
	}
}

// handle applies one client message to the session. It returns the reply
// to send. A failed mutation leaves the chart unchanged.
func (s *Server) handle(sess *session, req wsRequest) WSMessage {
	s.metrics.Message(req.Type)

	var err error
	switch req.Type {
	case "ping":
		return WSMessage{Type: "pong"}

	case "configure":
		var p configurePayload
		if err = json.Unmarshal(req.Data, &p); err != nil {
			break
		}
		var kind models.Kind
		if kind, err = models.ParseKind(p.Kind); err != nil {
			break
		}
		sess.chart = chart.New(kind, sess.chart.Style())
		if p.Width > 0 {
			sess.width = p.Width
		}
		if p.Height > 0 {
			sess.height = p.Height
		}

	case "series":
		var values []float64
		if err = json.Unmarshal(req.Data, &values); err == nil {
			sess.chart.SetSeries(values)
		}

	case "pairs":
		var p pairsPayload
		if err = json.Unmarshal(req.Data, &p); err == nil {
			err = sess.chart.SetPairedSeries(p.Opens, p.Closes)
		}

	case "flat":
		var flat []float64
		if err = json.Unmarshal(req.Data, &flat); err == nil {
			err = sess.chart.SetFlatPairedSeries(flat)
		}

	case "range":
		var p rangePayload
		if err = json.Unmarshal(req.Data, &p); err == nil {
			sess.chart.SetRangeOverride(p.Min, p.Max)
		}

	case "baseline":
		var v float64
		if err = json.Unmarshal(req.Data, &v); err == nil {
			sess.chart.SetBaseline(v)
		}

	case "style":
		// Partial styles decode on top of the current one.
		style := sess.chart.Style()
		if err = json.Unmarshal(req.Data, &style); err != nil {
			break
		}
		if _, err = models.ParseLineMode(string(style.LineMode)); err == nil {
			sess.chart.SetStyle(style)
		}

	case "render":
		if len(req.Data) > 0 {
			var p sizePayload
			if err = json.Unmarshal(req.Data, &p); err != nil {
				break
			}
			if p.Width > 0 && p.Height > 0 {
				sess.width, sess.height = p.Width, p.Height
			}
		}

	default:
		err = fmt.Errorf("unknown message type %q", req.Type)
	}

	if err != nil {
		return WSMessage{Type: "error", Data: map[string]string{"message": err.Error(), "request": req.Type}}
	}
	return s.sessionDrawing(sess)
}

func (s *Server) sessionDrawing(sess *session) WSMessage {
	d := sess.chart.Render(sess.width, sess.height)
	s.metrics.Rendered(d.Kind, "ws")
	return WSMessage{
		Type: "drawing",
		Data: SessionDrawing{
			Session: sess.id,
			Drawing: d,
			SVG:     report.SVG(d, report.SVGOptions{Message: "No data"}),
		},
	}
}

// ============================================================
// Connection pumps
// ============================================================

// handleWebSocket upgrades HTTP connections to WebSocket and runs a render
// session over it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade error", zap.Error(err))
		return
	}

	sess := s.newSession()
	client := &WSClient{
		id:   sess.id,
		hub:  s.wsHub,
		send: make(chan WSMessage, 64),
	}
	s.wsHub.Register(client)
	s.metrics.SessionOpened()
	s.log.Debug("WebSocket session opened", zap.String("session", sess.id))

	client.trySend(WSMessage{Type: "session", Data: map[string]string{"id": sess.id}})

	go s.wsWritePump(conn, client)
	go s.wsReadPump(conn, client, sess)
}

// wsReadPump reads client messages and applies them to the session chart.
func (s *Server) wsReadPump(conn *websocket.Conn, client *WSClient, sess *session) {
	defer func() {
		client.hub.Unregister(client)
		s.metrics.SessionClosed()
		s.log.Debug("WebSocket session closed", zap.String("session", sess.id))
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("WebSocket read error", zap.String("session", sess.id), zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			client.trySend(WSMessage{Type: "error", Data: map[string]string{"message": "invalid JSON message"}})
			continue
		}
		if !client.trySend(s.handle(sess, req)) {
			return
		}
	}
}

// wsWritePump writes queued messages to the connection and keeps it alive
// with pings.
func (s *Server) wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSHub tracks live sessions and fans out server-wide notices such as
// changed chart defaults.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
	done       chan struct{}
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	id   string
	hub  *WSHub
	mu   sync.Mutex
	done bool
	send chan WSMessage
}

// trySend queues msg unless the client is closed or its buffer is full.
func (c *WSClient) trySend(msg WSMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close closes the send channel once.
func (c *WSClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		c.done = true
		close(c.send)
	}
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 16),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		done:       make(chan struct{}),
	}
}

// Run starts the hub event loop. It returns when ctx is cancelled, after
// which Register and Unregister no longer block.
func (h *WSHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.trySend(msg) {
					// Slow client; disconnect
					delete(h.clients, client)
					client.close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}
