// Package ws streams battle events to browsers and feeds their input back.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"invasion/internal/app"
	"invasion/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 << 10
	sendBuffer     = 64
)

// Message types on the wire.
const (
	TypeEvent   = "event"
	TypeSound   = "sound"
	TypeAnswer  = "answer"
	TypeDismiss = "dismiss"
	TypeProceed = "proceed"
)

// Message is the envelope for both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// AnswerData is the payload of an "answer" message. A null answer passes.
type AnswerData struct {
	Player int           `json:"player"`
	Answer *domain.Value `json:"answer"`
}

// Controller receives player input. Implementations hop onto the battle's thread.
type Controller interface {
	Answer(player int, answer *domain.Value)
	DismissIntro()
	Proceed()
}

// Hub fans events out to every connected client.
type Hub struct {
	upgrader websocket.Upgrader
	ctrl     Controller
	logger   runtime.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a hub forwarding input to ctrl.
func NewHub(ctrl Controller, logger runtime.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		ctrl:     ctrl,
		logger:   logger,
		clients:  make(map[*client]struct{}),
	}
}

// Publish sends an event to every client. It never blocks on a slow client; a
// client whose buffer is full is dropped.
func (h *Hub) Publish(e app.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("Publish: encode %s: %v", e.Kind, err)
		return
	}
	msg, _ := json.Marshal(Message{Type: TypeEvent, Data: data})

	h.mu.Lock()
	h.last = msg
	h.mu.Unlock()
	h.broadcast(msg)
}

// Play implements ports.SoundPlayer by asking clients to play the sound.
func (h *Hub) Play(sound domain.Sound) {
	data, _ := json.Marshal(sound)
	msg, _ := json.Marshal(Message{Type: TypeSound, Data: data})
	h.broadcast(msg)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("broadcast: dropping slow client %s", c.conn.RemoteAddr())
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// ServeHTTP upgrades the request and replays the latest event to the new client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ServeHTTP: upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	h.logger.Info("ServeHTTP: client connected from %s", r.RemoteAddr)
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in Message
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("readPump: %v", err)
			}
			return
		}
		h.dispatch(in)
	}
}

func (h *Hub) dispatch(in Message) {
	switch in.Type {
	case TypeAnswer:
		var a AnswerData
		if err := json.Unmarshal(in.Data, &a); err != nil {
			h.logger.Warn("dispatch: bad answer payload: %v", err)
			return
		}
		h.ctrl.Answer(a.Player, a.Answer)
	case TypeDismiss:
		h.ctrl.DismissIntro()
	case TypeProceed:
		h.ctrl.Proceed()
	default:
		h.logger.Debug("dispatch: ignoring message type %q", in.Type)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
