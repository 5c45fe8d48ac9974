// Package display pushes menu refresh events to the screens mounted at each
// stand. Displays hold a WebSocket open and re-fetch the menu whenever the
// stock layer reports that availability changed.
package display

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Displays connect from the local network
	},
}

// Event is the message pushed to connected displays.
type Event struct {
	Event   string `json:"event"`
	StandID uint   `json:"stand_id"`
}

// Hub tracks display connections per stand and broadcasts refresh events.
// It implements stock.ChangeListener.
type Hub struct {
	mu    sync.Mutex
	conns map[uint]map[*connection]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*connection]bool)}
}

// Serve upgrades the request to a WebSocket subscribed to one stand's menu
// events.
func (h *Hub) Serve(c *gin.Context, standID uint) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("display: failed to upgrade connection: %v", err)
		return
	}

	wc := &connection{
		conn:    conn,
		send:    make(chan []byte, 16),
		hub:     h,
		standID: standID,
	}
	h.register(wc)

	go wc.writePump()
	go wc.readPump()
}

// MenuAvailabilityChanged broadcasts a menu_updated event to every display
// watching one of the given stands.
func (h *Hub) MenuAvailabilityChanged(standIDs []uint) {
	for _, standID := range standIDs {
		payload, err := json.Marshal(Event{Event: "menu_updated", StandID: standID})
		if err != nil {
			continue
		}
		h.broadcast(standID, payload)
	}
}

// Watchers returns the number of displays connected for a stand.
func (h *Hub) Watchers(standID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[standID])
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c.standID] == nil {
		h.conns[c.standID] = make(map[*connection]bool)
	}
	h.conns[c.standID][c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.conns[c.standID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.conns, c.standID)
		}
	}
}

func (h *Hub) broadcast(standID uint, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns[standID] {
		select {
		case c.send <- payload:
		default:
			// Slow display; drop the event rather than block the caller.
		}
	}
}

// connection maintains one display's WebSocket.
type connection struct {
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	standID uint
}

// readPump drains inbound frames. Displays only listen; reading exists to
// process pongs and detect closed connections.
func (c *connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("display: websocket error: %v", err)
			}
			break
		}
	}
}

// writePump forwards events to the display and keeps the connection alive
// with periodic pings.
func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
