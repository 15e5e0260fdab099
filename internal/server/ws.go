package server

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"daily-updates/internal/portal"
)

type client struct {
	conn    *websocket.Conn
	session *portal.Session

	writeMu sync.Mutex
}

func (c *client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub applies commands received over websockets and pushes the view
// back to the sender.
type Hub struct {
	app *portal.App

	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub creates a hub and subscribes it to the data load so connected
// clients receive the first render.
func NewHub(app *portal.App) *Hub {
	h := &Hub{
		app:     app,
		clients: make(map[*client]bool),
	}
	app.OnLoad(h.pushViews)
	return h
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ServeWS upgrades the request and serves commands until the client
// disconnects.
func (h *Hub) ServeWS(c *gin.Context) {
	id, _ := c.Cookie(sessionCookie)
	s, err := h.app.Session(id)
	if err != nil {
		log.Printf("ws: session error: %v", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	header := http.Header{}
	if s.ID != id {
		cookie := &http.Cookie{Name: sessionCookie, Value: s.ID, Path: "/", MaxAge: sessionCookieAge, HttpOnly: true}
		header.Add("Set-Cookie", cookie.String())
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		// the upgrader has already replied
		return
	}

	cl := &client{conn: conn, session: s}
	h.mu.Lock()
	h.clients[cl] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err := h.handleIncoming(cl, data); err != nil {
			log.Printf("ws: write failed: %v", err)
			return
		}
	}
}

func (h *Hub) handleIncoming(cl *client, data []byte) error {
	cmd, err := portal.DecodeCommand(data)
	if err != nil {
		if errors.Is(err, portal.ErrUnknownCommand) {
			return cl.write(map[string]any{"error": err.Error()})
		}
		return cl.write(map[string]any{"error": "invalid command"})
	}

	view, err := h.app.Dispatch(cl.session, cmd)
	if err != nil {
		log.Printf("ws: dispatch failed: %v", err)
		return cl.write(map[string]any{"error": "internal error"})
	}
	return cl.write(view)
}

// pushViews sends every connected client its post-load view.
func (h *Hub) pushViews() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		view, err := h.app.Dispatch(cl.session, portal.Refresh{})
		if err != nil {
			log.Printf("ws: refresh failed: %v", err)
			continue
		}
		if err := cl.write(view); err != nil {
			log.Printf("ws: push failed: %v", err)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
