// Package chat is the websocket chat transport. Customers connect to
// GET /ws/chat?sender=<phone> and exchange JSON text messages with the router.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeWait = 10 * time.Second

// ErrSenderOffline is returned by Send when the sender has no open connection.
var ErrSenderOffline = errors.New("sender has no open chat connection")

// Inbound handles one text message from a sender.
type Inbound interface {
	Handle(ctx context.Context, sender, text string) error
}

// InboundMessage is what clients send.
type InboundMessage struct {
	Text string `json:"text"`
}

// OutboundMessage is what clients receive.
type OutboundMessage struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(msg OutboundMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Hub keeps the open connections per sender and delivers replies to them. A sender
// may have several connections; every one receives the reply.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[string]map[*client]struct{}
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]map[*client]struct{}),
		logger:  logger.With("component", "chat_hub"),
	}
}

// Send delivers text to every connection of sender.
func (h *Hub) Send(_ context.Context, sender, text string) error {
	targets := h.connections(sender)
	if len(targets) == 0 {
		return ErrSenderOffline
	}

	msg := OutboundMessage{Text: text, Timestamp: time.Now().UTC()}
	var errs []error
	for _, c := range targets {
		if err := c.write(msg); err != nil {
			h.remove(sender, c)
			_ = c.conn.Close()
			errs = append(errs, err)
		}
	}
	if len(errs) == len(targets) {
		return errors.Join(errs...)
	}
	return nil
}

// Handler upgrades the request and feeds every message to inbound until the client
// disconnects.
func (h *Hub) Handler(inbound Inbound) echo.HandlerFunc {
	return func(c echo.Context) error {
		sender := strings.TrimSpace(c.QueryParam("sender"))
		if sender == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "sender is required")
		}

		conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// The upgrader already answered the request.
			h.logger.Warn("websocket upgrade failed", "sender", sender, "error", err)
			return nil
		}

		cl := &client{conn: conn}
		h.add(sender, cl)
		defer func() {
			h.remove(sender, cl)
			_ = conn.Close()
		}()

		ctx := c.Request().Context()
		h.logger.InfoContext(ctx, "chat connected", "sender", sender)
		for {
			var msg InboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.DebugContext(ctx, "chat read ended", "sender", sender, "error", err)
				}
				return nil
			}

			if err := inbound.Handle(ctx, sender, msg.Text); err != nil {
				h.logger.ErrorContext(ctx, "failed to handle chat message", "sender", sender, "error", err)
			}
		}
	}
}

// Connections reports the number of open connections of sender.
func (h *Hub) Connections(sender string) int {
	return len(h.connections(sender))
}

func (h *Hub) connections(sender string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*client, 0, len(h.clients[sender]))
	for c := range h.clients[sender] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) add(sender string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[sender] == nil {
		h.clients[sender] = make(map[*client]struct{})
	}
	h.clients[sender][c] = struct{}{}
}

func (h *Hub) remove(sender string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients[sender], c)
	if len(h.clients[sender]) == 0 {
		delete(h.clients, sender)
	}
}
