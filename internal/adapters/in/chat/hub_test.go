package chat_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant/internal/adapters/in/chat"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoRouter answers every message through the hub, like the conversation router does.
type echoRouter struct {
	hub      *chat.Hub
	mu       sync.Mutex
	received []string
}

func (r *echoRouter) Handle(ctx context.Context, sender, text string) error {
	r.mu.Lock()
	r.received = append(r.received, sender+":"+text)
	r.mu.Unlock()
	return r.hub.Send(ctx, sender, "eco: "+text)
}

func newServer(t *testing.T) (*httptest.Server, *chat.Hub) {
	t.Helper()
	hub := chat.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := &echoRouter{hub: hub}

	e := echo.New()
	e.GET("/ws/chat", hub.Handler(router))

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server, hub
}

func dial(t *testing.T, server *httptest.Server, sender string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat?sender=" + sender
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_RoundTrip(t *testing.T) {
	server, _ := newServer(t)
	conn := dial(t, server, "11999990000")

	require.NoError(t, conn.WriteJSON(chat.InboundMessage{Text: "cardapio"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply chat.OutboundMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "eco: cardapio", reply.Text)
	assert.False(t, reply.Timestamp.IsZero())
}

func TestHub_RepliesOnlyToTheSender(t *testing.T) {
	server, hub := newServer(t)
	ana := dial(t, server, "ana")
	bia := dial(t, server, "bia")
	require.Eventually(t, func() bool {
		return hub.Connections("ana") == 1 && hub.Connections("bia") == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, ana.WriteJSON(chat.InboundMessage{Text: "oi"}))

	require.NoError(t, ana.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply chat.OutboundMessage
	require.NoError(t, ana.ReadJSON(&reply))
	assert.Equal(t, "eco: oi", reply.Text)

	require.NoError(t, bia.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	err := bia.ReadJSON(&reply)
	assert.Error(t, err, "another sender must not receive the reply")
}

func TestHub_MissingSender(t *testing.T) {
	server, _ := newServer(t)

	resp, err := http.Get(server.URL + "/ws/chat")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHub_SendToOfflineSender(t *testing.T) {
	hub := chat.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := hub.Send(t.Context(), "ninguem", "oi")

	assert.ErrorIs(t, err, chat.ErrSenderOffline)
}

func TestHub_DisconnectRemovesClient(t *testing.T) {
	server, hub := newServer(t)
	conn := dial(t, server, "ana")
	require.Eventually(t, func() bool { return hub.Connections("ana") == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = conn.Close()

	assert.Eventually(t, func() bool { return hub.Connections("ana") == 0 }, 5*time.Second, 10*time.Millisecond)
}
