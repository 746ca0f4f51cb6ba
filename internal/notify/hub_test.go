package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	r := gin.New()
	r.GET("/ws", WSHandler(hub))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return hub, conn
}

func TestHub_WelcomeAndBroadcast(t *testing.T) {
	hub, conn := dialTestHub(t)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"welcome"`)

	require.Eventually(t, func() bool { return hub.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.BroadcastJSON(NewRefreshEvent("21/06/2024", 5))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)

	var ev RefreshEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "editions.refreshed", ev.Type)
	assert.Equal(t, "21/06/2024", ev.Date)
	assert.Equal(t, 5, ev.Editions)
	assert.False(t, ev.At.IsZero())
}

func TestHub_ClientGoneIsRemoved(t *testing.T) {
	hub, conn := dialTestHub(t)

	require.Eventually(t, func() bool { return hub.Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithNoClients(t *testing.T) {
	hub := NewHub()
	hub.BroadcastJSON(NewRefreshEvent("21/06/2024", 0)) // must not panic
	assert.Equal(t, 0, hub.Count())
}
