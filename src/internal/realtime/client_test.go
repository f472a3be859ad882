package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendDropsWhenBufferFull(t *testing.T) {
	client := NewClient(nil, nil, 1)

	require.NoError(t, client.Send("first", "x"))

	err := client.Send("second", "y")
	assert.ErrorIs(t, err, models.ErrSendBufferFull)
}

func TestClientPumpsDeliverEventsInOrder(t *testing.T) {
	fx := newRouterFixture()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, fx.router, 16)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	dial, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer dial.Close()

	raw, err := json.Marshal("alice")
	require.NoError(t, err)
	frame, err := json.Marshal(Envelope{Event: EventUserConnected, Data: raw})
	require.NoError(t, err)
	require.NoError(t, dial.WriteMessage(websocket.TextMessage, frame))

	// Binding replies with three events in a fixed order.
	for _, expected := range []string{EventUserConnected, EventUsersOnline, EventActivities} {
		dial.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := dial.ReadMessage()
		require.NoError(t, err)

		var env Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		assert.Equal(t, expected, env.Event)
	}
}
