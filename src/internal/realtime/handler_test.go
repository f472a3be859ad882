package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresenceRouter(fx *routerFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{}
	cfg.App.Timeout = 2
	cfg.Realtime.SendBufferSize = 16
	handler := NewRealtimeHandler(fx.router, fx.registry, fx.tracker, fx.cache, nil, cfg)

	router := gin.New()
	router.GET("/ws", handler.ServeWS)
	router.GET("/presence", handler.GetPresence)
	router.GET("/presence/:id", handler.GetUserPresence)
	return router
}

func TestGetPresenceSnapshot(t *testing.T) {
	fx := newRouterFixture()
	alice := newFakeConn("c1")
	fx.bind(t, alice, "alice")
	fx.inbound(t, alice, EventUpdateActivity, ActivityEntry{UserID: "alice", Activity: "Listening to Nightcall"})

	router := newPresenceRouter(fx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presence", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot models.PresenceSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 1, snapshot.Count)
	assert.Equal(t, []string{"alice"}, snapshot.Online)
	assert.Equal(t, map[string]string{"alice": "Listening to Nightcall"}, snapshot.Activities)
}

func TestGetUserPresenceOnline(t *testing.T) {
	fx := newRouterFixture()
	alice := newFakeConn("c1")
	fx.bind(t, alice, "alice")

	router := newPresenceRouter(fx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presence/alice", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var presence models.UserPresence
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presence))
	assert.True(t, presence.Online)
	assert.Equal(t, "Idle", presence.Activity)
	assert.Nil(t, presence.LastSeen)
}

func TestGetUserPresenceOfflineWithLastSeen(t *testing.T) {
	fx := newRouterFixture()
	alice := newFakeConn("c1")
	fx.bind(t, alice, "alice")
	fx.router.Disconnect(alice)

	router := newPresenceRouter(fx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presence/alice", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var presence models.UserPresence
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presence))
	assert.False(t, presence.Online)
	require.NotNil(t, presence.LastSeen)
	assert.False(t, presence.LastSeen.IsZero())
}

func TestGetUserPresenceUnknownUser(t *testing.T) {
	fx := newRouterFixture()

	router := newPresenceRouter(fx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presence/ghost", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var presence models.UserPresence
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presence))
	assert.False(t, presence.Online)
	assert.Nil(t, presence.LastSeen)
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	fx := newRouterFixture()

	router := newPresenceRouter(fx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
