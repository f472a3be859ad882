package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/cache"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/middleware"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	ServeWS(c *gin.Context)
	GetPresence(c *gin.Context)
	GetUserPresence(c *gin.Context)
}

type realtimeHandler struct {
	router   *Router
	registry *Registry
	tracker  *Tracker
	cache    cache.Service
	auth     *middleware.AuthMiddleware
	upgrader websocket.Upgrader
	cfg      *config.Configuration
}

func NewRealtimeHandler(router *Router, registry *Registry, tracker *Tracker, cacheService cache.Service, auth *middleware.AuthMiddleware, cfg *config.Configuration) Handler {
	return &realtimeHandler{
		router:   router,
		registry: registry,
		tracker:  tracker,
		cache:    cacheService,
		auth:     auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		cfg: cfg,
	}
}

// ServeWS authenticates the handshake and hands the upgraded connection to
// its pump goroutines. The token rides in a query parameter since browser
// websocket clients cannot set headers. Binding happens later, when the
// client sends its user_connected event.
func (h *realtimeHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	claims, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		logrus.WithError(err).Warn("Rejected websocket handshake")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade connection")
		return
	}

	client := NewClient(conn, h.router, h.cfg.Realtime.SendBufferSize)

	logrus.WithFields(logrus.Fields{
		"user_id":       claims.UserID,
		"connection_id": client.ID(),
	}).Info("Websocket connection established")

	go client.WritePump()
	go client.ReadPump()
}

// GetPresence returns who is online right now and what they are doing.
func (h *realtimeHandler) GetPresence(c *gin.Context) {
	online := h.registry.Online()

	c.JSON(http.StatusOK, models.PresenceSnapshot{
		Count:      len(online),
		Online:     online,
		Activities: h.tracker.Labels(),
	})
}

// GetUserPresence returns one user's presence. Offline users get their
// last-seen timestamp when the record has not expired yet.
func (h *realtimeHandler) GetUserPresence(c *gin.Context) {
	userID := c.Param("id")

	presence := models.UserPresence{UserID: userID}

	if _, ok := h.registry.Lookup(userID); ok {
		presence.Online = true
		if label, ok := h.tracker.Get(userID); ok {
			presence.Activity = label
		}
		c.JSON(http.StatusOK, presence)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.cfg.App.Timeout)*time.Second)
	defer cancel()

	lastSeen, err := h.cache.GetLastSeen(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load last-seen timestamp")
	}
	presence.LastSeen = lastSeen

	c.JSON(http.StatusOK, presence)
}
