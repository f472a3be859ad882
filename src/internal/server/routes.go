package server

import (
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/clients"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupPublicRoutes(router, deps)
	setupRealtimeRoutes(router, deps)
	setupMessageRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	rabbitMQ := deps.RabbitMQ
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Info("Health check endpoint requested")

		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		rabbitStatus := "ok"
		if rabbitMQ.Conn.IsClosed() {
			rabbitStatus = "error: connection closed"
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"rabbitmq":  rabbitStatus,
			"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})

	router.GET("health/detailed", func(c *gin.Context) {
		log.Info("Detailed health check endpoint requested")

		c.JSON(200, gin.H{
			"status":  "operational",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"components": gin.H{
				"database": gin.H{
					"mongodb": getStatus(isMongoConnected(mongodb, c)),
					"redis":   getStatus(isRedisConnected(redisClient.Client, c)),
				},
				"messaging": gin.H{
					"rabbitmq": getStatus(!rabbitMQ.Conn.IsClosed()),
				},
				"realtime": gin.H{
					"online_users": deps.Registry.Count(),
				},
				"services": gin.H{
					"auth":     "operational",
					"cache":    "operational",
					"messages": "operational",
				},
			},
		})
	})
}

func setupPublicRoutes(router *gin.Engine, deps *dependency.Manager) {
	// API status endpoint
	router.GET("/api/v1/status", func(c *gin.Context) {
		log.Info("API status requested")
		c.JSON(200, gin.H{
			"api_version": "v1",
			"status":      "operational",
			"service":     deps.Config.App.Name,
		})
	})
}

func setupRealtimeRoutes(router *gin.Engine, deps *dependency.Manager) {
	handler := deps.RealtimeHandler
	authMiddleware := deps.AuthMiddleware

	// The websocket handshake authenticates itself via a token query
	// parameter, so no middleware here.
	router.GET("/ws",
		setRouteName("websocket"),
		handler.ServeWS)

	presence := router.Group("/api/v1/presence")
	{
		presence.GET("",
			setRouteName("getPresence"),
			authMiddleware.RequireAuth(),
			handler.GetPresence)

		presence.GET("/:id",
			setRouteName("getUserPresence"),
			authMiddleware.RequireAuth(),
			handler.GetUserPresence)
	}
}

func setupMessageRoutes(router *gin.Engine, deps *dependency.Manager) {
	handler := deps.MessageHandler
	authMiddleware := deps.AuthMiddleware

	// Apply route name FIRST, then auth middlewares
	messages := router.Group("/api/v1/messages")
	{
		messages.GET("/:peerId",
			setRouteName("getMessageHistory"),
			authMiddleware.RequireAuth(),
			handler.GetHistory)

		messages.PATCH("/:peerId/read",
			setRouteName("markConversationRead"),
			authMiddleware.RequireAuth(),
			handler.MarkRead)

		messages.DELETE("/:id",
			setRouteName("unsendMessage"),
			authMiddleware.RequireAuth(),
			handler.Unsend)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

func isMongoConnected(mongodb *clients.MongoDB, c *gin.Context) bool {
	if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
		return false
	}
	return true
}

func isRedisConnected(redisClient *redis.Client, c *gin.Context) bool {
	if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
		return false
	}
	return true
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
