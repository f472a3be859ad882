package dependency

import (
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/clients"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/cache"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/message"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/middleware"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/realtime"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router          *gin.Engine
	Config          *config.Configuration
	Mongodb         *clients.MongoDB
	Redis           *clients.RedisClient
	RabbitMQ        *clients.RabbitMQ
	AuthClient      *clients.AuthClient
	CacheService    cache.Service
	AuthMiddleware  *middleware.AuthMiddleware
	Registry        *realtime.Registry
	Tracker         *realtime.Tracker
	EventRouter     *realtime.Router
	RealtimeHandler realtime.Handler
	MessageService  message.Service
	MessageHandler  message.Handler
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	cacheService := cache.NewCacheService(redisClient.Client, cfg)
	authClient := clients.NewAuthClient(cfg)
	authMiddleware := middleware.NewAuthMiddleware(cfg, authClient, cacheService)

	messageRepo := message.NewMessageRepository(mongodb.Database, cfg)
	messageService := message.NewMessageService(messageRepo, cfg)
	messageHandler := message.NewMessageHandler(messageService, cfg)

	registry := realtime.NewRegistry()
	tracker := realtime.NewTracker(cfg.Realtime.DefaultActivity)
	eventRouter := realtime.NewRouter(registry, tracker, messageService, cacheService, rabbitMQ, cfg)
	realtimeHandler := realtime.NewRealtimeHandler(eventRouter, registry, tracker, cacheService, authMiddleware, cfg)

	return &Manager{
		Router:          router,
		Config:          cfg,
		Mongodb:         mongodb,
		Redis:           redisClient,
		RabbitMQ:        rabbitMQ,
		AuthClient:      authClient,
		CacheService:    cacheService,
		AuthMiddleware:  authMiddleware,
		Registry:        registry,
		Tracker:         tracker,
		EventRouter:     eventRouter,
		RealtimeHandler: realtimeHandler,
		MessageService:  messageService,
		MessageHandler:  messageHandler,
	}
}
