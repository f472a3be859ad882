package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/clients"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

type Server struct {
	cfg  *config.Configuration
	deps *dependency.Manager
}

// New connects every backing service and assembles the dependency graph and
// routes. Connection failures are fatal: the service does not start degraded.
func New(cfg *config.Configuration) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	rabbitMQ, err := clients.NewRabbitMQ(&cfg.Queue)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to RabbitMQ")
	}
	if err := rabbitMQ.SetupQueue(); err != nil {
		log.WithError(err).Fatal("Failed to declare messaging topology")
	}

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, cfg)
	SetupRoutes(deps)

	return &Server{cfg: cfg, deps: deps}
}

// Start serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// and closes the backing connections.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.deps.Router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infof("Server listening on port %s", s.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}

	// Hijacked websocket connections are not covered by Shutdown.
	for _, conn := range s.deps.Registry.Connections() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Warn("Failed to close websocket connection")
		}
	}

	s.closeConnections(ctx)

	log.Info("Server stopped")
	return nil
}

func (s *Server) closeConnections(ctx context.Context) {
	if err := s.deps.RabbitMQ.Close(); err != nil {
		log.WithError(err).Warn("Failed to close RabbitMQ connection")
	}
	if err := s.deps.Redis.Close(); err != nil {
		log.WithError(err).Warn("Failed to close Redis connection")
	}
	if err := s.deps.Mongodb.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to close MongoDB connection")
	}
}
