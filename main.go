package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"spark-service/internal/auth"
	"spark-service/internal/config"
	"spark-service/internal/db"
	"spark-service/internal/handlers"
	"spark-service/internal/middleware"
	"spark-service/internal/observability"
	"spark-service/internal/presence"
	"spark-service/internal/rabbitmq"
	"spark-service/internal/repositories"
	"spark-service/internal/telemetry"
	"spark-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracing, err := observability.InitTracing(context.Background(), "spark-service", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	database, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange, logger)
	defer publisher.Close()

	if eventPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, "spark.events", logger); err != nil {
		logger.Warn("ws event publishing disabled", zap.Error(err))
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}
	auditEmitter := telemetry.NewAuditEmitter(publisher, "audit.spark", "spark-service", cfg.Environment, logger)

	messageRepo := repositories.NewMessageRepo(database)
	blockRepo := repositories.NewBlockRepo(database)
	userRepo := repositories.NewUserRepo(database)

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	tracker := presence.NewTracker()
	hub := ws.NewHub(logger)
	defer hub.Shutdown()

	messageHandler := handlers.NewMessageHandler(messageRepo, blockRepo, userRepo, hub)
	blockHandler := handlers.NewBlockHandler(blockRepo, userRepo, hub)
	favoriteHandler := handlers.NewFavoriteHandler(userRepo)
	discoveryHandler := handlers.NewDiscoveryHandler(userRepo, blockRepo, tracker)
	presenceHandler := handlers.NewPresenceHandler(tracker, userRepo)
	liveHandler := ws.NewLiveHandler(hub, tracker, tokens, logger)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("spark-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokens)
	optionalAuth := middleware.OptionalAuthMiddleware(tokens)

	router.POST("/messages", authMiddleware, messageHandler.PostMessage)
	router.DELETE("/messages/:message_id", authMiddleware, messageHandler.DeleteMessage)
	router.GET("/conversations", authMiddleware, messageHandler.ListConversations)
	router.GET("/conversations/:peer_id/messages", authMiddleware, messageHandler.ListMessagesWithPeer)
	router.POST("/conversations/:peer_id/read", authMiddleware, messageHandler.MarkConversationRead)

	router.POST("/blocks/:user_id", authMiddleware, blockHandler.Block)
	router.DELETE("/blocks/:user_id", authMiddleware, blockHandler.Unblock)
	router.GET("/blocks", authMiddleware, blockHandler.ListBlocked)

	router.POST("/favorites/:user_id", authMiddleware, favoriteHandler.Add)
	router.DELETE("/favorites/:user_id", authMiddleware, favoriteHandler.Remove)
	router.GET("/favorites", authMiddleware, favoriteHandler.List)

	router.GET("/discover", optionalAuth, discoveryHandler.Discover)
	router.GET("/users/:user_id/presence", authMiddleware, presenceHandler.GetPresence)

	router.GET("/ws", liveHandler.Handle)
	router.GET("/metrics", observability.MetricsHandler())

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)

	logger.Info("starting spark-service",
		zap.String("port", cfg.Port),
		zap.String("publisher", rabbitmq.PublisherKind(publisher)))

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
