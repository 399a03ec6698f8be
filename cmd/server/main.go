package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"lecture-rag-backend/internal/app"
	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/internal/telemetry"
	"lecture-rag-backend/internal/vectorstore"
	"lecture-rag-backend/middleware"
	"lecture-rag-backend/routes"
	"lecture-rag-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Telemetry
	shutdownTracer, err := telemetry.InitTracer("lecture-rag-backend")
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
		shutdownTracer = func() {}
	}
	defer shutdownTracer()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

	// Build the pipeline (embedder, describer, chat, store, workflows)
	application, err := app.Build(context.Background(), cfg, metrics)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}
	defer application.Close()

	// Redis backs the rate limiter and the async ingestion queue; both
	// degrade gracefully when it is unavailable.
	var queueClient *asynq.Client
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting and async processing disabled", "error", err)
	} else {
		redisOpt, err := config.RedisConnOpt(cfg)
		if err != nil {
			logger.Warn("Async processing disabled", "error", err)
		} else {
			queueClient = asynq.NewClient(redisOpt)
			defer queueClient.Close()
		}
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	storage := services.NewFileStorageManager(cfg)
	var documents *mongo.Collection
	if store, ok := application.Store.(*vectorstore.MongoStore); ok {
		documents = store.DocumentCollection()
	}
	routes.SetupDocumentRoutes(router, cfg, application.DocumentWorkflow, storage, queueClient, documents)
	routes.SetupQARoutes(router, application.QAWorkflow)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
