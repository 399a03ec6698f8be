package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"lecture-rag-backend/internal/app"
	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/internal/queue"
	"lecture-rag-backend/internal/vectorstore"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Build the pipeline
	application, err := app.Build(context.Background(), cfg, nil)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}
	defer application.Close()

	// Document status tracking only works against the Mongo backend;
	// with the in-memory fallback the pipeline still runs, results are
	// simply not durable across restarts.
	var documents *mongo.Collection
	if store, ok := application.Store.(*vectorstore.MongoStore); ok {
		documents = store.DocumentCollection()
	}

	redisOpt, err := config.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Invalid Redis configuration:", err)
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(application.DocumentWorkflow, documents)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskProcessPDF, processor.ProcessPDF)

	logger.Info("Starting ingestion worker", "redis", cfg.RedisURL, "concurrency", 10)
	if err := server.Run(mux); err != nil {
		log.Fatal("Worker failed:", err)
	}
}
