// Command ask answers a single question against the stored corpus.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"lecture-rag-backend/internal/app"
	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ask <question>")
		os.Exit(2)
	}
	question := os.Args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.InitLogger(cfg)

	application, err := app.Build(context.Background(), cfg, nil)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}
	defer application.Close()

	answer, err := application.QAWorkflow.Ask(context.Background(), question)
	if err != nil {
		log.Fatal("Question answering failed:", err)
	}

	fmt.Println(answer)
}
