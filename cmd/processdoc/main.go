// Command processdoc ingests a single PDF and prints a JSON summary of
// the chunks produced and images found.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"lecture-rag-backend/internal/app"
	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: processdoc <pdf_path>")
		os.Exit(2)
	}
	pdfPath := os.Args[1]

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

	result, err := application.DocumentWorkflow.Run(context.Background(), pdfPath)
	if err != nil {
		log.Fatal("Processing failed:", err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		log.Fatal("Failed to encode result:", err)
	}
	fmt.Println(string(out))
}
