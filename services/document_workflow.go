package services

import (
	"context"
	"fmt"
	"time"

	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/internal/telemetry"
	"lecture-rag-backend/internal/vectorstore"
	"lecture-rag-backend/models"
)

// Extractor pulls text and embedded images from a PDF file.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, [][]byte, error)
}

// Describer turns images into one text description each.
type Describer interface {
	DescribeAll(ctx context.Context, images [][]byte) ([]string, error)
}

// Embedder converts texts into fixed-length vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// DocumentWorkflow runs the ingestion pipeline:
// extract -> prepare (chunk + describe) -> embed and store.
// Each stage is strictly sequential; any error aborts the run.
type DocumentWorkflow struct {
	extractor Extractor
	chunker   *Chunker
	describer Describer
	embedder  Embedder
	store     vectorstore.Store
	metrics   *telemetry.Metrics
}

func NewDocumentWorkflow(extractor Extractor, chunker *Chunker, describer Describer, embedder Embedder, store vectorstore.Store, metrics *telemetry.Metrics) *DocumentWorkflow {
	return &DocumentWorkflow{
		extractor: extractor,
		chunker:   chunker,
		describer: describer,
		embedder:  embedder,
		store:     store,
		metrics:   metrics,
	}
}

// Run processes the PDF at pdfPath and returns counts of chunks
// produced and images found.
func (w *DocumentWorkflow) Run(ctx context.Context, pdfPath string) (models.ProcessResult, error) {
	start := time.Now()

	// extract
	text, images, err := w.extractor.Extract(ctx, pdfPath)
	if err != nil {
		return models.ProcessResult{}, fmt.Errorf("extract: %w", err)
	}

	// prepare
	chunks := w.chunker.Chunk(text)

	var descriptions []string
	if len(images) > 0 {
		descriptions, err = w.describer.DescribeAll(ctx, images)
		if err != nil {
			return models.ProcessResult{}, fmt.Errorf("describe images: %w", err)
		}
	}

	// embed and store
	combined := append(append([]string{}, chunks...), descriptions...)
	if len(combined) > 0 {
		vectors, err := w.embedder.EmbedTexts(ctx, combined)
		if err != nil {
			return models.ProcessResult{}, fmt.Errorf("embed: %w", err)
		}
		if err := w.store.AddTexts(ctx, combined, vectors, nil); err != nil {
			return models.ProcessResult{}, fmt.Errorf("store: %w", err)
		}
	}

	result := models.ProcessResult{Chunks: len(chunks), Images: len(images)}
	w.metrics.RecordProcessing(time.Since(start).Seconds(), len(combined))
	logger.Info("Document processed",
		"path", pdfPath,
		"chunks", result.Chunks,
		"images", result.Images,
		"duration", time.Since(start).String())
	return result, nil
}
