// Package app wires the shared pipeline dependencies used by every
// binary: the Gemini clients, the vector store and the two workflows.
package app

import (
	"context"

	"lecture-rag-backend/internal/ai"
	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/telemetry"
	"lecture-rag-backend/internal/vectorstore"
	"lecture-rag-backend/services"
)

type App struct {
	Config           *config.Config
	Embedder         *ai.Embedder
	Describer        *ai.ImageDescriber
	Chat             *ai.GeminiClient
	Store            vectorstore.Store
	DocumentWorkflow *services.DocumentWorkflow
	QAWorkflow       *services.QAWorkflow
}

// Build constructs the full dependency graph. The vector store prefers
// the MongoDB hybrid backend and silently falls back to the in-memory
// store when the remote index is unreachable.
func Build(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics) (*App, error) {
	embedder, err := ai.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	describer, err := ai.NewImageDescriber(ctx, cfg.GeminiAPIKey, cfg.VisionModel)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	chat, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.ChatModel, cfg.GeminiTier, metrics)
	if err != nil {
		embedder.Close()
		describer.Close()
		return nil, err
	}

	store := vectorstore.Open(cfg, embedder.EmbedText)
	chunker := services.NewChunker(cfg.MaxChunkSize, cfg.ChunkOverlap)
	extractor := services.NewPDFExtractor()

	return &App{
		Config:           cfg,
		Embedder:         embedder,
		Describer:        describer,
		Chat:             chat,
		Store:            store,
		DocumentWorkflow: services.NewDocumentWorkflow(extractor, chunker, describer, embedder, store, metrics),
		QAWorkflow:       services.NewQAWorkflow(embedder, store, chat, cfg.RetrievalTopK, cfg.HybridAlpha, metrics),
	}, nil
}

func (a *App) Close() {
	a.Embedder.Close()
	a.Describer.Close()
	a.Chat.Close()
}
