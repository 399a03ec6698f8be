package vectorstore

import (
	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
)

// Open constructs the preferred store. It tries the MongoDB hybrid
// backend first; any construction failure falls back to the in-memory
// store for the rest of the process lifetime. There is no later retry
// or promotion back to the remote store.
func Open(cfg *config.Config, embed EmbedFunc) Store {
	store, err := NewMongoStore(cfg, embed)
	if err != nil {
		logger.Warn("Remote vector store unavailable, using in-memory store",
			"uri", cfg.MongoURI, "error", err)
		return NewMemory()
	}
	logger.Info("Using MongoDB hybrid vector store",
		"collection", cfg.CollectionName)
	return store
}
