package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/models"
	"lecture-rag-backend/utils"
)

const upsertBatchSize = 100

// EmbedFunc embeds a single query text for the vector leg of a hybrid
// search. The hybrid store computes embeddings itself when the caller
// supplies none.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// MongoStore is the remote hybrid backend. Chunks live in one flat
// collection; search blends Atlas $search (BM25) and $vectorSearch
// scores by the query's alpha weight.
type MongoStore struct {
	collection      *mongo.Collection
	searchIndexName string
	vectorIndexName string
	compression     utils.CompressionAlgorithm
	embed           EmbedFunc

	// The order counter is shared across gin handlers and the worker.
	mu      sync.Mutex
	counter int
}

// reserveOrder claims n consecutive order values and returns the first.
func (s *MongoStore) reserveOrder(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := s.counter
	s.counter += n
	return base
}

// NewMongoStore connects, bootstraps collection indexes and returns the
// store. The check-then-create in ConnectMongoDB is not atomic;
// concurrent first-time initialization from multiple processes can race.
func NewMongoStore(cfg *config.Config, embed EmbedFunc) (*MongoStore, error) {
	client, err := config.ConnectMongoDB(cfg)
	if err != nil {
		return nil, err
	}

	return &MongoStore{
		collection:      client.Database(cfg.DBName).Collection(cfg.CollectionName),
		searchIndexName: cfg.SearchIndexName,
		vectorIndexName: cfg.VectorIndexName,
		compression:     utils.CompressionAlgorithm(cfg.ChunkCompression),
		embed:           embed,
	}, nil
}

// DocumentCollection returns the upload tracking collection that lives
// alongside the chunk index.
func (s *MongoStore) DocumentCollection() *mongo.Collection {
	return s.collection.Database().Collection("documents")
}

// AddTexts bulk-upserts chunk documents in batches. When a vector is
// missing for a text, the store computes one with its embed function.
func (s *MongoStore) AddTexts(ctx context.Context, texts []string, vectors [][]float32, metadatas []map[string]string) error {
	batch := make([]mongo.WriteModel, 0, upsertBatchSize)
	base := s.reserveOrder(len(texts))

	for i, text := range texts {
		var vec []float32
		if i < len(vectors) && vectors[i] != nil {
			vec = vectors[i]
		} else if s.embed != nil {
			v, err := s.embed(ctx, text)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			vec = v
		}

		var meta map[string]string
		if i < len(metadatas) {
			meta = metadatas[i]
		}

		doc := models.ChunkIndex{
			ChunkID:  uuid.NewString(),
			Order:    base + i,
			Text:     text,
			Keywords: extractKeywords(text),
			Vector:   vec,
			Metadata: meta,
		}
		if s.compression != "" && s.compression != utils.CompressionNone {
			compressed, err := utils.CompressData([]byte(text), s.compression)
			if err == nil && len(compressed) < len(text) {
				doc.Text = string(compressed)
				doc.Compressed = true
				doc.Compression = string(s.compression)
			}
		}

		batch = append(batch, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"chunk_id": doc.ChunkID}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))

		if len(batch) == upsertBatchSize {
			if err := s.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.flush(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

func (s *MongoStore) flush(ctx context.Context, batch []mongo.WriteModel) error {
	_, err := s.collection.BulkWrite(ctx, batch, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("bulk write chunks: %w", err)
	}
	return nil
}

// Search runs the keyword and vector pipelines separately and blends
// their min-max-normalized scores: alpha*vector + (1-alpha)*keyword.
func (s *MongoStore) Search(ctx context.Context, q Query, k int) ([]Result, error) {
	if k <= 0 {
		return []Result{}, nil
	}

	var vectorHits, keywordHits []scoredChunk

	if q.Alpha > 0 {
		vec := q.Vector
		if vec == nil && s.embed != nil {
			v, err := s.embed(ctx, q.Text)
			if err != nil {
				return nil, fmt.Errorf("embed query: %w", err)
			}
			vec = v
		}
		hits, err := s.vectorSearch(ctx, vec, k)
		if err != nil {
			return nil, err
		}
		vectorHits = hits
	}

	if q.Alpha < 1 {
		hits, err := s.keywordSearch(ctx, q.Text, k)
		if err != nil {
			return nil, err
		}
		keywordHits = hits
	}

	blended := blendScores(vectorHits, keywordHits, q.Alpha)
	if k > len(blended) {
		k = len(blended)
	}

	results := make([]Result, 0, k)
	for _, hit := range blended[:k] {
		text := hit.chunk.Text
		if hit.chunk.Compressed {
			raw, err := utils.DecompressData([]byte(text), utils.CompressionAlgorithm(hit.chunk.Compression))
			if err != nil {
				logger.Warn("Failed to decompress chunk", "chunk_id", hit.chunk.ChunkID, "error", err)
				continue
			}
			text = string(raw)
		}
		results = append(results, Result{Text: text, Score: hit.score, Metadata: hit.chunk.Metadata})
	}
	return results, nil
}

type scoredChunk struct {
	chunk models.ChunkIndex
	score float64
}

func (s *MongoStore) vectorSearch(ctx context.Context, vec []float32, k int) ([]scoredChunk, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.vectorIndexName},
			{Key: "path", Value: "vector"},
			{Key: "queryVector", Value: vec},
			{Key: "numCandidates", Value: k * 10},
			{Key: "limit", Value: k * 4},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "search_score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
	return s.runSearch(ctx, pipeline)
}

func (s *MongoStore) keywordSearch(ctx context.Context, query string, k int) ([]scoredChunk, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: s.searchIndexName},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: "text"},
			}},
		}}},
		{{Key: "$limit", Value: k * 4}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "search_score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
		}}},
	}
	return s.runSearch(ctx, pipeline)
}

func (s *MongoStore) runSearch(ctx context.Context, pipeline mongo.Pipeline) ([]scoredChunk, error) {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("search aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var hits []scoredChunk
	for cursor.Next(ctx) {
		var raw struct {
			models.ChunkIndex `bson:",inline"`
			SearchScore       float64 `bson:"search_score"`
		}
		if err := cursor.Decode(&raw); err != nil {
			continue
		}
		hits = append(hits, scoredChunk{chunk: raw.ChunkIndex, score: raw.SearchScore})
	}
	return hits, cursor.Err()
}

// blendScores merges two ranked hit lists keyed by chunk ID, weighting
// normalized vector scores by alpha and keyword scores by 1-alpha.
// Output is sorted by descending blended score.
func blendScores(vectorHits, keywordHits []scoredChunk, alpha float64) []scoredChunk {
	normalize(vectorHits)
	normalize(keywordHits)

	merged := make(map[string]*scoredChunk)
	order := make([]string, 0, len(vectorHits)+len(keywordHits))

	for _, hit := range vectorHits {
		h := hit
		h.score = alpha * hit.score
		merged[hit.chunk.ChunkID] = &h
		order = append(order, hit.chunk.ChunkID)
	}
	for _, hit := range keywordHits {
		if existing, ok := merged[hit.chunk.ChunkID]; ok {
			existing.score += (1 - alpha) * hit.score
			continue
		}
		h := hit
		h.score = (1 - alpha) * hit.score
		merged[hit.chunk.ChunkID] = &h
		order = append(order, hit.chunk.ChunkID)
	}

	blended := make([]scoredChunk, 0, len(order))
	for _, id := range order {
		blended = append(blended, *merged[id])
	}
	sort.SliceStable(blended, func(a, b int) bool {
		return blended[a].score > blended[b].score
	})
	return blended
}

// normalize rescales scores to [0,1] in place (min-max). A single hit
// or uniform scores map to 1.
func normalize(hits []scoredChunk) {
	if len(hits) == 0 {
		return
	}
	min, max := hits[0].score, hits[0].score
	for _, h := range hits[1:] {
		if h.score < min {
			min = h.score
		}
		if h.score > max {
			max = h.score
		}
	}
	for i := range hits {
		if max == min {
			hits[i].score = 1
		} else {
			hits[i].score = (hits[i].score - min) / (max - min)
		}
	}
}

// extractKeywords pulls distinct lowercase terms for the keyword index.
func extractKeywords(text string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()[]\"'")
		if len(word) < 4 || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 16 {
			break
		}
	}
	return keywords
}
