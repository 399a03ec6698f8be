package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChunkIndex is a denormalized chunk for Atlas Search/VectorSearch.
// Keeping a flat collection enables efficient $search/$vectorSearch.
type ChunkIndex struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ChunkID     string             `bson:"chunk_id"`
	Order       int                `bson:"order"`
	Text        string             `bson:"text"`
	Keywords    []string           `bson:"keywords,omitempty"`
	Vector      []float32          `bson:"vector,omitempty"`
	Source      string             `bson:"source,omitempty"`
	Compressed  bool               `bson:"compressed,omitempty"`
	Compression string             `bson:"compression,omitempty"`
	Metadata    map[string]string  `bson:"metadata,omitempty"`
}
