package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document tracks an uploaded PDF and its processing status.
type Document struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	OriginalName string             `bson:"original_name" json:"original_name"`
	Path         string             `bson:"path" json:"-"`
	Hash         string             `bson:"hash" json:"hash"`
	Size         int64              `bson:"size" json:"size"`
	Status       string             `bson:"status" json:"status"` // uploaded, processing, completed, failed
	ChunkCount   int                `bson:"chunk_count" json:"chunk_count"`
	ImageCount   int                `bson:"image_count" json:"image_count"`
	UploadedAt   time.Time          `bson:"uploaded_at" json:"uploaded_at"`
	ProcessedAt  time.Time          `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
}

// ProcessResult is the document workflow output summary.
type ProcessResult struct {
	Chunks int `json:"chunks"`
	Images int `json:"images"`
}
