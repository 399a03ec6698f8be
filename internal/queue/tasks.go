package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/models"
)

const TaskProcessPDF = "pdf:process"

type PDFProcessPayload struct {
	DocumentID string `json:"document_id"`
	FilePath   string `json:"file_path"`
}

// NewPDFProcessTask builds the ingestion task for an uploaded PDF.
func NewPDFProcessTask(documentID, filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(PDFProcessPayload{
		DocumentID: documentID,
		FilePath:   filePath,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskProcessPDF,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

// DocumentRunner runs the ingestion pipeline for one PDF path.
type DocumentRunner interface {
	Run(ctx context.Context, pdfPath string) (models.ProcessResult, error)
}

// TaskProcessor handles queued ingestion tasks.
type TaskProcessor struct {
	workflow  DocumentRunner
	documents *mongo.Collection // nil when the memory store is active
}

func NewTaskProcessor(workflow DocumentRunner, documents *mongo.Collection) *TaskProcessor {
	return &TaskProcessor{
		workflow:  workflow,
		documents: documents,
	}
}

// ProcessPDF runs the document workflow for a queued upload and records
// the outcome on the document record when one exists.
func (p *TaskProcessor) ProcessPDF(ctx context.Context, t *asynq.Task) error {
	var payload PDFProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing queued PDF", "document_id", payload.DocumentID, "path", payload.FilePath)
	p.updateStatus(ctx, payload.DocumentID, bson.M{"status": "processing"})

	result, err := p.workflow.Run(ctx, payload.FilePath)
	if err != nil {
		p.updateStatus(ctx, payload.DocumentID, bson.M{"status": "failed"})
		return err
	}

	p.updateStatus(ctx, payload.DocumentID, bson.M{
		"status":       "completed",
		"chunk_count":  result.Chunks,
		"image_count":  result.Images,
		"processed_at": time.Now(),
	})
	return nil
}

func (p *TaskProcessor) updateStatus(ctx context.Context, documentID string, fields bson.M) {
	if p.documents == nil || documentID == "" {
		return
	}
	_, err := p.documents.UpdateOne(ctx,
		bson.M{"filename": documentID},
		bson.M{"$set": fields})
	if err != nil {
		logger.Warn("Failed to update document status", "document_id", documentID, "error", err)
	}
}
