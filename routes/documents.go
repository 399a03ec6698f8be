package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/internal/queue"
	"lecture-rag-backend/models"
	"lecture-rag-backend/services"
	"lecture-rag-backend/utils"
)

type processRequest struct {
	PDFPath string `json:"pdf_path" binding:"required"`
}

// SetupDocumentRoutes registers the ingestion endpoints. POST /process
// accepts either a JSON body naming a server-side PDF path or a
// multipart upload; POST /process/async queues the upload for the
// worker.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, workflow *services.DocumentWorkflow, storage *services.FileStorageManager, queueClient *asynq.Client, documents *mongo.Collection) {
	router.POST("/process", func(c *gin.Context) {
		ct := c.GetHeader("Content-Type")

		var pdfPath string
		var cleanup func()

		if strings.HasPrefix(ct, "multipart/") {
			stored, ok := storeUpload(c, cfg, storage)
			if !ok {
				return
			}
			pdfPath = stored.Path
			cleanup = func() { storage.Cleanup(stored.Path) }
		} else {
			var req processRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.RespondWithBadRequest(c, "pdf_path is required", gin.H{"error": err.Error()})
				return
			}
			if _, err := os.Stat(req.PDFPath); err != nil {
				utils.RespondWithBadRequest(c, "PDF file not found", gin.H{"pdf_path": req.PDFPath})
				return
			}
			pdfPath = req.PDFPath
		}

		result, err := workflow.Run(c.Request.Context(), pdfPath)
		if cleanup != nil {
			cleanup()
		}
		if err != nil {
			logger.Error("Document processing failed", "path", pdfPath, "error", err)
			utils.RespondWithInternalError(c, "Document processing failed", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	})

	router.POST("/process/async", func(c *gin.Context) {
		if queueClient == nil {
			utils.RespondWithError(c, http.StatusServiceUnavailable, "queue_unavailable",
				"Async processing is not available", nil)
			return
		}

		stored, ok := storeUpload(c, cfg, storage)
		if !ok {
			return
		}

		recordDocument(c, documents, stored)

		task, err := buildProcessTask(stored)
		if err != nil {
			storage.Cleanup(stored.Path)
			utils.RespondWithInternalError(c, "Failed to create task", gin.H{"error": err.Error()})
			return
		}

		info, err := queueClient.Enqueue(task)
		if err != nil {
			storage.Cleanup(stored.Path)
			utils.RespondWithInternalError(c, "Failed to enqueue task", gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"task_id":  info.ID,
			"queue":    info.Queue,
			"filename": stored.SecureName,
		})
	})
}

func buildProcessTask(stored *services.StoredFile) (*asynq.Task, error) {
	return queue.NewPDFProcessTask(stored.SecureName, stored.Path)
}

// recordDocument inserts the upload tracking record. The worker updates
// its status as processing advances. With the in-memory store there is
// no documents collection and tracking is skipped.
func recordDocument(c *gin.Context, documents *mongo.Collection, stored *services.StoredFile) {
	if documents == nil {
		return
	}
	doc := models.Document{
		Filename:     stored.SecureName,
		OriginalName: stored.OriginalName,
		Path:         stored.Path,
		Hash:         stored.Hash,
		Size:         stored.Size,
		Status:       "uploaded",
		UploadedAt:   time.Now(),
	}
	if _, err := documents.InsertOne(c.Request.Context(), doc); err != nil {
		logger.Warn("Failed to record document", "filename", stored.SecureName, "error", err)
	}
}

// storeUpload validates and persists a multipart PDF upload. On failure
// it writes the error response and returns ok=false.
func storeUpload(c *gin.Context, cfg *config.Config, storage *services.FileStorageManager) (*services.StoredFile, bool) {
	if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "file_too_large",
			"File size exceeds maximum limit", nil)
		return nil, false
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "no_file",
			"No PDF file provided", nil)
		return nil, false
	}
	defer file.Close()

	stored, err := storage.SecureStore(file, header)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "invalid_file", err.Error(), nil)
		return nil, false
	}
	return stored, true
}
