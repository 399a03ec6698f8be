package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lecture-rag-backend/internal/config"
	"lecture-rag-backend/internal/vectorstore"
	"lecture-rag-backend/services"
	"lecture-rag-backend/utils"
)

type stubExtractor struct {
	text string
}

func (s *stubExtractor) Extract(ctx context.Context, path string) (string, [][]byte, error) {
	return s.text, nil, nil
}

type stubDescriber struct{}

func (stubDescriber) DescribeAll(ctx context.Context, images [][]byte) ([]string, error) {
	return nil, nil
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1}
	}
	return vectors, nil
}

func (stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func newDocumentRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{MaxFileSize: 1 << 20, FileStorageDir: t.TempDir()}
	workflow := services.NewDocumentWorkflow(
		&stubExtractor{text: "Hello World"},
		services.NewChunker(1000, 200),
		stubDescriber{},
		stubEmbedder{},
		vectorstore.NewMemory(),
		nil)
	storage := services.NewFileStorageManager(cfg)

	router := gin.New()
	SetupDocumentRoutes(router, cfg, workflow, storage, nil, nil)
	return router
}

func decodeError(t *testing.T, body *bytes.Buffer) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error envelope: %v\n%s", err, body.String())
	}
	return resp
}

func TestProcessRequiresPDFPath(t *testing.T) {
	router := newDocumentRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w.Body); resp.ErrorCode != "bad_request" {
		t.Errorf("error_code = %q, want bad_request", resp.ErrorCode)
	}
}

func TestProcessRejectsMissingFile(t *testing.T) {
	router := newDocumentRouter(t)

	body := `{"pdf_path": "/nonexistent/lecture.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w.Body); !strings.Contains(resp.Message, "not found") {
		t.Errorf("message = %q, want a not-found message", resp.Message)
	}
}

func TestProcessByPath(t *testing.T) {
	router := newDocumentRouter(t)

	path := filepath.Join(t.TempDir(), "lecture.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("write test pdf: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"pdf_path": path})
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, w.Body.String())
	}

	var result struct {
		Chunks int `json:"chunks"`
		Images int `json:"images"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Chunks != 1 || result.Images != 0 {
		t.Errorf("result = %+v, want 1 chunk and 0 images", result)
	}
}

func TestProcessMultipartUpload(t *testing.T) {
	router := newDocumentRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "lecture.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("%PDF-1.4\nlecture content"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", w.Code, w.Body.String())
	}
}

func TestProcessMultipartWithoutFileField(t *testing.T) {
	router := newDocumentRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("question", "not a file")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeError(t, w.Body); resp.ErrorCode != "no_file" {
		t.Errorf("error_code = %q, want no_file", resp.ErrorCode)
	}
}

func TestProcessAsyncWithoutQueue(t *testing.T) {
	router := newDocumentRouter(t) // queue client is nil

	req := httptest.NewRequest(http.MethodPost, "/process/async", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if resp := decodeError(t, w.Body); resp.ErrorCode != "queue_unavailable" {
		t.Errorf("error_code = %q, want queue_unavailable", resp.ErrorCode)
	}
}
