package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"lecture-rag-backend/internal/config"
)

// FileStorageManager handles validated storage for uploaded PDFs.
type FileStorageManager struct {
	config    *config.Config
	uploadDir string
}

func NewFileStorageManager(cfg *config.Config) *FileStorageManager {
	baseDir := cfg.FileStorageDir
	if baseDir == "" {
		baseDir = "./storage"
	}

	uploadDir := filepath.Join(baseDir, "pdfs")
	os.MkdirAll(uploadDir, 0755)

	return &FileStorageManager{
		config:    cfg,
		uploadDir: uploadDir,
	}
}

// StoredFile describes a file written by SecureStore.
type StoredFile struct {
	Path         string
	SecureName   string
	OriginalName string
	Hash         string
	Size         int64
}

// ValidateUpload rejects files that are too large, not declared as PDF
// or missing the %PDF header.
func (m *FileStorageManager) ValidateUpload(file multipart.File, header *multipart.FileHeader) error {
	if header.Size == 0 {
		return fmt.Errorf("empty upload")
	}
	if header.Size > m.config.MaxFileSize {
		return fmt.Errorf("file size %d exceeds maximum %d", header.Size, m.config.MaxFileSize)
	}

	ct := header.Header.Get("Content-Type")
	if !strings.Contains(ct, "pdf") && !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return fmt.Errorf("only PDF files are allowed, got %q", ct)
	}

	// Magic byte check without loading the whole file
	magic := make([]byte, 5)
	if _, err := io.ReadFull(file, magic); err != nil {
		return fmt.Errorf("cannot read file header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("cannot rewind upload: %w", err)
	}
	if string(magic[:4]) != "%PDF" {
		return fmt.Errorf("file does not appear to be a valid PDF")
	}

	return nil
}

// SecureStore writes the upload under a generated name and returns its
// location and content hash.
func (m *FileStorageManager) SecureStore(file multipart.File, header *multipart.FileHeader) (*StoredFile, error) {
	if err := m.ValidateUpload(file, header); err != nil {
		return nil, err
	}

	secureName := uuid.NewString() + ".pdf"
	path := filepath.Join(m.uploadDir, secureName)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage file: %w", err)
	}
	defer dst.Close()

	hasher := md5.New()
	size, err := io.Copy(io.MultiWriter(dst, hasher), file)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	return &StoredFile{
		Path:         path,
		SecureName:   secureName,
		OriginalName: header.Filename,
		Hash:         hex.EncodeToString(hasher.Sum(nil)),
		Size:         size,
	}, nil
}

// Cleanup removes a stored file, ignoring errors.
func (m *FileStorageManager) Cleanup(path string) {
	if path != "" {
		os.Remove(path)
	}
}
