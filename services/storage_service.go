package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService stores uploaded photos and documents on the local filesystem.
// Files are kept under BaseDir and referenced by the public path returned from
// SaveFile; those paths are used verbatim in asset and assignment photo lists.
type StorageService struct {
	BaseDir string
}

// NewStorageService creates a new StorageService rooted at baseDir.
func NewStorageService(baseDir string) *StorageService {
	return &StorageService{BaseDir: baseDir}
}

// SaveFile writes one uploaded file into the given folder under BaseDir using
// a collision-resistant generated name, and returns its public path.
func (s *StorageService) SaveFile(fh *multipart.FileHeader, folder string) (string, error) {
	ext := filepath.Ext(fh.Filename)
	fileName := uuid.New().String() + ext

	dir := filepath.Join(s.BaseDir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return "/" + path.Join(folder, fileName), nil
}

// DeleteFile removes a previously stored file by its public path. A missing
// file is logged, not treated as an error.
func (s *StorageService) DeleteFile(publicPath string) {
	full := filepath.Join(s.BaseDir, filepath.FromSlash(strings.TrimPrefix(publicPath, "/")))
	if err := os.Remove(full); err != nil {
		log.Printf("Failed to delete file %s: %v", publicPath, err)
	}
}
