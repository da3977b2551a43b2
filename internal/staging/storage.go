package staging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const defaultChunkSize = 32 * 1024

// Store saves uploaded roster files under a staging directory with unique
// names so concurrent uploads never collide. Staged files are short-lived;
// callers discard them once the batch finishes.
type Store struct {
	dir       string
	chunkSize int
}

// NewStore creates a staging store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir, chunkSize: defaultChunkSize}
}

// Dir returns the staging directory
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload to a uniquely named file and returns its path
func (s *Store) Save(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	filename = filepath.Base(filename)
	ext := filepath.Ext(filename)
	baseName := filename[:len(filename)-len(ext)]
	if baseName == "" {
		baseName = "upload"
	}
	timestamp := time.Now().Format("20060102_150405")
	uniqueName := fmt.Sprintf("%s_%s_%s%s", baseName, timestamp, uuid.New().String()[:8], ext)

	filePath := filepath.Join(s.dir, uniqueName)

	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	defer destFile.Close()

	buf := make([]byte, s.chunkSize)
	if _, err := io.CopyBuffer(destFile, file, buf); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy upload contents: %w", err)
	}

	return filePath, nil
}

// Discard removes a staged file, tolerating files already gone
func (s *Store) Discard(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[Staging] Failed to discard %s: %v", path, err)
	}
}
