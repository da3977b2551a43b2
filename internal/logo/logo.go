package logo

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docugen/domain/docs"
	"docugen/internal/errors"

	"github.com/google/uuid"
)

// MaxSizeBytes is the hard cap on logo uploads
const MaxSizeBytes = 5 * 1024 * 1024

const copyChunkSize = 32 * 1024

var allowedExtensions = []string{".png", ".jpg", ".jpeg"}

// Stage validates a logo stream and writes it to a uniquely named file in
// stagingDir. The returned Logo carries the staged path and the decoded
// pixel dimensions renderers need for aspect-correct embedding. Callers
// own cleanup via Discard.
func Stage(r io.Reader, originalName string, declaredSize int64, stagingDir string) (*docs.Logo, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !isAllowedExtension(ext) {
		return nil, errors.UnsupportedMedia("Logo must be a PNG or JPG image (.png, .jpg, .jpeg)")
	}

	if declaredSize > MaxSizeBytes {
		return nil, errors.FileTooLarge(sizeMessage(declaredSize))
	}

	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create logo staging directory")
	}

	timestamp := time.Now().Format("20060102_150405")
	stagedName := fmt.Sprintf("logo_%s_%s%s", timestamp, uuid.New().String()[:8], ext)
	stagedPath := filepath.Join(stagingDir, stagedName)

	dest, err := os.Create(stagedPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create staged logo file")
	}

	// Copy one byte past the cap so undeclared oversize streams are caught
	buf := make([]byte, copyChunkSize)
	written, err := io.CopyBuffer(dest, io.LimitReader(r, MaxSizeBytes+1), buf)
	closeErr := dest.Close()
	if err != nil {
		os.Remove(stagedPath)
		return nil, errors.Wrap(err, "failed to stage logo file")
	}
	if closeErr != nil {
		os.Remove(stagedPath)
		return nil, errors.Wrap(closeErr, "failed to stage logo file")
	}
	if written > MaxSizeBytes {
		os.Remove(stagedPath)
		return nil, errors.FileTooLarge(sizeMessage(written))
	}

	staged, err := decode(stagedPath)
	if err != nil {
		os.Remove(stagedPath)
		return nil, err
	}
	return staged, nil
}

// StageFile stages a logo from a local path (CLI flow)
func StageFile(path, stagingDir string) (*docs.Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open logo file %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat logo file %s", path)
	}

	return Stage(f, filepath.Base(path), info.Size(), stagingDir)
}

// Discard removes a staged logo file
func Discard(l *docs.Logo) error {
	if l == nil || l.Path == "" {
		return nil
	}
	if err := os.Remove(l.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged logo: %w", err)
	}
	return nil
}

func decode(path string) (*docs.Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reopen staged logo")
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errors.UnsupportedMedia("Logo could not be decoded as a PNG or JPG image")
	}
	if format != "png" && format != "jpeg" {
		return nil, errors.UnsupportedMedia(fmt.Sprintf("Logo format %q is not supported; use PNG or JPG", format))
	}

	return &docs.Logo{
		Path:   path,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

func isAllowedExtension(ext string) bool {
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func sizeMessage(size int64) string {
	return fmt.Sprintf("Logo file size (%.1f MB) exceeds the 5MB limit", float64(size)/(1024*1024))
}
