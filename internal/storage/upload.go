// Package storage handles upload admission and placement on disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedMIMETypes is the admission allow-list for uploaded containers.
// Rejection happens at the transport boundary, before the pipeline runs.
var allowedMIMETypes = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true, // MOV
	"video/x-matroska": true, // MKV
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".m4v": true,
}

func IsAllowedMIME(mimeType string) bool {
	// Strip parameters like "; codecs=..."
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return allowedMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// SaveUpload streams an uploaded file into dir under a unique name keeping
// the original extension. The pipeline owns the file from here on and
// deletes it when the request finishes.
func SaveUpload(dir string, file multipart.File, originalName string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	dstPath := filepath.Join(dir, fmt.Sprintf("upload-%s%s", uuid.New().String(), ext))

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("write upload: %w", err)
	}

	return dstPath, nil
}
