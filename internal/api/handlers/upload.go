package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/capgif/backend/internal/gifenc"
	"github.com/capgif/backend/internal/pipeline"
	"github.com/capgif/backend/internal/segment"
	"github.com/capgif/backend/internal/storage"
)

// Runner executes one generation request; implemented by pipeline.Pipeline,
// faked in tests.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type UploadHandler struct {
	runner    Runner
	uploadDir string
	maxBytes  int64
}

func NewUploadHandler(runner Runner, uploadDir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{runner: runner, uploadDir: uploadDir, maxBytes: maxBytes}
}

type uploadResponse struct {
	Message    string   `json:"message"`
	GifURLs    []string `json:"gifUrls"`
	Transcript string   `json:"transcript,omitempty"`
}

// Upload accepts a multipart video upload, runs the pipeline synchronously,
// and returns the generated GIF URLs in segment order.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid or oversized upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		jsonError(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !storage.IsAllowedMIME(mimeType) || !storage.IsVideoFile(header.Filename) {
		jsonError(w, "invalid file format, only MP4, MOV, and MKV are allowed", http.StatusBadRequest)
		return
	}

	videoPath, err := storage.SaveUpload(h.uploadDir, file, header.Filename)
	if err != nil {
		log.Printf("[upload] save failed: %v", err)
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	ranges, err := parseRanges(r.FormValue("timestamps"))
	if err != nil {
		jsonError(w, "invalid timestamps: "+err.Error(), http.StatusBadRequest)
		return
	}

	font := parseFont(r)

	log.Printf("[upload] processing %s (%d ranges, font %s/%d/#%s)",
		videoPath, len(ranges), font.Name, font.Size, font.Color)

	result, err := h.runner.Run(r.Context(), pipeline.Request{
		VideoPath: videoPath,
		Ranges:    ranges,
		Font:      font,
	})
	if err != nil {
		writePipelineError(w, err)
		return
	}

	urls := make([]string, len(result.GifPaths))
	for i, p := range result.GifPaths {
		urls[i] = "/gifs/" + filepath.Base(p)
	}

	jsonResponse(w, uploadResponse{
		Message:    "GIF generated with captions!",
		GifURLs:    urls,
		Transcript: strings.Join(result.Transcript, " "),
	}, http.StatusOK)
}

// parseRanges decodes the caller's timestamp selection. An empty value means
// the default policy applies.
func parseRanges(raw string) ([]segment.Range, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ranges []segment.Range
	if err := json.Unmarshal([]byte(raw), &ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

// parseFont reads style fields with graceful fallback: malformed values use
// defaults, they never fail the request.
func parseFont(r *http.Request) gifenc.FontOptions {
	size := 0
	if v := r.FormValue("fontSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("[upload] invalid font size %q, using default", v)
		} else {
			size = n
		}
	}
	return gifenc.ParseFontOptions(r.FormValue("fontFamily"), size, r.FormValue("fontColor"))
}

// writePipelineError maps the pipeline's error taxonomy onto HTTP statuses.
func writePipelineError(w http.ResponseWriter, err error) {
	var pErr *pipeline.Error
	if !errors.As(err, &pErr) {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch pErr.Kind {
	case pipeline.KindValidation:
		status = http.StatusBadRequest
	case pipeline.KindProbe:
		status = http.StatusUnprocessableEntity
	case pipeline.KindConfiguration:
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": pErr.Error(),
		"kind":  string(pErr.Kind),
	})
}
