package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GifHandler serves finished GIFs from the public output directory. It never
// deletes from it; reclamation belongs to the sweep alone.
type GifHandler struct {
	gifDir string
}

func NewGifHandler(gifDir string) *GifHandler {
	return &GifHandler{gifDir: gifDir}
}

func (h *GifHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")

	// Only bare .gif basenames; no traversal.
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(strings.ToLower(name), ".gif") {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.gifDir, name))
}

// Health is a liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
