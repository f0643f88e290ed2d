package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/capgif/backend/internal/job"
	"github.com/capgif/backend/internal/storage"
)

type JobHandler struct {
	queue     *job.Queue
	uploadDir string
}

func NewJobHandler(queue *job.Queue, uploadDir string) *JobHandler {
	return &JobHandler{queue: queue, uploadDir: uploadDir}
}

type enqueueRequest struct {
	// Filename of a previously uploaded video inside the upload directory.
	Filename string             `json:"filename"`
	Params   job.GenerateParams `json:"params"`
}

// Enqueue queues an asynchronous generation run for an already-uploaded file.
func (h *JobHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Only bare filenames inside the upload dir are accepted.
	if req.Filename == "" || req.Filename != filepath.Base(req.Filename) {
		jsonError(w, "invalid filename", http.StatusBadRequest)
		return
	}
	if !storage.IsVideoFile(req.Filename) {
		jsonError(w, "not a video file", http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.TypeGenerate, filepath.Join(h.uploadDir, req.Filename), req.Params)
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

// ListJobs returns all jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.queue.ListJobs()
	if err != nil {
		jsonError(w, "failed to list jobs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []*job.Job{}
	}
	jsonResponse(w, jobs, http.StatusOK)
}

// GetJob returns a single job by ID
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing job ID", http.StatusBadRequest)
		return
	}

	j, err := h.queue.GetJob(id)
	if err != nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, j, http.StatusOK)
}

// CancelJob cancels a pending or running job
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing job ID", http.StatusBadRequest)
		return
	}

	if err := h.queue.CancelJob(id); err != nil {
		jsonError(w, "failed to cancel job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
