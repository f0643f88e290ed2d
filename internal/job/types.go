package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/capgif/backend/internal/segment"
)

// Type represents the kind of job
type Type string

const (
	TypeGenerate Type = "generate"
)

// Status represents the current state of a job
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job represents a queued GIF generation run over an uploaded video.
type Job struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Status      Status          `json:"status"`
	FilePath    string          `json:"file_path"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// GenerateParams are parameters for a generation job.
type GenerateParams struct {
	Ranges     []segment.Range `json:"ranges,omitempty"`
	FontFamily string          `json:"font_family,omitempty"`
	FontSize   int             `json:"font_size,omitempty"`
	FontColor  string          `json:"font_color,omitempty"`
}

// GenerateResult is the output of a successful generation.
type GenerateResult struct {
	GifURLs    []string `json:"gif_urls"`
	Transcript string   `json:"transcript,omitempty"`
}

// Handler processes a job. Implementations run the pipeline.
type Handler func(ctx context.Context, job *Job, updateProgress func(float64)) error
