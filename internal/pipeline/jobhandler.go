package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/capgif/backend/internal/gifenc"
	"github.com/capgif/backend/internal/job"
)

// HandleJob adapts the pipeline to the async job queue: it runs one
// generation for a previously uploaded file and stores the GIF URLs on the
// job record.
func (p *Pipeline) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.GenerateParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	updateProgress(0.05)

	result, err := p.Run(ctx, Request{
		VideoPath: j.FilePath,
		Ranges:    params.Ranges,
		Font:      gifenc.ParseFontOptions(params.FontFamily, params.FontSize, params.FontColor),
	})
	if err != nil {
		return err
	}

	urls := make([]string, len(result.GifPaths))
	for i, gp := range result.GifPaths {
		urls[i] = "/gifs/" + filepath.Base(gp)
	}

	resultJSON, _ := json.Marshal(job.GenerateResult{
		GifURLs:    urls,
		Transcript: strings.Join(result.Transcript, " "),
	})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}
