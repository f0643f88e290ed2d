package mediainfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

type probeResult struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	CodecType string `json:"codec_type"` // video, audio, subtitle
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// VideoMeta describes a probed video file. Immutable once probed.
type VideoMeta struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

var (
	ErrNoVideoStream = errors.New("no decodable video stream")
	ErrNoDuration    = errors.New("could not determine video duration")
)

// Probe runs ffprobe and extracts the dimensions of the first video stream
// and the container duration. Every later stage depends on the duration to
// bound its time ranges, so a missing duration is an error, not a zero.
func Probe(ctx context.Context, filePath string) (*VideoMeta, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	meta := &VideoMeta{Path: filePath}
	for _, s := range result.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			meta.Width = s.Width
			meta.Height = s.Height
			break
		}
	}
	if meta.Width == 0 || meta.Height == 0 {
		return nil, ErrNoVideoStream
	}

	dur, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return nil, ErrNoDuration
	}
	meta.Duration = dur

	return meta, nil
}
