// Package gifenc turns resolved segments into captioned GIFs by driving the
// ffmpeg encoder one segment at a time.
package gifenc

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/capgif/backend/internal/mediainfo"
	"github.com/capgif/backend/internal/segment"
	"github.com/capgif/backend/internal/subtitle"
)

// Synthesizer encodes resolved segments sequentially. Segment N+1 does not
// begin until segment N finishes; this bounds concurrent encoder processes
// at one per request.
type Synthesizer struct {
	Encoder   Encoder
	OutputDir string
	// WrapWidth is the caption line limit in characters.
	WrapWidth int
}

func NewSynthesizer(outputDir string, wrapWidth int) *Synthesizer {
	return &Synthesizer{Encoder: FFmpeg{}, OutputDir: outputDir, WrapWidth: wrapWidth}
}

// Synthesize encodes one GIF per segment, in order, and returns the output
// paths. The first encode failure aborts the remaining segments; GIFs
// already written stay on disk for the sweep to reclaim, they are not rolled
// back. Segments starting past the video duration were already dropped by
// alignment, but the guard is kept here so a caller composing its own
// segments gets the same skip behavior.
func (s *Synthesizer) Synthesize(ctx context.Context, meta *mediainfo.VideoMeta, segments []segment.Resolved, font FontOptions) ([]string, error) {
	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var gifPaths []string
	for i, seg := range segments {
		if seg.UserStart >= meta.Duration {
			log.Printf("[gifenc] skipping segment %d: start %.2fs exceeds duration %.2fs", i, seg.UserStart, meta.Duration)
			continue
		}

		path, err := s.encodeSegment(ctx, meta, seg, font, i)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%.2f-%.2fs): %w", i, seg.UserStart, seg.UserEnd, err)
		}
		gifPaths = append(gifPaths, path)
	}

	return gifPaths, nil
}

func (s *Synthesizer) encodeSegment(ctx context.Context, meta *mediainfo.VideoMeta, seg segment.Resolved, font FontOptions, index int) (string, error) {
	wrapped := subtitle.WrapText(seg.Text, s.WrapWidth)

	cuePath := filepath.Join(s.OutputDir, fmt.Sprintf("sub-%s.srt", uuid.New().String()))
	if err := subtitle.WriteSingleCue(cuePath, seg.CaptionStart, seg.CaptionEnd, wrapped); err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(cuePath); err != nil && !os.IsNotExist(err) {
			log.Printf("[gifenc] cleanup warning: failed to delete cue file %s: %v", cuePath, err)
		}
	}()

	outputPath := filepath.Join(s.OutputDir, fmt.Sprintf("gif-%d-%d.gif", time.Now().UnixMilli(), index))

	log.Printf("[gifenc] encoding %.2f-%.2fs -> %s (caption %.2f-%.2fs)",
		seg.UserStart, seg.UserEnd, outputPath, seg.CaptionStart, seg.CaptionEnd)

	err := s.Encoder.Encode(ctx, EncodeRequest{
		InputPath:    meta.Path,
		OutputPath:   outputPath,
		SubtitlePath: cuePath,
		Start:        seg.UserStart,
		Duration:     seg.UserEnd - seg.UserStart,
		Width:        meta.Width,
		Height:       meta.Height,
		Font:         font,
	})
	if err != nil {
		return "", err
	}

	return outputPath, nil
}
