package gifenc

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// gif output frame rate cap; bounds output size without visibly degrading
// short clips.
const gifFrameRate = "15"

// EncodeRequest is one encoder invocation: cut [Start, Start+Duration) from
// the source, burn in the subtitle file, scale to the source dimensions.
type EncodeRequest struct {
	InputPath    string
	OutputPath   string
	SubtitlePath string
	Start        float64
	Duration     float64
	Width        int
	Height       int
	Font         FontOptions
}

// Encoder produces one GIF per request. Implemented by FFmpeg; faked in
// tests.
type Encoder interface {
	Encode(ctx context.Context, req EncodeRequest) error
}

// FFmpeg shells out to the ffmpeg binary.
type FFmpeg struct{}

func (FFmpeg) Encode(ctx context.Context, req EncodeRequest) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", encodeArgs(req)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

func encodeArgs(req EncodeRequest) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", req.Start),
		"-t", fmt.Sprintf("%.3f", req.Duration),
		"-i", req.InputPath,
		"-vf", subtitlesFilter(req.SubtitlePath, req.Font, req.Height),
		"-s", fmt.Sprintf("%dx%d", req.Width, req.Height),
		"-r", gifFrameRate,
		"-y",
		req.OutputPath,
	}
}

// subtitlesFilter builds the burn-in filter. Colons in the subtitle path are
// escaped for the filter parser; the ASS PrimaryColour channel order is
// &H00BBGGRR but the observed behavior passes the RGB hex through verbatim.
func subtitlesFilter(subtitlePath string, font FontOptions, videoHeight int) string {
	safePath := strings.ReplaceAll(subtitlePath, `:`, `\:`)
	return fmt.Sprintf("subtitles='%s':force_style='Fontname=%s,Fontsize=%d,PrimaryColour=&H00%s'",
		safePath, font.Name, font.sizeFor(videoHeight), font.Color)
}
