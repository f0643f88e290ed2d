package mediainfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// ExtractAudio extracts the audio track as WAV 16kHz mono (required by
// whisper) into outDir, creating the directory if absent. The caller owns
// the returned file until its consumer deletes it.
func ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	audioPath := filepath.Join(outDir, fmt.Sprintf("audio-%s.wav", uuid.New().String()))

	cmd := exec.CommandContext(ctx, "ffmpeg",
		extractAudioArgs(videoPath, audioPath)...,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(audioPath)
		return "", fmt.Errorf("ffmpeg: %s: %w", string(output), err)
	}

	return audioPath, nil
}

func extractAudioArgs(videoPath, audioPath string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",          // no video
		"-acodec", "pcm_s16le",
		"-ar", "16000", // 16kHz
		"-ac", "1",     // mono
		"-y",           // overwrite
		audioPath,
	}
}
