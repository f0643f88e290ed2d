// Package whisper invokes a local whisper.cpp CLI build as an external
// process to transcribe extracted audio.
package whisper

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// ErrNotConfigured reports a missing binary or model. This is a deployment
// problem, not a per-request one, and is never retried.
var ErrNotConfigured = errors.New("whisper engine not configured")

// Result is the output of a successful transcription. The SRT file survives
// for the parsing stage; the audio and plain-text transcript are already
// consumed and deleted.
type Result struct {
	SRTPath         string
	TranscriptLines []string
}

// CLI runs the whisper-cli binary with a local model.
type CLI struct {
	BinPath   string
	ModelPath string
}

func New(binPath, modelPath string) *CLI {
	return &CLI{BinPath: binPath, ModelPath: modelPath}
}

func (c *CLI) Name() string {
	return "whisper.cpp"
}

// Preflight verifies the binary and model exist at their configured paths.
func (c *CLI) Preflight() error {
	if _, err := os.Stat(c.BinPath); err != nil {
		return fmt.Errorf("%w: binary not found at %s", ErrNotConfigured, c.BinPath)
	}
	if _, err := os.Stat(c.ModelPath); err != nil {
		return fmt.Errorf("%w: model not found at %s", ErrNotConfigured, c.ModelPath)
	}
	return nil
}

// Transcribe runs whisper-cli on the audio file, producing <prefix>.srt and
// <prefix>.txt next to the audio. On success it reads the transcript into
// trimmed lines, then deletes the audio file and the transcript file: their
// content has been captured and only the SRT moves to the next stage.
func (c *CLI) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if err := c.Preflight(); err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(audioPath, ".wav")
	txtPath := prefix + ".txt"
	srtPath := prefix + ".srt"

	cmd := exec.CommandContext(ctx, c.BinPath, c.args(audioPath, prefix)...)

	log.Printf("[whisper] transcribing %s (model %s)", audioPath, c.ModelPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper: %s: %w", strings.TrimSpace(string(output)), err)
	}

	// The CLI exits zero even on some partial failures; both outputs must
	// exist for the run to count.
	if _, err := os.Stat(txtPath); err != nil {
		return nil, fmt.Errorf("whisper produced no transcript at %s", txtPath)
	}
	if _, err := os.Stat(srtPath); err != nil {
		return nil, fmt.Errorf("whisper produced no subtitles at %s", srtPath)
	}

	lines, err := readLines(txtPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	for _, p := range []string{audioPath, txtPath} {
		if err := os.Remove(p); err != nil {
			log.Printf("[whisper] cleanup warning: failed to delete %s: %v", p, err)
		}
	}

	log.Printf("[whisper] transcription complete: %s (%d transcript lines)", srtPath, len(lines))
	return &Result{SRTPath: srtPath, TranscriptLines: lines}, nil
}

func (c *CLI) args(audioPath, outputPrefix string) []string {
	return []string{
		"--file", audioPath,
		"--model", c.ModelPath,
		"--output-txt",
		"--output-srt",
		"--output-file", outputPrefix,
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
