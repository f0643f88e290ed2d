package mediainfo

import (
	"strings"
	"testing"
)

func TestExtractAudioArgs(t *testing.T) {
	args := extractAudioArgs("/uploads/in.mp4", "/audio/out.wav")
	joined := strings.Join(args, " ")

	// Whisper requires mono 16kHz 16-bit PCM.
	for _, want := range []string{
		"-i /uploads/in.mp4",
		"-vn",
		"-acodec pcm_s16le",
		"-ar 16000",
		"-ac 1",
		"/audio/out.wav",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}
