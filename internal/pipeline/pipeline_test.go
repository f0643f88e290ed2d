package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/capgif/backend/internal/gifenc"
	"github.com/capgif/backend/internal/mediainfo"
	"github.com/capgif/backend/internal/segment"
	"github.com/capgif/backend/internal/subtitle"
	"github.com/capgif/backend/internal/whisper"
)

type fakeProber struct {
	meta *mediainfo.VideoMeta
	err  error
}

func (f *fakeProber) Probe(ctx context.Context, videoPath string) (*mediainfo.VideoMeta, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := *f.meta
	m.Path = videoPath
	return &m, nil
}

type fakeExtractor struct {
	calls int
	err   error
	dir   string
}

func (f *fakeExtractor) ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "audio.wav")
	os.WriteFile(path, []byte("RIFF"), 0644)
	return path, nil
}

type fakeTranscriber struct {
	srtContent string
	err        error
	dir        string
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*whisper.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	os.Remove(audioPath)
	srtPath := filepath.Join(f.dir, "out.srt")
	os.WriteFile(srtPath, []byte(f.srtContent), 0644)
	return &whisper.Result{SRTPath: srtPath, TranscriptLines: []string{"hello", "world"}}, nil
}

type fakeSynth struct {
	calls [][]segment.Resolved
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, meta *mediainfo.VideoMeta, segments []segment.Resolved, font gifenc.FontOptions) ([]string, error) {
	f.calls = append(f.calls, segments)
	if f.err != nil {
		return nil, f.err
	}
	paths := make([]string, len(segments))
	for i := range segments {
		paths[i] = fmt.Sprintf("/gifs/gif-%d.gif", i)
	}
	return paths, nil
}

// cueSRT builds an SRT with n sequential one-second cues, two seconds apart.
func cueSRT(n int) string {
	var s string
	for i := 0; i < n; i++ {
		s += fmt.Sprintf("%d\n%s --> %s\ncue %d\n\n",
			i+1,
			subtitle.FormatTimecode(float64(i*2)),
			subtitle.FormatTimecode(float64(i*2+1)),
			i+1)
	}
	return s
}

func newTestPipeline(t *testing.T, trans Transcriber, synth Synthesizer) (*Pipeline, *fakeExtractor, string) {
	t.Helper()
	dir := t.TempDir()
	p := New(trans, synth, Options{
		AudioDir:       dir,
		MatchTolerance: 0.5,
		MaxSegments:    5,
	})
	ext := &fakeExtractor{dir: dir}
	p.SetStages(&fakeProber{meta: &mediainfo.VideoMeta{Duration: 20, Width: 640, Height: 480}}, ext)
	return p, ext, dir
}

func writeUpload(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "upload.mp4")
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDefaultPolicyFirstFive(t *testing.T) {
	dir := t.TempDir()
	trans := &fakeTranscriber{srtContent: cueSRT(7), dir: dir}
	synth := &fakeSynth{}
	p, _, _ := newTestPipeline(t, trans, synth)

	video := writeUpload(t, dir)
	result, err := p.Run(context.Background(), Request{VideoPath: video})
	if err != nil {
		t.Fatal(err)
	}

	// 20s video, 7 detected segments, no requested ranges: exactly 5 GIFs in
	// chronological order.
	if len(result.GifPaths) != 5 {
		t.Fatalf("expected 5 gifs, got %d", len(result.GifPaths))
	}
	if len(synth.calls) != 1 {
		t.Fatalf("synthesizer called %d times, want 1", len(synth.calls))
	}
	if len(synth.calls[0]) != 5 {
		t.Fatalf("synthesizer received %d segments, want 5", len(synth.calls[0]))
	}
	for i, seg := range synth.calls[0] {
		if seg.UserStart != float64(i*2) {
			t.Errorf("segment %d start = %g, want %d", i, seg.UserStart, i*2)
		}
	}
	if len(result.Transcript) != 2 {
		t.Errorf("transcript lines = %v", result.Transcript)
	}
}

func TestRunTooManyRangesFailsBeforeExtraction(t *testing.T) {
	dir := t.TempDir()
	trans := &fakeTranscriber{srtContent: cueSRT(3), dir: dir}
	synth := &fakeSynth{}
	p, ext, _ := newTestPipeline(t, trans, synth)

	ranges := make([]segment.Range, 6)
	for i := range ranges {
		ranges[i] = segment.Range{Start: float64(i), End: float64(i) + 1}
	}

	video := writeUpload(t, dir)
	_, err := p.Run(context.Background(), Request{VideoPath: video, Ranges: ranges})

	var pErr *Error
	if !errors.As(err, &pErr) || pErr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ext.calls != 0 {
		t.Errorf("extraction ran %d times before validation failure", ext.calls)
	}
	if len(synth.calls) != 0 {
		t.Error("synthesis ran despite validation failure")
	}
}

func TestRunErrorKinds(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name  string
		setup func(p *Pipeline, ext *fakeExtractor, trans *fakeTranscriber, synth *fakeSynth)
		want  Kind
	}{
		{
			"probe failure",
			func(p *Pipeline, _ *fakeExtractor, _ *fakeTranscriber, _ *fakeSynth) {
				p.SetStages(&fakeProber{err: mediainfo.ErrNoDuration}, nil)
			},
			KindProbe,
		},
		{
			"extraction failure",
			func(_ *Pipeline, ext *fakeExtractor, _ *fakeTranscriber, _ *fakeSynth) {
				ext.err = errors.New("decode failed")
			},
			KindExtraction,
		},
		{
			"transcription failure",
			func(_ *Pipeline, _ *fakeExtractor, trans *fakeTranscriber, _ *fakeSynth) {
				trans.err = errors.New("whisper exited 1")
			},
			KindTranscription,
		},
		{
			"missing engine",
			func(_ *Pipeline, _ *fakeExtractor, trans *fakeTranscriber, _ *fakeSynth) {
				trans.err = fmt.Errorf("%w: binary not found", whisper.ErrNotConfigured)
			},
			KindConfiguration,
		},
		{
			"synthesis failure",
			func(_ *Pipeline, _ *fakeExtractor, _ *fakeTranscriber, synth *fakeSynth) {
				synth.err = errors.New("encode boom")
			},
			KindSynthesis,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trans := &fakeTranscriber{srtContent: cueSRT(3), dir: dir}
			synth := &fakeSynth{}
			p, ext, _ := newTestPipeline(t, trans, synth)
			tc.setup(p, ext, trans, synth)

			video := writeUpload(t, dir)
			_, err := p.Run(context.Background(), Request{VideoPath: video})

			var pErr *Error
			if !errors.As(err, &pErr) {
				t.Fatalf("expected pipeline error, got %v", err)
			}
			if pErr.Kind != tc.want {
				t.Errorf("kind = %s, want %s", pErr.Kind, tc.want)
			}
		})
	}
}

func TestRunCleansUpUpload(t *testing.T) {
	dir := t.TempDir()
	trans := &fakeTranscriber{srtContent: cueSRT(2), dir: dir}
	synth := &fakeSynth{}
	p, _, _ := newTestPipeline(t, trans, synth)

	video := writeUpload(t, dir)
	if _, err := p.Run(context.Background(), Request{VideoPath: video}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(video); !os.IsNotExist(err) {
		t.Error("uploaded video not deleted after successful run")
	}
}

func TestRunCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	trans := &fakeTranscriber{srtContent: cueSRT(2), dir: dir}
	synth := &fakeSynth{err: errors.New("encode boom")}
	p, _, _ := newTestPipeline(t, trans, synth)

	video := writeUpload(t, dir)
	if _, err := p.Run(context.Background(), Request{VideoPath: video}); err == nil {
		t.Fatal("expected failure")
	}

	if _, err := os.Stat(video); !os.IsNotExist(err) {
		t.Error("uploaded video not deleted after failed run")
	}
}

func TestRunNoSpeechNoRanges(t *testing.T) {
	dir := t.TempDir()
	trans := &fakeTranscriber{srtContent: "", dir: dir}
	synth := &fakeSynth{}
	p, _, _ := newTestPipeline(t, trans, synth)

	video := writeUpload(t, dir)
	_, err := p.Run(context.Background(), Request{VideoPath: video})

	var pErr *Error
	if !errors.As(err, &pErr) || pErr.Kind != KindValidation {
		t.Fatalf("expected validation error when nothing can be synthesized, got %v", err)
	}
}
