// Package pipeline coordinates the stages that turn an uploaded video into
// captioned GIFs: probe, audio extraction, transcription, subtitle parsing,
// segment alignment, and per-segment GIF synthesis, plus cleanup of the
// intermediate artifacts each stage leaves behind.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/capgif/backend/internal/gifenc"
	"github.com/capgif/backend/internal/mediainfo"
	"github.com/capgif/backend/internal/segment"
	"github.com/capgif/backend/internal/subtitle"
	"github.com/capgif/backend/internal/whisper"
)

// Prober reports a video's duration and frame dimensions.
type Prober interface {
	Probe(ctx context.Context, videoPath string) (*mediainfo.VideoMeta, error)
}

// AudioExtractor produces a mono 16kHz PCM WAV from a video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error)
}

// Transcriber converts an audio file to subtitles plus a plain transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*whisper.Result, error)
	Name() string
}

// Synthesizer encodes resolved segments into GIFs.
type Synthesizer interface {
	Synthesize(ctx context.Context, meta *mediainfo.VideoMeta, segments []segment.Resolved, font gifenc.FontOptions) ([]string, error)
}

// Request is one generation run over an uploaded video.
type Request struct {
	VideoPath string
	Ranges    []segment.Range
	Font      gifenc.FontOptions
}

// Result is the all-or-nothing outcome of a run: every requested GIF was
// produced, in request-segment order.
type Result struct {
	GifPaths   []string
	Transcript []string
}

// Pipeline wires the stages together. Stages within one run are strictly
// sequential; distinct runs may execute concurrently, each on its own
// uploaded file.
type Pipeline struct {
	prober      Prober
	extractor   AudioExtractor
	transcriber Transcriber
	synthesizer Synthesizer
	aligner     segment.Aligner

	audioDir          string
	minSpeechDuration float64
}

type Options struct {
	AudioDir          string
	MatchTolerance    float64
	MaxSegments       int
	MinSpeechDuration float64
}

func New(transcriber Transcriber, synthesizer Synthesizer, opts Options) *Pipeline {
	return &Pipeline{
		prober:      proberFunc(mediainfo.Probe),
		extractor:   extractorFunc(mediainfo.ExtractAudio),
		transcriber: transcriber,
		synthesizer: synthesizer,
		aligner: segment.Aligner{
			Tolerance:   opts.MatchTolerance,
			MaxSegments: opts.MaxSegments,
		},
		audioDir:          opts.AudioDir,
		minSpeechDuration: opts.MinSpeechDuration,
	}
}

// Run executes the full pipeline for one request. On any fatal stage failure
// the typed *Error surfaces to the caller and no partial GIF list is
// returned; GIFs already encoded before the failure stay on disk until the
// output sweep reclaims them. The uploaded video and any remaining audio
// artifact are deleted whether the run succeeds or fails.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	var audioPath string
	defer func() {
		p.cleanupRequest(req.VideoPath, audioPath)
	}()

	meta, probeErr := p.prober.Probe(ctx, req.VideoPath)
	if probeErr != nil {
		return nil, stageErr(KindProbe, probeErr)
	}
	log.Printf("[pipeline] probed %s: %dx%d, %.2fs", req.VideoPath, meta.Width, meta.Height, meta.Duration)

	// Range validation happens before any extraction side effect: a request
	// that cannot succeed must not leave artifacts behind.
	if vErr := p.aligner.ValidateRanges(req.Ranges, meta.Duration); vErr != nil {
		return nil, stageErr(KindValidation, vErr)
	}

	audioPath, extractErr := p.extractor.ExtractAudio(ctx, req.VideoPath, p.audioDir)
	if extractErr != nil {
		return nil, stageErr(KindExtraction, extractErr)
	}
	log.Printf("[pipeline] extracted audio: %s", audioPath)

	trans, transErr := p.transcriber.Transcribe(ctx, audioPath)
	if transErr != nil {
		if errors.Is(transErr, whisper.ErrNotConfigured) {
			return nil, stageErr(KindConfiguration, transErr)
		}
		return nil, stageErr(KindTranscription, transErr)
	}
	// The transcriber consumed and deleted the audio artifact.
	audioPath = ""

	speech, parseErr := subtitle.ParseSRTFile(trans.SRTPath)
	if parseErr != nil {
		return nil, stageErr(KindParse, parseErr)
	}
	if rmErr := os.Remove(trans.SRTPath); rmErr != nil {
		log.Printf("[pipeline] cleanup warning: failed to delete %s: %v", trans.SRTPath, rmErr)
	}
	log.Printf("[pipeline] parsed %d speech segments", len(speech))

	if len(req.Ranges) == 0 {
		speech = subtitle.FilterMinDuration(speech, p.minSpeechDuration)
	}

	segments := p.aligner.Align(req.Ranges, speech, meta.Duration)
	if len(segments) == 0 {
		return nil, stageErr(KindValidation, fmt.Errorf("no segments to synthesize"))
	}

	gifPaths, synthErr := p.synthesizer.Synthesize(ctx, meta, segments, req.Font)
	if synthErr != nil {
		return nil, stageErr(KindSynthesis, synthErr)
	}

	log.Printf("[pipeline] generated %d gifs for %s", len(gifPaths), req.VideoPath)
	return &Result{GifPaths: gifPaths, Transcript: trans.TranscriptLines}, nil
}

// cleanupRequest removes the uploaded source and, if still present, the
// audio artifact. Deletion failures are logged and never escalated; they
// must not mask the primary result or error.
func (p *Pipeline) cleanupRequest(videoPath, audioPath string) {
	for _, path := range []string{videoPath, audioPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[pipeline] cleanup warning: failed to delete %s: %v", path, err)
		}
	}
}

// Function adapters so the concrete mediainfo calls satisfy the stage
// interfaces without a wrapper type per stage.

type proberFunc func(ctx context.Context, videoPath string) (*mediainfo.VideoMeta, error)

func (f proberFunc) Probe(ctx context.Context, videoPath string) (*mediainfo.VideoMeta, error) {
	return f(ctx, videoPath)
}

type extractorFunc func(ctx context.Context, videoPath, outDir string) (string, error)

func (f extractorFunc) ExtractAudio(ctx context.Context, videoPath, outDir string) (string, error) {
	return f(ctx, videoPath, outDir)
}

// SetStages overrides stage implementations; used by tests to substitute
// fakes for the external tools.
func (p *Pipeline) SetStages(prober Prober, extractor AudioExtractor) {
	if prober != nil {
		p.prober = prober
	}
	if extractor != nil {
		p.extractor = extractor
	}
}
