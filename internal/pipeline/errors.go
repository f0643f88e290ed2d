package pipeline

import "fmt"

// Kind classifies a fatal pipeline failure. Every stage error surfaces to
// the request boundary as exactly one Error; nothing is retried
// automatically.
type Kind string

const (
	// KindConfiguration is a deployment problem (missing engine binary or
	// model), not a per-request one.
	KindConfiguration Kind = "configuration"
	KindProbe         Kind = "probe"
	KindExtraction    Kind = "extraction"
	KindTranscription Kind = "transcription"
	KindParse         Kind = "parse"
	KindValidation    Kind = "validation"
	KindSynthesis     Kind = "synthesis"
)

// Error is the structured failure reported to the caller: a kind plus a
// descriptive message, with the stage error preserved for unwrapping.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

func stageErr(kind Kind, err error) *Error {
	return &Error{Kind: kind, err: err}
}
