// Package segment reconciles caller-requested time ranges with speech
// detected by transcription, producing the resolved segments the encoder
// consumes.
package segment

// Range is a caller-supplied cut window. Text, when non-empty, is a custom
// caption that bypasses speech matching entirely.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text,omitempty"`
}

// Resolved is one unit of GIF synthesis: the cut window in source-video time
// plus a caption display window relative to the GIF's own start.
type Resolved struct {
	UserStart    float64
	UserEnd      float64
	CaptionStart float64
	CaptionEnd   float64
	Text         string
}

// minCaptionDuration guarantees a visible caption window even when the
// caller's range is degenerate.
const minCaptionDuration = 0.1
