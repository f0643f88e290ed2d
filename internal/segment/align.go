package segment

import (
	"fmt"
	"log"

	"github.com/capgif/backend/internal/subtitle"
)

// Aligner turns requested ranges (or the default first-N policy) and detected
// speech cues into resolved segments.
type Aligner struct {
	// Tolerance widens the requested window on both edges when matching
	// detected speech, absorbing sub-second scrubbing misalignment.
	Tolerance float64
	// MaxSegments caps both the number of accepted ranges and the default
	// policy's segment count.
	MaxSegments int
}

// ValidateRanges checks the caller's ranges against the video duration.
// It must pass before any synthesis side effect occurs.
func (a Aligner) ValidateRanges(ranges []Range, duration float64) error {
	if len(ranges) > a.MaxSegments {
		return fmt.Errorf("at most %d ranges may be selected, got %d", a.MaxSegments, len(ranges))
	}
	for _, r := range ranges {
		if r.Start < 0 || r.End <= r.Start || r.End > duration {
			return fmt.Errorf("invalid range: start (%gs) must be less than end (%gs), within the video duration (%gs)",
				r.Start, r.End, duration)
		}
	}
	return nil
}

// Align resolves the segments to synthesize. With ranges present, each range
// keeps the caller's own cut bounds and borrows caption text from a speech
// cue lying within the tolerance-widened window; a range with no match is
// still honored with an empty caption. With no ranges, the first MaxSegments
// speech cues are taken verbatim. Segments whose clamped start reaches the
// video duration are dropped, not failed.
func (a Aligner) Align(ranges []Range, speech []subtitle.Cue, duration float64) []Resolved {
	var resolved []Resolved

	if len(ranges) > 0 {
		for _, r := range ranges {
			text := r.Text
			if text == "" {
				if cue, ok := a.match(r, speech); ok {
					text = cue.Text
				} else {
					log.Printf("[align] no speech segment found for range %g-%gs, caption will be empty", r.Start, r.End)
				}
			}
			resolved = append(resolved, resolve(r.Start, r.End, text, duration)...)
		}
		return resolved
	}

	limit := a.MaxSegments
	if limit > len(speech) {
		limit = len(speech)
	}
	for _, cue := range speech[:limit] {
		resolved = append(resolved, resolve(cue.Start, cue.End, cue.Text, duration)...)
	}
	return resolved
}

// match finds the first speech cue fully inside [start-tolerance, end+tolerance].
func (a Aligner) match(r Range, speech []subtitle.Cue) (subtitle.Cue, bool) {
	for _, cue := range speech {
		if cue.Start >= r.Start-a.Tolerance && cue.End <= r.End+a.Tolerance {
			return cue, true
		}
	}
	return subtitle.Cue{}, false
}

// resolve clamps the cut window to [0, duration] and derives the caption
// display window relative to the GIF start. Returns zero or one segment.
func resolve(start, end float64, text string, duration float64) []Resolved {
	gifStart := start
	if gifStart < 0 {
		gifStart = 0
	}
	gifEnd := end
	if gifEnd > duration {
		gifEnd = duration
	}
	if gifStart >= duration {
		log.Printf("[align] skipping segment %g-%gs: start exceeds video duration %gs", start, end, duration)
		return nil
	}

	// The caption stays visible for the whole GIF; the floor guarantees a
	// non-empty window when the range is degenerate.
	captionStart := start - gifStart
	if captionStart < 0 {
		captionStart = 0
	}
	captionEnd := end - gifStart
	if captionEnd < captionStart+minCaptionDuration {
		captionEnd = captionStart + minCaptionDuration
	}

	return []Resolved{{
		UserStart:    gifStart,
		UserEnd:      gifEnd,
		CaptionStart: captionStart,
		CaptionEnd:   captionEnd,
		Text:         text,
	}}
}
