package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Cue is one timecoded caption entry. Start/End are seconds from the start of
// the media the cue belongs to.
type Cue struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

var timestampRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)

// ParseSRTFile reads and parses an SRT subtitle file.
func ParseSRTFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return ParseSRT(string(data)), nil
}

// ParseSRT parses SRT content into cues. The parser is permissive: cues whose
// timestamp line does not match the expected format are skipped, not reported.
// Cues are returned in source order.
func ParseSRT(content string) []Cue {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var cues []Cue
	var current *Cue
	index := 0

	flush := func() {
		if current != nil && current.Start < current.End {
			current.Text = strings.TrimSpace(current.Text)
			cues = append(cues, *current)
		}
		current = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		if m := timestampRe.FindStringSubmatch(line); m != nil {
			flush()
			index++
			current = &Cue{
				Index: index,
				Start: timecodeSeconds(m[1], m[2], m[3], m[4]),
				End:   timecodeSeconds(m[5], m[6], m[7], m[8]),
			}
			continue
		}

		// Sequence numbers appear between cues; anything else before a
		// timestamp line is malformed and ignored.
		if current == nil {
			continue
		}

		if current.Text != "" {
			current.Text += "\n"
		}
		current.Text += line
	}
	flush()

	return cues
}

// FilterMinDuration drops cues shorter than minDuration seconds. A
// non-positive minDuration returns the input unchanged.
func FilterMinDuration(cues []Cue, minDuration float64) []Cue {
	if minDuration <= 0 {
		return cues
	}
	out := make([]Cue, 0, len(cues))
	for _, c := range cues {
		if c.End-c.Start >= minDuration {
			out = append(out, c)
		}
	}
	return out
}

// WriteSingleCue writes a one-cue SRT file, the form the encoder burns in per
// segment.
func WriteSingleCue(path string, start, end float64, text string) error {
	content := fmt.Sprintf("1\n%s --> %s\n%s\n\n", FormatTimecode(start), FormatTimecode(end), text)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write cue file: %w", err)
	}
	return nil
}

// FormatTimecode renders seconds as an SRT timecode (HH:MM:SS,mmm).
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int(seconds*1000 + 0.5)
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func timecodeSeconds(h, m, s, ms string) float64 {
	return float64(atoi(h)*3600+atoi(m)*60+atoi(s)) + float64(atoi(ms))/1000.0
}

// atoi on pre-validated digit strings; the regexp guarantees the input.
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
