package subtitle

import "strings"

// WrapText greedily packs words into lines of at most maxChars characters,
// never breaking inside a word. Lines are joined with a literal `\n` token,
// which the ffmpeg subtitles filter renders as a line break. A string that
// already fits on one line is returned unchanged.
func WrapText(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	words := strings.Fields(text)
	var lines []string
	var current string

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) <= maxChars {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}

	return strings.Join(lines, `\n`)
}
