package gifenc

import (
	"log"
	"regexp"
	"strings"
)

const (
	DefaultFontName  = "arial"
	DefaultFontColor = "FFFFFF"
	// minFontSize is the legibility floor for burned-in captions.
	minFontSize = 24
)

var hexColorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// FontOptions is the caption style shared by every segment of a request.
// Validated once at the request boundary; malformed input falls back to
// defaults rather than failing the request.
type FontOptions struct {
	Name string
	// Size in pixels. Floored to the legibility minimum.
	Size int
	// Color as six hex digits, no leading '#'.
	Color string
}

// ParseFontOptions normalizes caller-supplied style values. name is
// lowercased; size below the floor (or unparseable, passed as <= 0) uses the
// floor; color accepts an optional '#' prefix and must be six hex digits.
func ParseFontOptions(name string, size int, color string) FontOptions {
	opts := FontOptions{Name: strings.ToLower(strings.TrimSpace(name)), Size: size, Color: color}

	if opts.Name == "" {
		opts.Name = DefaultFontName
	}

	if opts.Size < minFontSize {
		if opts.Size > 0 {
			log.Printf("[gifenc] font size %d below minimum, using %d", opts.Size, minFontSize)
		}
		opts.Size = minFontSize
	}

	opts.Color = strings.TrimPrefix(opts.Color, "#")
	if !hexColorRe.MatchString(opts.Color) {
		if opts.Color != "" {
			log.Printf("[gifenc] invalid font color %q, using default #%s", color, DefaultFontColor)
		}
		opts.Color = DefaultFontColor
	}

	return opts
}

// sizeFor scales the font to the video: 5% of the frame height, never below
// the configured size or the legibility floor.
func (f FontOptions) sizeFor(videoHeight int) int {
	size := int(float64(videoHeight)*0.05 + 0.5)
	if size < f.Size {
		size = f.Size
	}
	if size < minFontSize {
		size = minFontSize
	}
	return size
}
