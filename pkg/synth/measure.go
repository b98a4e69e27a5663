package synth

import "strings"

// Text measurement must be deterministic and font-independent so that layout
// and cache keys never depend on the host's installed fonts. We approximate
// with fixed per-glyph metrics; the renderer uses the same constants.
const (
	glyphWidthFactor = 0.6
	lineHeightFactor = 1.25
)

// MeasureText returns the approximate pixel size of text at the given font
// size. Multi-line text measures as the widest line times the line count.
func MeasureText(text string, fontSize float64) (width, height float64) {
	lines := strings.Split(text, "\n")
	maxLen := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	width = float64(maxLen) * fontSize * glyphWidthFactor
	height = float64(len(lines)) * fontSize * lineHeightFactor
	return width, height
}
