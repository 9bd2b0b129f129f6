package overlay

import "strings"

// maxLineWidth is the horizontal pixel budget available to a text line on the
// vertical canvas, used to derive a character count per font size.
const maxLineWidth = 800.0

// avgGlyphWidthRatio approximates glyph width as a fraction of font size for
// the bundled sans fonts.
const avgGlyphWidthRatio = 0.6

// MaxCharsPerLine returns the character budget for one line at the given font
// size.
func MaxCharsPerLine(fontSize int) int {
	n := int(maxLineWidth / (float64(fontSize) * avgGlyphWidthRatio))
	if n < 1 {
		n = 1
	}
	return n
}

// Wrap splits text into lines bounded by the character budget for fontSize.
// Words are kept whole; a word longer than the budget gets its own line.
func Wrap(text string, fontSize int) []string {
	return wrapByWidth(strings.Fields(text), MaxCharsPerLine(fontSize))
}

// wrapWords groups text into lines of at most perLine words each.
func wrapWords(text string, perLine int) []string {
	if perLine < 1 {
		perLine = 1
	}
	words := strings.Fields(text)
	lines := make([]string, 0, (len(words)+perLine-1)/perLine)
	for start := 0; start < len(words); start += perLine {
		end := start + perLine
		if end > len(words) {
			end = len(words)
		}
		lines = append(lines, strings.Join(words[start:end], " "))
	}
	return lines
}

func wrapByWidth(words []string, budget int) []string {
	var lines []string
	var cur strings.Builder

	for _, w := range words {
		if cur.Len() == 0 {
			cur.WriteString(w)
			continue
		}
		if cur.Len()+1+len(w) > budget {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
