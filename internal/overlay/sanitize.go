package overlay

import "strings"

// punctReplacer normalizes typographic punctuation to plain ASCII so the
// renderer's fonts always have a glyph for it.
var punctReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"‛", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-",
	"…", "...", // ellipsis
	" ", " ", // no-break space
	"　", " ", // ideographic space
)

// Sanitize normalizes a quote for rendering: typographic punctuation becomes
// ASCII, zero-width and exotic whitespace is dropped, anything outside Latin-1
// (emoji, pictographs, dingbats) is stripped, and runs of whitespace collapse
// to single spaces. Idempotent.
func Sanitize(s string) string {
	s = punctReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r >= 0x2000 && r <= 0x200f: // en quad .. zero-width joiner, marks
			if r <= 0x200a {
				b.WriteByte(' ')
			}
		case r == 0x2028 || r == 0x2029: // line/paragraph separators
			b.WriteByte(' ')
		case r == 0xfeff: // BOM / zero-width no-break space
		case r < 0x20:
		case r > 0xff: // outside Latin-1: emoji, symbols, CJK
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
