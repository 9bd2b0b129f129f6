package overlay

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RGBA is a parsed color with an 8-bit alpha channel.
type RGBA struct {
	R, G, B, A uint8
}

var (
	hexPattern  = regexp.MustCompile(`^#?([0-9a-fA-F]{6})([0-9a-fA-F]{2})?$`)
	rgbaPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)$`)
)

// ParseColor accepts "#RRGGBB", "#RRGGBBAA", "rgb(r,g,b)" and
// "rgba(r,g,b,a)" with a in [0,1]. A hex color without an alpha channel is
// treated as fully opaque.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)

	if m := hexPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseUint(m[1], 16, 32)
		c := RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		if m[2] != "" {
			a, _ := strconv.ParseUint(m[2], 16, 8)
			c.A = uint8(a)
		}
		return c, nil
	}

	if m := rgbaPattern.FindStringSubmatch(strings.ToLower(s)); m != nil {
		r, err1 := strconv.Atoi(m[1])
		g, err2 := strconv.Atoi(m[2])
		b, err3 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil || err3 != nil || r > 255 || g > 255 || b > 255 {
			return RGBA{}, fmt.Errorf("channel out of range in %q", s)
		}
		c := RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
		if m[4] != "" {
			a, err := strconv.ParseFloat(m[4], 64)
			if err != nil || a < 0 || a > 1 {
				return RGBA{}, fmt.Errorf("alpha out of range in %q", s)
			}
			c.A = uint8(math.Round(a * 255))
		}
		return c, nil
	}

	return RGBA{}, fmt.Errorf("unrecognized color %q", s)
}

// FFmpeg renders the color in ffmpeg's hex-with-alpha form, e.g. 0xFF000080.
func (c RGBA) FFmpeg() string {
	return fmt.Sprintf("0x%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Hex renders the color as #RRGGBBAA.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
