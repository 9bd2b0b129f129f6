// Package overlay turns a quote and a style descriptor into a renderable
// text-overlay specification: sanitized wrapped lines, per-line placement, and
// time-parameterized animation envelopes shared by every rendering backend.
package overlay

import (
	"fmt"

	"quotereel/internal/pkg/errors"
)

// Position is the vertical placement of the overlay block.
type Position int

const (
	PositionCenter Position = iota
	PositionTop
	PositionBottom
)

var positionNames = map[Position]string{
	PositionCenter: "center",
	PositionTop:    "top",
	PositionBottom: "bottom",
}

func (p Position) String() string { return positionNames[p] }

// ParsePosition validates a position name from the API.
func ParsePosition(s string) (Position, error) {
	for p, name := range positionNames {
		if name == s {
			return p, nil
		}
	}
	return PositionCenter, errors.ValidationField("position", fmt.Sprintf("unknown position %q", s))
}

// AnimationKind is the closed set of overlay animations. Names are stable
// across the API.
type AnimationKind int

const (
	AnimNone AnimationKind = iota
	AnimFadeIn
	AnimFadeOut
	AnimSlideInLeft
	AnimSlideInRight
	AnimSlideInTop
	AnimSlideInBottom
	AnimZoomIn
	AnimBounceIn
	AnimPulse
	AnimShake
	AnimTypewriter
	AnimRotateIn
)

var animationNames = map[AnimationKind]string{
	AnimNone:          "none",
	AnimFadeIn:        "fade-in",
	AnimFadeOut:       "fade-out",
	AnimSlideInLeft:   "slide-in-left",
	AnimSlideInRight:  "slide-in-right",
	AnimSlideInTop:    "slide-in-top",
	AnimSlideInBottom: "slide-in-bottom",
	AnimZoomIn:        "zoom-in",
	AnimBounceIn:      "bounce-in",
	AnimPulse:         "pulse",
	AnimShake:         "shake",
	AnimTypewriter:    "typewriter",
	AnimRotateIn:      "rotate-in",
}

func (a AnimationKind) String() string { return animationNames[a] }

// ParseAnimation validates an animation name from the API.
func ParseAnimation(s string) (AnimationKind, error) {
	for a, name := range animationNames {
		if name == s {
			return a, nil
		}
	}
	return AnimNone, errors.ValidationField("animation", fmt.Sprintf("unknown animation %q", s))
}

// AnimationKinds returns every valid animation name.
func AnimationKinds() []string {
	out := make([]string, 0, len(animationNames))
	for a := AnimNone; a <= AnimRotateIn; a++ {
		out = append(out, animationNames[a])
	}
	return out
}

const (
	MinFontSize = 10
	MaxFontSize = 200
)

// Style is a fully resolved text presentation for one job. Immutable once
// constructed.
type Style struct {
	FontFamily      string
	FontSize        int
	FontColor       string
	Position        Position
	BackgroundColor string // empty means no background box
	Animation       AnimationKind
}

// Validate checks field bounds after defaults have been applied.
func (s Style) Validate() error {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return errors.ValidationField("fontSize",
			fmt.Sprintf("font size must be between %d and %d", MinFontSize, MaxFontSize))
	}
	if _, err := ParseColor(s.FontColor); err != nil {
		return errors.ValidationField("fontColor", err.Error())
	}
	if s.BackgroundColor != "" {
		if _, err := ParseColor(s.BackgroundColor); err != nil {
			return errors.ValidationField("backgroundColor", err.Error())
		}
	}
	return nil
}

// LineHeight is the vertical stride between stacked overlay lines.
func (s Style) LineHeight() int {
	return s.FontSize + 10
}
