package overlay

import (
	"fmt"

	"quotereel/internal/pkg/errors"
)

// edgePadding is the vertical gap kept between the overlay block and the
// frame edge for top/bottom placement.
const edgePadding = 50

// Spec is the complete text-overlay specification for one render: wrapped
// lines, resolved presentation, and the shared animation envelopes. Both
// renderer backends consume this and must honor identical timing semantics.
type Spec struct {
	Lines        []string
	Style        Style
	FontFile     string
	FontColor    RGBA
	BoxColor     RGBA // meaningful only when HasBox
	HasBox       bool
	Anim         Animation
	AnimDuration float64
	Duration     float64
	// YShift moves the whole block down, used to hang a subtitle block under
	// the quote block.
	YShift int
}

// Builder resolves fonts against a configured directory set.
type Builder struct {
	Fonts FontResolver
}

// Build produces the overlay spec for a sanitized quote. durationSeconds may
// be zero when the source duration is unknown; the animation window then
// falls back to a fixed two seconds.
func (b Builder) Build(quote string, style Style, durationSeconds float64) (*Spec, error) {
	clean := Sanitize(quote)
	if clean == "" {
		return nil, errors.ValidationField("quote", "quote is empty after sanitization")
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}

	fontColor, err := ParseColor(style.FontColor)
	if err != nil {
		return nil, errors.ValidationField("fontColor", err.Error())
	}

	spec := &Spec{
		Lines:        Wrap(clean, style.FontSize),
		Style:        style,
		FontFile:     b.Fonts.Resolve(style.FontFamily),
		FontColor:    fontColor,
		AnimDuration: AnimDuration(durationSeconds),
		Duration:     durationSeconds,
	}
	spec.Anim = BuildAnimation(style.Animation, spec.AnimDuration)

	if style.BackgroundColor != "" {
		boxColor, err := ParseColor(style.BackgroundColor)
		if err != nil {
			return nil, errors.ValidationField("backgroundColor", err.Error())
		}
		spec.BoxColor = boxColor
		spec.HasBox = true
	}

	return spec, nil
}

// BlockHeight is the total height of the stacked line block in pixels.
func (s *Spec) BlockHeight() int {
	return len(s.Lines) * s.Style.LineHeight()
}

// BaseY returns the resting vertical position of line i on a frame of the
// given pixel height. The block is anchored per the style's position and
// lines stack downward at LineHeight intervals.
func (s *Spec) BaseY(i int, frameHeight float64) float64 {
	lh := float64(s.Style.LineHeight())
	shift := float64(s.YShift)
	switch s.Style.Position {
	case PositionTop:
		return edgePadding + shift + float64(i)*lh
	case PositionBottom:
		return frameHeight - float64(s.BlockHeight()) - edgePadding + shift + float64(i)*lh
	default:
		return (frameHeight-float64(s.BlockHeight()))/2 + shift + float64(i)*lh
	}
}

// BaseYExpr returns BaseY as an ffmpeg expression in terms of the frame
// height symbol h.
func (s *Spec) BaseYExpr(i int) string {
	lh := s.Style.LineHeight()
	offset := i*lh + s.YShift
	switch s.Style.Position {
	case PositionTop:
		return fmt.Sprintf("%d", edgePadding+offset)
	case PositionBottom:
		if rest := s.BlockHeight() + edgePadding - offset; rest >= 0 {
			return fmt.Sprintf("h-%d", rest)
		} else {
			return fmt.Sprintf("h+%d", -rest)
		}
	default:
		return fmt.Sprintf("(h-%d)/2+%d", s.BlockHeight(), offset)
	}
}
