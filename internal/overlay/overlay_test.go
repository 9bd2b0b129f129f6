package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotereel/internal/pkg/errors"
)

func testStyle() Style {
	return Style{
		FontFamily: "Arial",
		FontSize:   60,
		FontColor:  "#FFFFFF",
		Position:   PositionCenter,
		Animation:  AnimFadeIn,
	}
}

func TestBuildBasic(t *testing.T) {
	spec, err := Builder{}.Build("Stay focused.", testStyle(), 8)
	require.NoError(t, err)

	assert.Equal(t, []string{"Stay focused."}, spec.Lines)
	assert.Equal(t, 4.0, spec.AnimDuration, "animation window is half the duration")
	assert.Equal(t, 8.0, spec.Duration)
	assert.False(t, spec.HasBox)
	assert.NotEmpty(t, spec.FontFile)
}

func TestBuildSanitizesBeforeWrapping(t *testing.T) {
	spec, err := Builder{}.Build("“Stay”  focused… 🔥", testStyle(), 8)
	require.NoError(t, err)
	assert.Equal(t, []string{`"Stay" focused...`}, spec.Lines)
}

func TestBuildEmptyAfterSanitize(t *testing.T) {
	_, err := Builder{}.Build("🔥🚀✨", testStyle(), 8)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestBuildUnknownDurationFallback(t *testing.T) {
	spec, err := Builder{}.Build("hello", testStyle(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, spec.AnimDuration)
}

func TestBuildBackgroundBox(t *testing.T) {
	style := testStyle()
	style.BackgroundColor = "rgba(0,0,0,0.5)"

	spec, err := Builder{}.Build("hello", style, 8)
	require.NoError(t, err)
	require.True(t, spec.HasBox)
	assert.Equal(t, "0x00000080", spec.BoxColor.FFmpeg())
}

func TestBuildRejectsBadStyle(t *testing.T) {
	style := testStyle()
	style.FontSize = 500
	_, err := Builder{}.Build("hello", style, 8)
	assert.True(t, errors.IsValidation(err))

	style = testStyle()
	style.FontColor = "not-a-color"
	_, err = Builder{}.Build("hello", style, 8)
	assert.True(t, errors.IsValidation(err))
}

func TestBaseYPositions(t *testing.T) {
	style := testStyle() // fontSize 60 -> lineHeight 70
	spec := &Spec{Lines: []string{"a", "b"}, Style: style}
	const frameH = 1920.0

	assert.Equal(t, 140, spec.BlockHeight())

	spec.Style.Position = PositionTop
	assert.Equal(t, 50.0, spec.BaseY(0, frameH))
	assert.Equal(t, 120.0, spec.BaseY(1, frameH))
	assert.Equal(t, "50", spec.BaseYExpr(0))

	spec.Style.Position = PositionBottom
	assert.Equal(t, frameH-140-50, spec.BaseY(0, frameH))
	assert.Equal(t, "h-190", spec.BaseYExpr(0))
	assert.Equal(t, "h-120", spec.BaseYExpr(1))

	spec.Style.Position = PositionCenter
	assert.Equal(t, (frameH-140)/2, spec.BaseY(0, frameH))
	assert.Equal(t, "(h-140)/2+0", spec.BaseYExpr(0))
	assert.Equal(t, "(h-140)/2+70", spec.BaseYExpr(1))
}

func TestParseAnimationClosedSet(t *testing.T) {
	for _, name := range AnimationKinds() {
		kind, err := ParseAnimation(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, kind.String())
	}

	_, err := ParseAnimation("spin")
	assert.True(t, errors.IsValidation(err))
}

func TestParsePosition(t *testing.T) {
	for _, name := range []string{"top", "center", "bottom"} {
		p, err := ParsePosition(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}
	_, err := ParsePosition("middle")
	assert.True(t, errors.IsValidation(err))
}
