package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorHex(t *testing.T) {
	c, err := ParseColor("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 0xff, A: 0xff}, c, "hex without alpha is fully opaque")

	c, err = ParseColor("00FF00")
	require.NoError(t, err)
	assert.Equal(t, RGBA{G: 0xff, A: 0xff}, c, "leading # is optional")

	c, err = ParseColor("#0000FF80")
	require.NoError(t, err)
	assert.Equal(t, RGBA{B: 0xff, A: 0x80}, c)
}

func TestParseColorRGBA(t *testing.T) {
	// rgba(255,0,0,0.5): alpha 127.5 rounds to 128 = 0x80.
	c, err := ParseColor("rgba(255,0,0,0.5)")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), c.R)
	assert.Equal(t, uint8(0x80), c.A)
	assert.Equal(t, "0xFF000080", c.FFmpeg())

	c, err = ParseColor("rgb(12, 34, 56)")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 12, G: 34, B: 56, A: 0xff}, c)

	c, err = ParseColor("rgba(0, 0, 0, 1)")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), c.A)
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "red-ish", "#12345", "rgba(300,0,0,0.5)", "rgba(0,0,0,1.5)"} {
		_, err := ParseColor(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestFFmpegEncoding(t *testing.T) {
	c, err := ParseColor("#FFFFFF")
	require.NoError(t, err)
	assert.Equal(t, "0xFFFFFFFF", c.FFmpeg())
	assert.Equal(t, "#FFFFFFFF", c.Hex())
}
