package shotframe

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func stripedImage(w, h int, cs ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, cs[x*len(cs)/w])
		}
	}
	return img
}

func TestParsePalette(t *testing.T) {
	t.Run("hex list keeps input order and values", func(t *testing.T) {
		p, err := ParsePalette("#FF5733,#3498DB,#2ECC71")
		require.NoError(t, err)
		require.Len(t, p, 3)
		got := p.RGB255()
		assert.Equal(t, [3]uint8{0xFF, 0x57, 0x33}, got[0])
		assert.Equal(t, [3]uint8{0x34, 0x98, 0xDB}, got[1])
		assert.Equal(t, [3]uint8{0x2E, 0xCC, 0x71}, got[2])
	})

	t.Run("leading # is optional and short form works", func(t *testing.T) {
		p, err := ParsePalette("ff0000, #0f0")
		require.NoError(t, err)
		require.Len(t, p, 2)
		got := p.RGB255()
		assert.Equal(t, [3]uint8{255, 0, 0}, got[0])
		assert.Equal(t, [3]uint8{0, 255, 0}, got[1])
	})

	t.Run("preset names resolve", func(t *testing.T) {
		p, err := ParsePalette("sunset")
		require.NoError(t, err)
		assert.Len(t, p, 4)
		assert.Equal(t, [3]uint8{255, 150, 100}, p.RGB255()[0])
	})

	t.Run("malformed token names the offender", func(t *testing.T) {
		_, err := ParsePalette("#FF5733,notacolor")
		require.ErrorIs(t, err, ErrInvalidPaletteInput)
		assert.Contains(t, err.Error(), "notacolor")
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := ParsePalette(" , ")
		require.ErrorIs(t, err, ErrInvalidPaletteInput)
	})
}

func TestPresetPalette(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := PresetPalette(name)
		require.NoError(t, err, name)
		assert.GreaterOrEqual(t, len(p), 3, name)
	}

	_, err := PresetPalette("neon")
	require.ErrorIs(t, err, ErrInvalidPaletteInput)
}

func TestExtractPalette(t *testing.T) {
	t.Run("multi-color image yields 2 to 6 colors", func(t *testing.T) {
		img := stripedImage(120, 80,
			color.NRGBA{220, 40, 40, 255},
			color.NRGBA{40, 200, 60, 255},
			color.NRGBA{40, 60, 220, 255},
			color.NRGBA{230, 220, 50, 255},
		)
		p, err := ExtractPalette(img, 4)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(p), 2)
		assert.LessOrEqual(t, len(p), 6)
	})

	t.Run("uniform image still yields two distinct colors", func(t *testing.T) {
		img := uniformImage(64, 64, color.NRGBA{180, 40, 90, 255})
		p, err := ExtractPalette(img, 4)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(p), 2)
		assert.Greater(t, p[0].DistanceLab(p[1]), 0.0, "variant color must differ from the dominant one")
	})

	t.Run("uniform white image gets a darker variant", func(t *testing.T) {
		img := uniformImage(32, 32, color.NRGBA{255, 255, 255, 255})
		p, err := ExtractPalette(img, 3)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(p), 2)
		assert.Greater(t, p[0].DistanceLab(p[1]), 0.0)
	})

	t.Run("k is clamped to the valid range", func(t *testing.T) {
		img := stripedImage(60, 40,
			color.NRGBA{220, 40, 40, 255},
			color.NRGBA{40, 60, 220, 255},
		)
		p, err := ExtractPalette(img, 99)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(p), 6)
	})

	t.Run("nil image is rejected", func(t *testing.T) {
		_, err := ExtractPalette(nil, 4)
		require.ErrorIs(t, err, ErrInvalidPaletteInput)
	})
}

func TestSoften(t *testing.T) {
	p, err := ParsePalette("#C81E1E")
	require.NoError(t, err)
	soft := p.Soften()
	require.Len(t, soft, 1)

	_, s0, _ := p[0].Hsv()
	_, s1, v1 := soft[0].Hsv()
	assert.Less(t, s1, s0, "softening must desaturate")
	assert.GreaterOrEqual(t, v1, 0.5, "softening must brighten")
}

func TestLighten(t *testing.T) {
	c := rgb(100, 100, 100)
	light := Lighten(c, 0.5)
	assert.InDelta(t, 0.696, light.R, 0.001)
	assert.InDelta(t, 0.696, light.G, 0.001)
	assert.InDelta(t, 0.696, light.B, 0.001)
	assert.Equal(t, c, Lighten(c, 0), "factor 0 is a no-op")
}
