package shotframe

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBackgroundAllStyles(t *testing.T) {
	pal, err := ParsePalette("#FF5733,#3498DB,#2ECC71,#F4D03F")
	require.NoError(t, err)
	source := stripedImage(90, 180,
		color.NRGBA{230, 80, 40, 255},
		color.NRGBA{40, 120, 230, 255},
	)

	for _, style := range StyleNames() {
		t.Run(style, func(t *testing.T) {
			params := DefaultStyleParams(style)
			img, err := GenerateBackground(pal, 96, 120, params, source)
			require.NoError(t, err)
			b := img.Bounds()
			assert.Equal(t, 96, b.Dx())
			assert.Equal(t, 120, b.Dy())
			for i := 3; i < len(img.Pix); i += 4 {
				if img.Pix[i] != 255 {
					t.Fatalf("transparent pixel at offset %d (alpha %d)", i, img.Pix[i])
				}
			}
		})
	}
}

func TestGenerateBackgroundEmptyPaletteFallsBack(t *testing.T) {
	img, err := GenerateBackground(nil, 40, 40, DefaultStyleParams(StyleGradient), nil)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestGenerateBackgroundInvalidSize(t *testing.T) {
	pal, _ := ParsePalette("vibrant")
	_, err := GenerateBackground(pal, 0, 100, DefaultStyleParams(StyleMesh), nil)
	require.Error(t, err)
}

func TestGenerateBackgroundUnknownStyle(t *testing.T) {
	pal, _ := ParsePalette("vibrant")
	_, err := GenerateBackground(pal, 40, 40, DefaultStyleParams("foo"), nil)
	require.ErrorIs(t, err, ErrUnknownStyle)
	assert.Contains(t, err.Error(), `"foo"`)
	assert.Contains(t, err.Error(), StyleMesh, "the error should list the valid styles")
}

func TestExpandStyleRequiresSource(t *testing.T) {
	pal, _ := ParsePalette("vibrant")
	_, err := GenerateBackground(pal, 40, 40, DefaultStyleParams(StyleExpand), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}

func TestSeededStylesAreDeterministic(t *testing.T) {
	pal, err := ParsePalette("#FF5733,#3498DB,#2ECC71")
	require.NoError(t, err)

	for _, style := range []string{StyleAurora, StyleGlass, StyleFlowing} {
		t.Run(style, func(t *testing.T) {
			params := DefaultStyleParams(style)
			params.Seed = 42
			a, err := GenerateBackground(pal, 64, 80, params, nil)
			require.NoError(t, err)
			b, err := GenerateBackground(pal, 64, 80, params, nil)
			require.NoError(t, err)
			assert.Equal(t, a.Pix, b.Pix, "same seed must reproduce the exact image")

			params.Seed = 43
			c, err := GenerateBackground(pal, 64, 80, params, nil)
			require.NoError(t, err)
			assert.NotEqual(t, a.Pix, c.Pix, "a different seed must change the image")
		})
	}
}

// Corner pixels of a mesh background must stay recognizably close to the
// palette colors anchored there.
func TestMeshCorners(t *testing.T) {
	pal, err := ParsePalette("#FF5733,#3498DB,#2ECC71")
	require.NoError(t, err)

	img, err := GenerateBackground(pal, 1080, 1350, DefaultStyleParams(StyleMesh), nil)
	require.NoError(t, err)

	dist := func(c color.NRGBA, rgb [3]uint8) int {
		d := func(a uint8, b uint8) int {
			if a > b {
				return int(a - b)
			}
			return int(b - a)
		}
		return d(c.R, rgb[0]) + d(c.G, rgb[1]) + d(c.B, rgb[2])
	}
	supplied := pal.RGB255()
	black := [3]uint8{0, 0, 0}

	corners := []struct{ x, y int }{
		{0, 0}, {1079, 0}, {0, 1349}, {1079, 1349},
	}
	for _, p := range corners {
		got := img.NRGBAAt(p.x, p.y)
		best := dist(got, supplied[0])
		for _, s := range supplied[1:] {
			best = min(best, dist(got, s))
		}
		assert.Less(t, best, dist(got, black),
			"corner (%d,%d) = %v should sit nearer a palette color than an unrelated one", p.x, p.y, got)
	}
}

func TestStyleNamesStable(t *testing.T) {
	names := StyleNames()
	assert.Contains(t, names, StyleExpand)
	assert.Contains(t, names, StyleMesh)
	names[0] = "mutated"
	assert.Equal(t, StyleExpand, StyleNames()[0], "callers must not be able to mutate the style list")
}
