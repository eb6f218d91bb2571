package shotframe

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A scaled-down device so procedural renders stay cheap in tests.
var testSpec = DeviceSpec{
	Name:         "Test Phone",
	ScreenSize:   image.Pt(200, 400),
	CornerRadius: 40,
	FrameColor:   color.NRGBA{30, 30, 35, 255},
}

func TestLookupDevice(t *testing.T) {
	t.Run("alias resolves to the catalog entry", func(t *testing.T) {
		spec, err := LookupDevice("flagship")
		require.NoError(t, err)
		assert.Equal(t, "iPhone 17 Pro Max", spec.Name)
		assert.Equal(t, image.Pt(1320, 2868), spec.ScreenSize)
	})

	t.Run("lookup is case and whitespace tolerant", func(t *testing.T) {
		spec, err := LookupDevice("  iPhone_15_Pro_Max ")
		require.NoError(t, err)
		assert.Equal(t, "iPhone 15 Pro Max", spec.Name)
	})

	t.Run("unknown device names the valid set", func(t *testing.T) {
		_, err := LookupDevice("pixel_9")
		require.ErrorIs(t, err, ErrUnsupportedDevice)
		assert.Contains(t, err.Error(), "iphone_15_pro_max")
	})
}

func TestProceduralFrameRender(t *testing.T) {
	frame, geo, err := (&ProceduralFrame{Spec: testSpec}).Render(image.Pt(100, 200))
	require.NoError(t, err)

	fb := frame.Bounds()
	t.Run("screen geometry fits inside the frame", func(t *testing.T) {
		assert.Equal(t, testSpec.ScreenSize, geo.Size)
		assert.GreaterOrEqual(t, geo.Offset.X, 0)
		assert.GreaterOrEqual(t, geo.Offset.Y, 0)
		assert.LessOrEqual(t, geo.Offset.X+geo.Size.X, fb.Dx())
		assert.LessOrEqual(t, geo.Offset.Y+geo.Size.Y, fb.Dy())
	})

	t.Run("screen cutout is transparent", func(t *testing.T) {
		center := frame.NRGBAAt(geo.Offset.X+geo.Size.X/2, geo.Offset.Y+geo.Size.Y/2)
		assert.Equal(t, uint8(0), center.A)
	})

	t.Run("dynamic island is opaque black", func(t *testing.T) {
		islandY := geo.Offset.Y + geo.Size.Y*12/1000
		islandH := geo.Size.X * 19 / 100 * 32 / 100
		c := frame.NRGBAAt(geo.Offset.X+geo.Size.X/2, islandY+islandH/2)
		assert.Equal(t, uint8(255), c.A)
		assert.Equal(t, uint8(0), c.R)
	})

	t.Run("bezel between body edge and screen is opaque", func(t *testing.T) {
		c := frame.NRGBAAt(geo.Offset.X-8, geo.Offset.Y+geo.Size.Y/2)
		assert.Equal(t, uint8(255), c.A)
	})

	t.Run("area left of the body stays clear for the buttons", func(t *testing.T) {
		assert.Equal(t, uint8(0), frame.NRGBAAt(0, 0).A)
	})
}

func TestResolveFrame(t *testing.T) {
	t.Run("no assets dir means procedural", func(t *testing.T) {
		src, err := ResolveFrame("flagship", "")
		require.NoError(t, err)
		_, ok := src.(*ProceduralFrame)
		assert.True(t, ok)
	})

	t.Run("missing asset file means procedural", func(t *testing.T) {
		src, err := ResolveFrame("iphone_15_pro_max", t.TempDir())
		require.NoError(t, err)
		_, ok := src.(*ProceduralFrame)
		assert.True(t, ok)
	})

	t.Run("present asset wins and carries the spec geometry", func(t *testing.T) {
		dir := t.TempDir()
		writeFramePNG(t, filepath.Join(dir, "iphone_15_pro_max.png"), 938, 1926)

		src, err := ResolveFrame("iphone_15_pro_max", dir)
		require.NoError(t, err)
		af, ok := src.(*AssetFrame)
		require.True(t, ok)

		img, geo, err := af.Render(image.Pt(100, 200))
		require.NoError(t, err)
		assert.Equal(t, 938, img.Bounds().Dx())
		assert.Equal(t, image.Pt(38, 29), geo.Offset)
		assert.Equal(t, image.Pt(862, 1868), geo.Size)
		assert.Equal(t, 100, geo.CornerRadius)
	})

	t.Run("corrupt asset reports a wrapped error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "iphone_15_pro_max.png")
		require.NoError(t, os.WriteFile(path, []byte("not a png at all"), 0o644))

		src, err := ResolveFrame("iphone_15_pro_max", dir)
		require.NoError(t, err)
		_, _, err = src.Render(image.Pt(100, 200))
		require.ErrorIs(t, err, ErrFrameAssetCorrupt)
	})

	t.Run("unknown device fails before any file access", func(t *testing.T) {
		_, err := ResolveFrame("pixel_9", "")
		require.ErrorIs(t, err, ErrUnsupportedDevice)
	})
}

func writeFramePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestAddShadow(t *testing.T) {
	device := image.NewNRGBA(image.Rect(0, 0, 40, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 40; x++ {
			device.SetNRGBA(x, y, color.NRGBA{200, 50, 50, 255})
		}
	}

	out := AddShadow(device, image.Pt(6, 8), 10)
	pad := 30

	assert.Equal(t, 40+pad*2, out.Bounds().Dx())
	assert.Equal(t, 80+pad*2, out.Bounds().Dy())

	t.Run("device pixels survive on top of the shadow", func(t *testing.T) {
		c := out.NRGBAAt(pad+20, pad+40)
		assert.Equal(t, color.NRGBA{200, 50, 50, 255}, c)
	})

	t.Run("a soft halo appears past the device edge", func(t *testing.T) {
		c := out.NRGBAAt(pad+40+4, pad+8+40)
		assert.Greater(t, c.A, uint8(0))
		assert.Less(t, c.A, uint8(255))
	})

	t.Run("far corners stay fully transparent", func(t *testing.T) {
		assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
	})
}
