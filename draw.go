package shotframe

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Low-level raster helpers shared by the frame renderer and the compositor.
// Shapes are rasterized from a signed distance to a rounded rectangle, which
// gives one pixel of antialiasing at every edge; a pill is the degenerate
// case where radius is half the short side.

// roundedRectDist returns the signed distance from point (px, py) to the
// border of r rounded with the given corner radius. Negative inside.
func roundedRectDist(px, py float64, r image.Rectangle, radius float64) float64 {
	hw := float64(r.Dx()) / 2
	hh := float64(r.Dy()) / 2
	radius = min(radius, min(hw, hh))
	cx := float64(r.Min.X) + hw
	cy := float64(r.Min.Y) + hh
	qx := math.Abs(px-cx) - (hw - radius)
	qy := math.Abs(py-cy) - (hh - radius)
	ax := max(qx, 0)
	ay := max(qy, 0)
	return math.Hypot(ax, ay) + min(max(qx, qy), 0) - radius
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// blendPixel source-over composites c onto dst at (x, y) with the given
// extra coverage factor in [0, 1].
func blendPixel(dst *image.NRGBA, x, y int, c color.NRGBA, cover float64) {
	a := float64(c.A) / 255 * cover
	if a <= 0 {
		return
	}
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	da := float64(p[3]) / 255
	outA := a + da*(1-a)
	if outA <= 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	p[0] = uint8((float64(c.R)*a + float64(p[0])*da*(1-a)) / outA)
	p[1] = uint8((float64(c.G)*a + float64(p[1])*da*(1-a)) / outA)
	p[2] = uint8((float64(c.B)*a + float64(p[2])*da*(1-a)) / outA)
	p[3] = uint8(outA*255 + 0.5)
}

// fillRoundedRect paints a rounded rectangle using a constant fill color.
func fillRoundedRect(dst *image.NRGBA, r image.Rectangle, radius float64, c color.NRGBA) {
	fillRoundedRectFunc(dst, r, radius, func(x, y int) color.NRGBA { return c })
}

// fillRoundedRectFunc paints a rounded rectangle, asking colorAt for the
// fill color of every covered pixel. Used for the titanium body gradient.
func fillRoundedRectFunc(dst *image.NRGBA, r image.Rectangle, radius float64, colorAt func(x, y int) color.NRGBA) {
	clip := r.Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			d := roundedRectDist(float64(x)+0.5, float64(y)+0.5, r, radius)
			cover := clamp01(0.5 - d)
			if cover > 0 {
				blendPixel(dst, x, y, colorAt(x, y), cover)
			}
		}
	}
}

// strokeRoundedRect draws the outline of a rounded rectangle with the given
// stroke width, centered on the shape border.
func strokeRoundedRect(dst *image.NRGBA, r image.Rectangle, radius, width float64, c color.NRGBA) {
	pad := int(width) + 2
	clip := r.Inset(-pad).Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			d := roundedRectDist(float64(x)+0.5, float64(y)+0.5, r, radius)
			cover := clamp01(width/2 - math.Abs(d) + 0.5)
			if cover > 0 {
				blendPixel(dst, x, y, c, cover)
			}
		}
	}
}

// punchRoundedRect erases a rounded rectangle to full transparency. The
// screen cutout must stay clear so the screenshot layer shows through it.
func punchRoundedRect(dst *image.NRGBA, r image.Rectangle, radius float64) {
	clip := r.Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			d := roundedRectDist(float64(x)+0.5, float64(y)+0.5, r, radius)
			cover := clamp01(0.5 - d)
			if cover <= 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			p := dst.Pix[i : i+4 : i+4]
			keep := 1 - cover
			p[0] = uint8(float64(p[0]) * keep)
			p[1] = uint8(float64(p[1]) * keep)
			p[2] = uint8(float64(p[2]) * keep)
			p[3] = uint8(float64(p[3]) * keep)
		}
	}
}

// roundCorners multiplies the image alpha by a full-bounds rounded-rect
// coverage, clipping the four corners and leaving everything else intact.
func roundCorners(img *image.NRGBA, radius float64) *image.NRGBA {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := roundedRectDist(float64(x)+0.5, float64(y)+0.5, b, radius)
			cover := clamp01(0.5 - d)
			if cover >= 1 {
				continue
			}
			i := img.PixOffset(x, y)
			p := img.Pix[i : i+4 : i+4]
			p[0] = uint8(float64(p[0]) * cover)
			p[1] = uint8(float64(p[1]) * cover)
			p[2] = uint8(float64(p[2]) * cover)
			p[3] = uint8(float64(p[3]) * cover)
		}
	}
	return img
}

// blendColors interpolates two colors in plain byte space. Per-channel
// weighted averaging is accurate enough at mockup resolutions; no gamma
// correction.
func blendColors(c1, c2 colorful.Color, t float64) colorful.Color {
	return colorful.Color{
		R: c1.R + (c2.R-c1.R)*t,
		G: c1.G + (c2.G-c1.G)*t,
		B: c1.B + (c2.B-c1.B)*t,
	}
}

// shiftColor adds delta to every channel of c, clamped to [0, 255].
func shiftColor(c color.NRGBA, delta int) color.NRGBA {
	add := func(v uint8) uint8 {
		n := int(v) + delta
		return uint8(max(0, min(255, n)))
	}
	return color.NRGBA{R: add(c.R), G: add(c.G), B: add(c.B), A: c.A}
}
