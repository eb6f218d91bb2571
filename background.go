package shotframe

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// Background style names.
const (
	StyleExpand   = "expand"
	StyleMesh     = "mesh"
	StyleGradient = "gradient"
	StyleAurora   = "aurora"
	StyleSoft     = "soft"
	StyleGlass    = "glass"
	StyleSunset   = "sunset"
	StyleOcean    = "ocean"
	StyleFlowing  = "flowing"
	StyleWaves    = "waves"
)

var styleNames = []string{
	StyleExpand, StyleMesh, StyleGradient, StyleAurora, StyleSoft,
	StyleGlass, StyleSunset, StyleOcean, StyleFlowing, StyleWaves,
}

// StyleNames returns the supported background style names.
func StyleNames() []string {
	return slices.Clone(styleNames)
}

// StyleParams selects a background style and its tuning knobs. Seed drives
// every random decision a style makes; identical params always produce
// pixel-identical output.
type StyleParams struct {
	Name        string
	Seed        int64
	Bands       int // aurora band count, capped at the palette length
	NoiseAmount int // glass noise amplitude in 8-bit channel units
}

// DefaultStyleParams returns the stock parameters for a style name.
func DefaultStyleParams(name string) StyleParams {
	return StyleParams{Name: name, Bands: 3, NoiseAmount: 8}
}

// GenerateBackground renders a w x h fully opaque canvas in the requested
// style. The palette supplies gradient stops and band colors; source is
// consumed by the expand style only and may be nil otherwise.
func GenerateBackground(pal Palette, w, h int, params StyleParams, source image.Image) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("background: invalid canvas size %dx%d", w, h)
	}
	if len(pal) == 0 {
		pal = presetPalettes["vibrant"]
	}

	switch params.Name {
	case StyleExpand:
		return expandStyle(pal, w, h, source)
	case StyleMesh:
		return meshStyle(pal, w, h), nil
	case StyleGradient:
		return gradientStyle(pal, w, h), nil
	case StyleAurora:
		return auroraStyle(pal, w, h, params), nil
	case StyleSoft:
		return softStyle(pal, w, h), nil
	case StyleGlass:
		return glassStyle(pal, w, h, params), nil
	case StyleSunset:
		return sunsetStyle(pal, w, h), nil
	case StyleOcean:
		return oceanStyle(pal, w, h), nil
	case StyleFlowing:
		return flowingStyle(pal, w, h, params), nil
	case StyleWaves:
		return wavesStyle(pal, w, h), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid styles: %s)",
			ErrUnknownStyle, params.Name, strings.Join(styleNames, ", "))
	}
}

// solidCanvas returns an opaque w x h canvas filled with c.
func solidCanvas(w, h int, c colorful.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cr, cg, cb := c.Clamped().RGB255()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = cr
		img.Pix[i+1] = cg
		img.Pix[i+2] = cb
		img.Pix[i+3] = 255
	}
	return img
}

// blendOpaque lerps the pixel at (x, y) toward c by t and forces it opaque.
func blendOpaque(img *image.NRGBA, x, y int, c colorful.Color, t float64) {
	cr, cg, cb := c.Clamped().RGB255()
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	p[0] = uint8(float64(p[0]) + (float64(cr)-float64(p[0]))*t)
	p[1] = uint8(float64(p[1]) + (float64(cg)-float64(p[1]))*t)
	p[2] = uint8(float64(p[2]) + (float64(cb)-float64(p[2]))*t)
	p[3] = 255
}

func setOpaque(img *image.NRGBA, x, y int, c colorful.Color) {
	cr, cg, cb := c.Clamped().RGB255()
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = cr, cg, cb, 255
}

// expandStyle scales the screenshot to overflow the canvas, blurs it past
// recognition and darkens it slightly, so the backdrop stays
// color-consistent with the screenshot content.
func expandStyle(pal Palette, w, h int, source image.Image) (*image.NRGBA, error) {
	if source == nil {
		return nil, fmt.Errorf("background: style %q needs the source screenshot", StyleExpand)
	}

	// Cover the canvas, overscan 1.8x to push UI chrome off the edges,
	// then crop back to canvas size.
	big := imaging.Fill(source, max(1, w*9/5), max(1, h*9/5), imaging.Center, imaging.Lanczos)
	img := imaging.CropCenter(big, w, h)

	// The target blur radius is ~min(w,h)/8, far too wide for a direct
	// kernel. Blurring a 1/8-scale copy and resampling back approximates
	// it closely enough at these resolutions.
	small := imaging.Resize(img, max(1, w/8), 0, imaging.Lanczos)
	small = imaging.Blur(small, 6)
	small = imaging.Blur(small, 3)
	img = imaging.Resize(small, w, h, imaging.Lanczos)

	tint := pal[0]
	black := colorful.Color{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			blendOpaque(img, x, y, black, 40.0/255) // darken so the sharp device pops
			blendOpaque(img, x, y, tint, 20.0/255)  // palette tint for cohesion
		}
	}
	return img, nil
}

type meshAnchor struct {
	x, y float64
	c    colorful.Color
}

// meshStyle renders a multi-point gradient: palette colors anchored at the
// corners plus a lightened center, blended by inverse-distance weighting.
// The field is evaluated on a coarse grid and bilinearly upsampled; the
// weights vary slowly enough that the grid is visually exact.
func meshStyle(pal Palette, w, h int) *image.NRGBA {
	for len(pal) < 4 {
		pal = append(slices.Clone(pal), Lighten(pal[0], 0.3))
	}
	anchors := []meshAnchor{
		{0, 0, pal[0]},
		{float64(w - 1), 0, pal[1]},
		{0, float64(h - 1), pal[2]},
		{float64(w - 1), float64(h - 1), pal[3]},
		{float64(w-1) / 2, float64(h-1) / 2, Lighten(pal[0], 0.4)},
	}

	gw := min(64, max(2, w))
	gh := min(64, max(2, h))
	gridR := mat.NewDense(gh, gw, nil)
	gridG := mat.NewDense(gh, gw, nil)
	gridB := mat.NewDense(gh, gw, nil)
	for gy := 0; gy < gh; gy++ {
		py := float64(gy) / float64(gh-1) * float64(h-1)
		for gx := 0; gx < gw; gx++ {
			px := float64(gx) / float64(gw-1) * float64(w-1)
			var sr, sg, sb, sw float64
			for _, a := range anchors {
				dist := math.Hypot(px-a.x, py-a.y) + 1
				wgt := 1 / math.Pow(dist, 1.5)
				sr += a.c.R * wgt
				sg += a.c.G * wgt
				sb += a.c.B * wgt
				sw += wgt
			}
			gridR.Set(gy, gx, sr/sw)
			gridG.Set(gy, gx, sg/sw)
			gridB.Set(gy, gx, sb/sw)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fy := 0.0
		if h > 1 {
			fy = float64(y) / float64(h-1) * float64(gh-1)
		}
		y0 := int(fy)
		y1 := min(y0+1, gh-1)
		ty := fy - float64(y0)
		for x := 0; x < w; x++ {
			fx := 0.0
			if w > 1 {
				fx = float64(x) / float64(w-1) * float64(gw-1)
			}
			x0 := int(fx)
			x1 := min(x0+1, gw-1)
			tx := fx - float64(x0)

			bilerp := func(g *mat.Dense) float64 {
				top := g.At(y0, x0) + (g.At(y0, x1)-g.At(y0, x0))*tx
				bot := g.At(y1, x0) + (g.At(y1, x1)-g.At(y1, x0))*tx
				return top + (bot-top)*ty
			}
			setOpaque(img, x, y, colorful.Color{R: bilerp(gridR), G: bilerp(gridG), B: bilerp(gridB)})
		}
	}
	return imaging.Blur(img, 1.5)
}

// gradientStyle renders a plain two-color diagonal gradient.
func gradientStyle(pal Palette, w, h int) *image.NRGBA {
	c1 := pal[0]
	c2 := colorful.Color{R: 1, G: 1, B: 1}
	if len(pal) >= 2 {
		c2 = pal[1]
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fy := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			t := (float64(x)/float64(w) + fy) / 2
			setOpaque(img, x, y, blendColors(c1, c2, t))
		}
	}
	return img
}

// auroraStyle lays soft vertical color bands over a light base. Each band
// has a gaussian horizontal envelope and its center undulates down the
// canvas with a seeded sine curve.
func auroraStyle(pal Palette, w, h int, params StyleParams) *image.NRGBA {
	img := solidCanvas(w, h, Lighten(pal[0], 0.85))

	bands := params.Bands
	if bands <= 0 {
		bands = 3
	}
	bands = min(bands, len(pal))
	rng := rand.New(rand.NewSource(params.Seed))
	bandW := float64(w) / float64(bands)
	sigma := bandW * 0.4
	amp := float64(w) * 0.03

	for i := 0; i < bands; i++ {
		c := pal[i]
		center := bandW*(float64(i)+0.5) + (rng.Float64()-0.5)*bandW*0.3
		phase := rng.Float64() * 2 * math.Pi
		for y := 0; y < h; y++ {
			cx := center + amp*math.Sin(2*math.Pi*float64(y)/float64(h)+phase)
			for x := 0; x < w; x++ {
				d := float64(x) - cx
				a := (60.0 / 255) * math.Exp(-d*d/(2*sigma*sigma))
				if a > 0.002 {
					blendOpaque(img, x, y, c, a)
				}
			}
		}
	}
	return imaging.Blur(img, 6)
}

// softStyle is a near-flat pastel wash with a faint accent glow in the
// bottom-right corner.
func softStyle(pal Palette, w, h int) *image.NRGBA {
	img := solidCanvas(w, h, Lighten(pal[0], 0.9))
	if len(pal) < 2 {
		return img
	}
	accent := Lighten(pal[1], 0.7)
	sigma := float64(w) * 0.5
	for y := 0; y < h; y++ {
		dy := float64(h - 1 - y)
		for x := 0; x < w; x++ {
			dx := float64(w - 1 - x)
			d2 := dx*dx + dy*dy
			a := (25.0 / 255) * math.Exp(-d2/(2*sigma*sigma))
			if a > 0.002 {
				blendOpaque(img, x, y, accent, a)
			}
		}
	}
	return img
}

// glassStyle emulates frosted glass: a lightened base with seeded per-pixel
// noise, softened by a small blur, with large translucent color pools.
func glassStyle(pal Palette, w, h int, params StyleParams) *image.NRGBA {
	base := Lighten(pal[0], 0.7)
	br, bg, bb := base.Clamped().RGB255()
	amp := params.NoiseAmount
	if amp <= 0 {
		amp = 8
	}

	rng := rand.New(rand.NewSource(params.Seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	clampByte := func(v int) uint8 { return uint8(max(0, min(255, v))) }
	for i := 0; i < len(img.Pix); i += 4 {
		n := rng.Intn(2*amp+1) - amp
		img.Pix[i] = clampByte(int(br) + n)
		img.Pix[i+1] = clampByte(int(bg) + n)
		img.Pix[i+2] = clampByte(int(bb) + n)
		img.Pix[i+3] = 255
	}
	img = imaging.Blur(img, 1.5)

	if len(pal) >= 2 {
		short := float64(min(w, h))
		for _, c := range pal[:min(3, len(pal))] {
			cx := rng.Float64() * float64(w)
			cy := rng.Float64() * float64(h)
			sigma := (0.25 + 0.25*rng.Float64()) * short
			for y := 0; y < h; y++ {
				dy := float64(y) - cy
				for x := 0; x < w; x++ {
					dx := float64(x) - cx
					a := (20.0 / 255) * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
					if a > 0.002 {
						blendOpaque(img, x, y, c, a)
					}
				}
			}
		}
	}
	return img
}

// gradient4 interpolates through four stops with breakpoints at 1/3 and 2/3.
func gradient4(stops [4]colorful.Color, f float64) colorful.Color {
	switch {
	case f < 0.33:
		return blendColors(stops[0], stops[1], f/0.33)
	case f < 0.66:
		return blendColors(stops[1], stops[2], (f-0.33)/0.33)
	default:
		return blendColors(stops[2], stops[3], min(1, (f-0.66)/0.34))
	}
}

// sunsetStyle is a fixed warm vertical gradient, its top stop pulled toward
// the palette's dominant color.
func sunsetStyle(pal Palette, w, h int) *image.NRGBA {
	stops := [4]colorful.Color{
		rgb(255, 150, 100), // warm orange
		rgb(255, 120, 150), // pink
		rgb(180, 100, 200), // purple
		rgb(100, 80, 160),  // deep purple
	}
	stops[0] = blendColors(stops[0], pal[0], 0.3)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := gradient4(stops, float64(y)/float64(h))
		for x := 0; x < w; x++ {
			setOpaque(img, x, y, c)
		}
	}
	return imaging.Blur(img, 1)
}

// oceanStyle is a fixed cool gradient along a mostly-vertical diagonal.
func oceanStyle(pal Palette, w, h int) *image.NRGBA {
	stops := [4]colorful.Color{
		rgb(200, 230, 245), // light sky
		rgb(100, 180, 220), // ocean blue
		rgb(60, 140, 180),  // deep teal
		rgb(40, 100, 140),  // deep ocean
	}
	stops[1] = blendColors(stops[1], pal[0], 0.3)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fy := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			f := float64(x)/float64(w)*0.3 + fy*0.7
			setOpaque(img, x, y, gradient4(stops, f))
		}
	}
	return imaging.Blur(img, 1)
}

// flowingStyle layers large seeded color pools over a gradient base, an
// approximation of the original organic-blob look.
func flowingStyle(pal Palette, w, h int, params StyleParams) *image.NRGBA {
	img := gradientStyle(pal, w, h)
	rng := rand.New(rand.NewSource(params.Seed))
	short := float64(min(w, h))

	for i, c := range pal[:min(4, len(pal))] {
		scale := 0.8 - 0.15*float64(i)
		cx := float64(w) * (0.3 + 0.4*rng.Float64())
		cy := float64(h) * (0.3 + 0.4*rng.Float64())
		sigma := 0.35 * short * scale
		aMax := (60.0 + 20.0*float64(i)) / 255
		for y := 0; y < h; y++ {
			dy := float64(y) - cy
			for x := 0; x < w; x++ {
				dx := float64(x) - cx
				a := aMax * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
				if a > 0.002 {
					blendOpaque(img, x, y, c, a)
				}
			}
		}
	}
	return imaging.Blur(img, 2)
}

// wavesStyle stacks soft-edged sine bands over a white base.
func wavesStyle(pal Palette, w, h int) *image.NRGBA {
	img := solidCanvas(w, h, colorful.Color{R: 1, G: 1, B: 1})
	soft := float64(h) * 0.04

	for i, c := range pal[:min(3, len(pal))] {
		cycles := float64(3 + i)
		amp := float64(h) * (0.083 + 0.02*float64(i))
		phase := float64(i) * math.Pi / 3
		for x := 0; x < w; x++ {
			yc := float64(h)/2 + amp*math.Sin(2*math.Pi*cycles*float64(x)/float64(w)+phase)
			for y := 0; y < h; y++ {
				// Soft coverage ramp across the wave edge; full below.
				t := clamp01(0.5 + (float64(y)-yc)/soft*0.5)
				if a := (80.0 / 255) * t; a > 0.002 {
					blendOpaque(img, x, y, c, a)
				}
			}
		}
	}
	return imaging.Blur(img, 3)
}
