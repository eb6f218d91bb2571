package shotframe

import (
	"fmt"
	"image"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Palette is an ordered list of colors. Order is meaningful: background
// styles use it as gradient stop and band order. A palette is immutable
// once built; helpers return new slices.
type Palette []colorful.Color

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

var presetPalettes = map[string]Palette{
	"vibrant":    {rgb(255, 87, 51), rgb(255, 189, 51), rgb(51, 255, 87), rgb(51, 189, 255)},
	"pastel":     {rgb(255, 209, 220), rgb(255, 230, 179), rgb(179, 230, 255), rgb(198, 255, 179)},
	"dark":       {rgb(30, 30, 40), rgb(50, 50, 70), rgb(80, 60, 90), rgb(40, 60, 80)},
	"warm":       {rgb(255, 140, 100), rgb(255, 180, 100), rgb(255, 120, 80), rgb(255, 200, 150)},
	"cool":       {rgb(100, 180, 255), rgb(150, 200, 255), rgb(100, 220, 200), rgb(180, 220, 255)},
	"sunset":     {rgb(255, 150, 100), rgb(255, 120, 150), rgb(180, 100, 200), rgb(100, 80, 160)},
	"ocean":      {rgb(200, 230, 245), rgb(100, 180, 220), rgb(60, 140, 180), rgb(40, 100, 140)},
	"forest":     {rgb(180, 210, 180), rgb(120, 180, 120), rgb(80, 140, 100), rgb(60, 100, 80)},
	"berry":      {rgb(255, 180, 200), rgb(220, 100, 150), rgb(180, 80, 130), rgb(120, 60, 100)},
	"monochrome": {rgb(240, 240, 245), rgb(200, 200, 210), rgb(150, 150, 160), rgb(100, 100, 110)},
}

// PresetNames returns the available preset palette names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presetPalettes))
	for name := range presetPalettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// PresetPalette returns the named preset palette.
func PresetPalette(name string) (Palette, error) {
	p, ok := presetPalettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (presets: %s)",
			ErrInvalidPaletteInput, name, strings.Join(PresetNames(), ", "))
	}
	return slices.Clone(p), nil
}

// ParsePalette resolves a color argument: either a preset palette name
// ("sunset") or a comma-separated hex list ("#FF5733,#3498DB"). Hex colors
// may omit the leading # and may use the short #abc form.
func ParsePalette(s string) (Palette, error) {
	if p, ok := presetPalettes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return slices.Clone(p), nil
	}
	var out Palette
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		hex := strings.ToLower(tok)
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: bad hex color %q", ErrInvalidPaletteInput, tok)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q has no colors (expected a preset name or comma-separated hex values)",
			ErrInvalidPaletteInput, s)
	}
	return out, nil
}

// ExtractPalette derives k dominant colors from img, most frequent first.
// k is clamped to [2, 6]. The image is downsampled before clustering so
// cost stays bounded regardless of input resolution. The result always has
// at least two distinct colors, even for a uniform input.
func ExtractPalette(img image.Image, k int) (Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidPaletteInput)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidPaletteInput)
	}
	k = max(2, min(6, k))

	small := imaging.Fit(img, 128, 128, imaging.Box)

	p := kmeansPalette(small, k)
	if len(p) == 0 {
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		p = dominantPalette(small, k)
	}
	if len(p) == 0 {
		// Last resort: avoid an empty palette that would break generators.
		p = Palette{rgb(128, 128, 128)}
	}
	return ensureTwo(p), nil
}

// kmeansPalette clusters subsampled pixels with an oversized k, orders the
// clusters by population, then picks k diverse representatives.
func kmeansPalette(img image.Image, k int) Palette {
	b := img.Bounds()
	dataset := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*3, k+2), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	// Sort by cluster population so dominant colors come first.
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{col: col, weight: float64(max(len(c.Observations), 1))})
	}
	return selectDiverse(weighted, k)
}

func dominantPalette(img image.Image, k int) Palette {
	cands := dominantcolor.FindWeight(img, max(24, k*8))
	weighted := make([]weightedColor, 0, len(cands))
	for _, c := range cands {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: w})
	}
	return selectDiverse(weighted, k)
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// selectDiverse greedily picks k candidates: the heaviest first, then
// whichever candidate maximizes a weight-biased Lab distance to the chosen
// set. Keeps the palette close to the dominant tones without collapsing
// into near-duplicates.
func selectDiverse(cands []weightedColor, k int) Palette {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, len(cands))
	maxW := 0.0
	for i, c := range cands {
		l, a, b := c.col.Lab()
		items[i] = item{col: c.col, lab: [3]float64{l, a, b}, w: c.weight}
		maxW = max(maxW, c.weight)
	}
	if maxW <= 0 {
		maxW = 1
	}

	picked := make([]int, 0, k)
	taken := make([]bool, len(items))
	seed := 0
	for i := range items {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	picked = append(picked, seed)
	taken[seed] = true

	for len(picked) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range items {
			if taken[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		taken[bestIdx] = true
		picked = append(picked, bestIdx)
	}

	out := make(Palette, len(picked))
	for i, idx := range picked {
		out[i] = items[idx].col
	}
	return out
}

// ensureTwo guarantees at least two distinct palette entries so gradient
// styles always have two stops. A uniform image gets a lighter (or, for
// near-white input, darker) variant of its dominant color.
func ensureTwo(p Palette) Palette {
	distinct := false
	for i := 1; i < len(p); i++ {
		if p[i].DistanceLab(p[0]) > 0.02 {
			distinct = true
			break
		}
	}
	if len(p) >= 2 && distinct {
		return p
	}
	base := p[0]
	variant := Lighten(base, 0.35)
	if variant.DistanceLab(base) < 0.02 {
		variant = colorful.Color{R: base.R * 0.6, G: base.G * 0.6, B: base.B * 0.6}
	}
	return Palette{base, variant}
}

// Lighten mixes c toward white by factor in [0, 1].
func Lighten(c colorful.Color, factor float64) colorful.Color {
	return colorful.Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
	}
}

// Soften returns a background-friendly variant of the palette: saturation
// is pulled down and value pushed up so extracted screenshot colors read as
// a backdrop instead of competing with the screenshot itself.
func (p Palette) Soften() Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		h, s, v := c.Hsv()
		s = max(0.1, s*0.4)
		v = min(1.0, v*1.3+0.2)
		out[i] = colorful.Hsv(h, s, v).Clamped()
	}
	return out
}

// RGB255 returns the palette as 8-bit channel triples.
func (p Palette) RGB255() [][3]uint8 {
	out := make([][3]uint8, len(p))
	for i, c := range p {
		r, g, b := c.Clamped().RGB255()
		out[i] = [3]uint8{r, g, b}
	}
	return out
}
