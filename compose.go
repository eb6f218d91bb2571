package shotframe

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// PlatformPreset is a named output canvas for a social platform.
type PlatformPreset struct {
	Name        string
	Size        image.Point
	DeviceScale float64 // phone height as a fraction of canvas height
	Description string
}

var platformPresets = map[string]PlatformPreset{
	"twitter":   {"twitter", image.Pt(1200, 1500), 0.82, "Twitter/X single image (4:5)"},
	"twitter4":  {"twitter4", image.Pt(1200, 1200), 0.72, "Twitter/X 4-image grid (1:1, full phone visible)"},
	"instagram": {"instagram", image.Pt(1080, 1350), 0.82, "Instagram feed (4:5)"},
	"square":    {"square", image.Pt(1200, 1200), 0.75, "Square format, works everywhere (1:1)"},
	"story":     {"story", image.Pt(1080, 1920), 0.70, "Stories/Reels format (9:16)"},
	"wide":      {"wide", image.Pt(1600, 900), 0.85, "Wide format for desktop/thumbnails (16:9)"},
}

// PlatformNames returns the available platform preset names, sorted.
func PlatformNames() []string {
	names := make([]string, 0, len(platformPresets))
	for name := range platformPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupPlatform resolves a platform preset by name.
func LookupPlatform(name string) (PlatformPreset, error) {
	p, ok := platformPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PlatformPreset{}, fmt.Errorf("compose: unknown platform %q (platforms: %s)",
			name, strings.Join(PlatformNames(), ", "))
	}
	return p, nil
}

// ComposeOptions tune how the framed phone is placed on the canvas. The
// zero value means: preset (or 0.75) device scale, centered, no rotation,
// no shadow.
type ComposeOptions struct {
	DeviceScale float64    // phone height as a fraction of canvas height
	Position    [2]float64 // fractional placement; {0, 0} is treated as centered
	Angle       float64    // rotation in degrees, counter-clockwise
	Shadow      bool
}

// Compose assembles a final mockup: the screenshot is aspect-filled into
// the frame's screen region under the frame layer, the phone is scaled and
// centered over the background, and the whole composite is cropped to
// exactly outW x outH. The result is fully opaque.
func Compose(background image.Image, frame *image.NRGBA, geo ScreenGeometry, screenshot image.Image, outW, outH int) *image.NRGBA {
	phone := framedPhone(frame, geo, screenshot)
	return placePhone(background, phone, outW, outH, ComposeOptions{Shadow: true})
}

// framedPhone lays the screenshot into the frame's screen region, under the
// frame so bezel, island and buttons stay on top.
func framedPhone(frame *image.NRGBA, geo ScreenGeometry, screenshot image.Image) *image.NRGBA {
	fb := frame.Bounds()
	if geo.Size.X <= 0 || geo.Size.Y <= 0 || geo.Offset.X < 0 || geo.Offset.Y < 0 ||
		geo.Offset.X+geo.Size.X > fb.Dx() || geo.Offset.Y+geo.Size.Y > fb.Dy() {
		// A geometry that does not fit its own frame is a catalog bug,
		// not a runtime condition.
		panic(fmt.Sprintf("shotframe: screen geometry offset=%v size=%v does not fit %dx%d frame",
			geo.Offset, geo.Size, fb.Dx(), fb.Dy()))
	}

	// Aspect-fill with center-crop: letterboxing would leave gaps visible
	// through the screen cutout.
	shot := imaging.Fill(screenshot, geo.Size.X, geo.Size.Y, imaging.Center, imaging.Lanczos)
	shot = roundCorners(shot, float64(geo.CornerRadius))

	phone := image.NewNRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
	screen := image.Rect(geo.Offset.X, geo.Offset.Y, geo.Offset.X+geo.Size.X, geo.Offset.Y+geo.Size.Y)
	draw.Draw(phone, screen, shot, shot.Bounds().Min, draw.Over)
	draw.Draw(phone, phone.Bounds(), frame, fb.Min, draw.Over)
	return phone
}

// placePhone scales the phone, optionally shadows and rotates it, and
// composites it over the background aspect-filled to outW x outH.
func placePhone(background image.Image, phone *image.NRGBA, outW, outH int, opts ComposeOptions) *image.NRGBA {
	scale := opts.DeviceScale
	if scale <= 0 {
		scale = 0.75
	}
	px, py := opts.Position[0], opts.Position[1]
	if px == 0 && py == 0 {
		px, py = 0.5, 0.5
	}

	if opts.Shadow {
		phone = AddShadow(phone, image.Pt(40, 50), 80)
	}
	phone = imaging.Resize(phone, 0, max(1, int(float64(outH)*scale)), imaging.Lanczos)
	if opts.Angle != 0 {
		phone = imaging.Rotate(phone, opts.Angle, color.NRGBA{})
	}

	out := opaqueCanvas(background, outW, outH)
	pb := phone.Bounds()
	pos := image.Pt(
		int(float64(outW-pb.Dx())*px),
		int(float64(outH-pb.Dy())*py),
	)
	return imaging.Overlay(out, phone, pos, 1.0)
}

// opaqueCanvas aspect-fills the background to exactly w x h and flattens it
// over white, so the output never carries transparency.
func opaqueCanvas(background image.Image, w, h int) *image.NRGBA {
	canvas := imaging.Fill(background, w, h, imaging.Center, imaging.Lanczos)
	base := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	return imaging.Overlay(base, canvas, image.Pt(0, 0), 1.0)
}

// Composer runs the whole pipeline for one device/platform pairing:
// palette extraction, background generation, frame rendering, composition.
type Composer struct {
	Device    string
	Platform  PlatformPreset
	AssetsDir string // frame asset location; "" forces procedural frames
	Opts      ComposeOptions
	Style     StyleParams // Name is overridden per call; Seed/Bands/Noise are kept
}

// NewComposer validates the device and platform names up front. An empty
// platform defaults to "twitter", matching the original tool.
func NewComposer(device, platform string) (*Composer, error) {
	if platform == "" {
		platform = "twitter"
	}
	preset, err := LookupPlatform(platform)
	if err != nil {
		return nil, err
	}
	if _, err := LookupDevice(device); err != nil {
		return nil, err
	}
	return &Composer{
		Device:   device,
		Platform: preset,
		Opts:     ComposeOptions{Shadow: true},
		Style:    DefaultStyleParams(""),
	}, nil
}

// CreateMockup renders one screenshot into a platform-sized mockup. A nil
// palette means: extract from the screenshot and soften for backdrop use.
func (c *Composer) CreateMockup(screenshot image.Image, style string, pal Palette) (*image.NRGBA, error) {
	if screenshot == nil {
		return nil, fmt.Errorf("compose: screenshot is required")
	}
	if len(pal) == 0 {
		extracted, err := ExtractPalette(screenshot, 4)
		if err != nil {
			return nil, err
		}
		pal = extracted.Soften()
	}

	size := c.Platform.Size
	params := c.Style
	params.Name = style
	bg, err := GenerateBackground(pal, size.X, size.Y, params, screenshot)
	if err != nil {
		return nil, err
	}

	source, err := ResolveFrame(c.Device, c.AssetsDir)
	if err != nil {
		return nil, err
	}
	frame, geo, err := source.Render(screenshot.Bounds().Size())
	if err != nil {
		return nil, err
	}

	opts := c.Opts
	if opts.DeviceScale <= 0 {
		opts.DeviceScale = c.Platform.DeviceScale
	}
	return placePhone(bg, framedPhone(frame, geo, screenshot), size.X, size.Y, opts), nil
}

// Multi-device layout names.
const (
	LayoutStacked    = "stacked"
	LayoutSideBySide = "side-by-side"
	LayoutCarousel   = "carousel"
)

// CreateMultiMockup places up to three screenshots as separate phones on a
// shared background. The palette comes from the first screenshot so the
// backdrop stays consistent.
func (c *Composer) CreateMultiMockup(shots []image.Image, style, layout string) (*image.NRGBA, error) {
	if len(shots) == 0 {
		return nil, fmt.Errorf("compose: at least one screenshot required")
	}
	shots = shots[:min(3, len(shots))]

	extracted, err := ExtractPalette(shots[0], 4)
	if err != nil {
		return nil, err
	}
	pal := extracted.Soften()

	size := c.Platform.Size
	params := c.Style
	params.Name = style
	bg, err := GenerateBackground(pal, size.X, size.Y, params, shots[0])
	if err != nil {
		return nil, err
	}

	source, err := ResolveFrame(c.Device, c.AssetsDir)
	if err != nil {
		return nil, err
	}

	positions := layoutPositions(len(shots), layout)
	scales := layoutScales(len(shots), layout)
	angles := layoutAngles(len(shots), layout)

	out := opaqueCanvas(bg, size.X, size.Y)
	for i, shot := range shots {
		frame, geo, err := source.Render(shot.Bounds().Size())
		if err != nil {
			return nil, err
		}
		phone := framedPhone(frame, geo, shot)
		phone = AddShadow(phone, image.Pt(30, 40), 60)
		phone = imaging.Resize(phone, 0, max(1, int(float64(size.Y)*scales[i])), imaging.Lanczos)
		if angles[i] != 0 {
			phone = imaging.Rotate(phone, angles[i], color.NRGBA{})
		}
		pb := phone.Bounds()
		pos := image.Pt(
			int(float64(size.X-pb.Dx())*positions[i][0]),
			int(float64(size.Y-pb.Dy())*positions[i][1]),
		)
		out = imaging.Overlay(out, phone, pos, 1.0)
	}
	return out, nil
}

func layoutPositions(count int, layout string) [][2]float64 {
	switch layout {
	case LayoutStacked:
		switch count {
		case 1:
			return [][2]float64{{0.5, 0.5}}
		case 2:
			return [][2]float64{{0.3, 0.6}, {0.7, 0.4}}
		default:
			return [][2]float64{{0.2, 0.7}, {0.5, 0.4}, {0.8, 0.6}}
		}
	case LayoutSideBySide:
		switch count {
		case 1:
			return [][2]float64{{0.5, 0.5}}
		case 2:
			return [][2]float64{{0.3, 0.5}, {0.7, 0.5}}
		default:
			return [][2]float64{{0.2, 0.5}, {0.5, 0.5}, {0.8, 0.5}}
		}
	case LayoutCarousel:
		switch count {
		case 1:
			return [][2]float64{{0.5, 0.5}}
		case 2:
			return [][2]float64{{0.35, 0.5}, {0.65, 0.5}}
		default:
			return [][2]float64{{0.15, 0.55}, {0.5, 0.45}, {0.85, 0.55}}
		}
	}
	out := make([][2]float64, count)
	for i := range out {
		out[i] = [2]float64{0.5, 0.5}
	}
	return out
}

func layoutScales(count int, layout string) []float64 {
	switch {
	case count == 1:
		return []float64{0.75}
	case count == 2:
		if layout == LayoutStacked {
			return []float64{0.55, 0.55}
		}
		return []float64{0.5, 0.5}
	default:
		if layout == LayoutCarousel {
			return []float64{0.4, 0.5, 0.4}
		}
		return []float64{0.4, 0.4, 0.4}
	}
}

func layoutAngles(count int, layout string) []float64 {
	switch layout {
	case LayoutStacked:
		if count == 2 {
			return []float64{-5, 5}
		}
		if count >= 3 {
			return []float64{-8, 0, 8}
		}
	case LayoutCarousel:
		if count >= 3 {
			return []float64{-15, 0, 15}
		}
	}
	return make([]float64, count)
}
