package shotframe

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// ScreenGeometry describes where the screenshot goes inside a frame image.
type ScreenGeometry struct {
	Offset       image.Point // screen top-left relative to the frame's top-left
	Size         image.Point // screen area in frame pixels
	CornerRadius int         // rounding applied to the screenshot corners
}

// DeviceSpec is the static description of one phone model. Specs are
// read-only; procedural rendering returns geometry instead of mutating the
// spec.
type DeviceSpec struct {
	Name         string
	FrameAsset   string      // PNG file name under the assets dir, "" = procedural only
	ScreenSize   image.Point // screen area within the frame asset
	ScreenOffset image.Point // offset to the screen top-left in the asset
	CornerRadius int
	FrameColor   color.NRGBA // body fill for the procedural fallback
}

var deviceCatalog = map[string]DeviceSpec{
	"iphone_15_pro_max": {
		Name:         "iPhone 15 Pro Max",
		FrameAsset:   "iphone_15_pro_max.png",
		ScreenSize:   image.Pt(862, 1868),
		ScreenOffset: image.Pt(38, 29),
		CornerRadius: 100,
		FrameColor:   color.NRGBA{30, 30, 35, 255},
	},
	"iphone_16_pro_max": {
		Name:         "iPhone 16 Pro Max",
		FrameAsset:   "iphone_16_pro_max.png",
		ScreenSize:   image.Pt(862, 1868),
		ScreenOffset: image.Pt(38, 29),
		CornerRadius: 100,
		FrameColor:   color.NRGBA{20, 20, 25, 255}, // darker titanium
	},
	"iphone_17_pro_max": {
		Name:         "iPhone 17 Pro Max",
		FrameAsset:   "iphone_17_pro_max.png", // used if present, else procedural
		ScreenSize:   image.Pt(1320, 2868),
		ScreenOffset: image.Pt(48, 48),
		CornerRadius: 140,
		FrameColor:   color.NRGBA{30, 30, 35, 255},
	},
}

var deviceAliases = map[string]string{
	"flagship": "iphone_17_pro_max",
}

// DeviceNames returns the catalog keys (aliases included), sorted.
func DeviceNames() []string {
	names := make([]string, 0, len(deviceCatalog)+len(deviceAliases))
	for name := range deviceCatalog {
		names = append(names, name)
	}
	for name := range deviceAliases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupDevice resolves a device name or alias to its spec.
func LookupDevice(name string) (DeviceSpec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := deviceAliases[key]; ok {
		key = alias
	}
	spec, ok := deviceCatalog[key]
	if !ok {
		return DeviceSpec{}, fmt.Errorf("%w: %q (devices: %s)",
			ErrUnsupportedDevice, name, strings.Join(DeviceNames(), ", "))
	}
	return spec, nil
}

// FrameSource renders a device frame for a screenshot of the given size and
// reports the screen geometry the compositor must fill.
type FrameSource interface {
	Render(screenshotSize image.Point) (*image.NRGBA, ScreenGeometry, error)
}

// ResolveFrame picks a frame source for the device: the PNG asset when one
// exists under assetsDir, the procedural renderer otherwise.
func ResolveFrame(device, assetsDir string) (FrameSource, error) {
	spec, err := LookupDevice(device)
	if err != nil {
		return nil, err
	}
	if spec.FrameAsset != "" && assetsDir != "" {
		path := filepath.Join(assetsDir, spec.FrameAsset)
		if _, err := os.Stat(path); err == nil {
			return &AssetFrame{Path: path, Spec: spec}, nil
		}
	}
	log.Printf("frame: no asset for %s, using procedural frame", spec.Name)
	return &ProceduralFrame{Spec: spec}, nil
}

// AssetFrame loads a pre-rendered PNG frame. Geometry comes verbatim from
// the device spec; the screenshot size is irrelevant because the asset is
// drawn at a fixed resolution.
type AssetFrame struct {
	Path string
	Spec DeviceSpec
}

func (f *AssetFrame) Render(image.Point) (*image.NRGBA, ScreenGeometry, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, ScreenGeometry{}, fmt.Errorf("%w: %s: %v", ErrFrameAssetCorrupt, f.Path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, ScreenGeometry{}, fmt.Errorf("%w: %s: %v", ErrFrameAssetCorrupt, f.Path, err)
	}
	geo := ScreenGeometry{
		Offset:       f.Spec.ScreenOffset,
		Size:         f.Spec.ScreenSize,
		CornerRadius: f.Spec.CornerRadius,
	}
	return imaging.Clone(img), geo, nil
}

// ProceduralFrame synthesizes a frame at the spec's native resolution:
// titanium body, screen cutout, Dynamic Island, side buttons, edge
// highlights. The screen cutout is left fully transparent so the
// screenshot layer underneath shows through.
type ProceduralFrame struct {
	Spec DeviceSpec
}

const (
	frameBezel      = 24 // bezel thickness around the screen
	frameButtonArea = 12 // extra left margin reserved for side buttons
)

func (f *ProceduralFrame) Render(image.Point) (*image.NRGBA, ScreenGeometry, error) {
	spec := f.Spec
	screenW, screenH := spec.ScreenSize.X, spec.ScreenSize.Y
	fw := screenW + frameBezel*2 + frameButtonArea
	fh := screenH + frameBezel*2
	frame := image.NewNRGBA(image.Rect(0, 0, fw, fh))

	base := spec.FrameColor
	radius := float64(spec.CornerRadius)
	bodyLeft := frameButtonArea
	body := image.Rect(bodyLeft, 0, fw, fh)

	// Device body with a subtle multi-stop diagonal gradient instead of a
	// flat titanium fill.
	stops := [3]color.NRGBA{shiftColor(base, 16), shiftColor(base, -6), shiftColor(base, 8)}
	fillRoundedRectFunc(frame, body, radius, func(x, y int) color.NRGBA {
		t := (float64(x-bodyLeft) + float64(y)) / float64(fw-bodyLeft+fh)
		if t < 0.5 {
			return lerpNRGBA(stops[0], stops[1], t*2)
		}
		return lerpNRGBA(stops[1], stops[2], (t-0.5)*2)
	})

	// Metallic bevel: a light stroke just inside the outer border.
	strokeRoundedRect(frame, body.Inset(2), radius-2,
		2, shiftColor(color.NRGBA{base.R, base.G, base.B, 200}, 40))

	// Darker inner edge for depth, then the near-black screen bezel.
	screenLeft := bodyLeft + frameBezel
	screenTop := frameBezel
	fillRoundedRect(frame,
		image.Rect(screenLeft-3, screenTop-3, screenLeft+screenW+3, screenTop+screenH+3),
		radius-15, shiftColor(base, -30))
	fillRoundedRect(frame,
		image.Rect(screenLeft-1, screenTop-1, screenLeft+screenW+1, screenTop+screenH+1),
		radius-16, color.NRGBA{10, 10, 12, 255})

	// Screen cutout. Must stay transparent; the compositor lays the
	// screenshot under the frame.
	screen := image.Rect(screenLeft, screenTop, screenLeft+screenW, screenTop+screenH)
	screenRadius := max(0, spec.CornerRadius-18)
	punchRoundedRect(frame, screen, float64(screenRadius))

	// Dynamic Island: opaque pill near the top of the screen area.
	islandW := screenW * 19 / 100
	islandH := islandW * 32 / 100
	islandX := screenLeft + (screenW-islandW)/2
	islandY := screenTop + screenH*12/1000
	fillRoundedRect(frame,
		image.Rect(islandX, islandY, islandX+islandW, islandY+islandH),
		float64(islandH)/2, color.NRGBA{0, 0, 0, 255})

	drawSideButtons(frame, fh, base)
	drawTopReflection(frame, bodyLeft, fw, spec.CornerRadius)

	// Final corner clip so nothing square leaks past the body rounding.
	roundCorners(frame, radius)

	geo := ScreenGeometry{
		Offset:       image.Pt(screenLeft, screenTop),
		Size:         spec.ScreenSize,
		CornerRadius: screenRadius,
	}
	return frame, geo, nil
}

// drawSideButtons places the action button and the volume rocker along the
// left edge at the original's relative positions.
func drawSideButtons(frame *image.NRGBA, fh int, base color.NRGBA) {
	buttonFill := shiftColor(base, -15)
	buttonEdge := shiftColor(base, 20)

	actionY := fh * 15 / 100
	const actionSize = 28
	action := image.Rect(0, actionY, actionSize, actionY+actionSize)
	fillRoundedRect(frame, action, actionSize/2, buttonFill)
	strokeRoundedRect(frame, action, actionSize/2, 1, buttonEdge)

	volH := fh * 45 / 1000
	volUpY := fh * 22 / 100
	fillRoundedRect(frame, image.Rect(0, volUpY, 8, volUpY+volH), 4, buttonFill)
	volDownY := volUpY + volH + 15
	fillRoundedRect(frame, image.Rect(0, volDownY, 8, volDownY+volH), 4, buttonFill)
}

// drawTopReflection fades a few rows of white along the top edge between
// the corners, suggesting an overhead light source on the metal.
func drawTopReflection(frame *image.NRGBA, bodyLeft, fw, cornerRadius int) {
	x0 := bodyLeft + cornerRadius
	x1 := fw - cornerRadius
	for i := 0; i < 8; i++ {
		alpha := 25 - i*3
		if alpha <= 0 {
			break
		}
		for x := x0; x < x1; x++ {
			blendPixel(frame, x, i, color.NRGBA{255, 255, 255, 255}, float64(alpha)/255)
		}
	}
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	l := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.NRGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), l(a.A, b.A)}
}

// AddShadow floats the device over a soft drop shadow derived from its own
// silhouette. The returned image is padded by three blur radii on every
// side so the shadow tapers without clipping.
func AddShadow(img *image.NRGBA, offset image.Point, blur int) *image.NRGBA {
	if blur <= 0 {
		blur = 1
	}
	pad := blur * 3
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx()+pad*2, b.Dy()+pad*2))

	// Stamp the silhouette, alpha capped at 40, at the shadow offset.
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)+3]
			if a == 0 {
				continue
			}
			tx, ty := pad+offset.X+x, pad+offset.Y+y
			if !image.Pt(tx, ty).In(out.Bounds()) {
				continue
			}
			out.Pix[out.PixOffset(tx, ty)+3] = min(a, 40)
		}
	}
	out = imaging.Blur(out, float64(blur)/3)

	dst := image.Rect(pad, pad, pad+b.Dx(), pad+b.Dy())
	draw.Draw(out, dst, img, b.Min, draw.Over)
	return out
}
