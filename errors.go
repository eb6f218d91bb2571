package shotframe

import "errors"

// Error kinds returned by the rendering core. Call sites wrap these with
// fmt.Errorf("%w: ...") so the offending name or value travels with the
// error; match with errors.Is.
var (
	// ErrInvalidPaletteInput reports a malformed hex color or an empty
	// color list.
	ErrInvalidPaletteInput = errors.New("invalid palette input")

	// ErrUnknownStyle reports an unrecognized background style name.
	ErrUnknownStyle = errors.New("unknown background style")

	// ErrUnsupportedDevice reports a device name with no catalog entry.
	ErrUnsupportedDevice = errors.New("unsupported device")

	// ErrFrameAssetCorrupt reports a frame asset that exists on disk but
	// cannot be decoded.
	ErrFrameAssetCorrupt = errors.New("frame asset corrupt")
)
