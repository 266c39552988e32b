package media

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Interpolation selects the resampling kernel used when resizing.
type Interpolation int

const (
	// InterpNearest is nearest-neighbor sampling.
	InterpNearest Interpolation = iota
	// InterpArea is box sampling, best for strong downscales.
	InterpArea
	// InterpLinear is bilinear sampling.
	InterpLinear
	// InterpCubic is bicubic (Catmull-Rom) sampling.
	InterpCubic
	// InterpLanczos is Lanczos resampling, the default for thumbnails.
	InterpLanczos
)

func (i Interpolation) filter() imaging.ResampleFilter {
	switch i {
	case InterpNearest:
		return imaging.NearestNeighbor
	case InterpArea:
		return imaging.Box
	case InterpLinear:
		return imaging.Linear
	case InterpCubic:
		return imaging.CatmullRom
	default:
		return imaging.Lanczos
	}
}

// FitToSide scales img down so that its longer side is at most maxSide,
// preserving aspect ratio. Images already within the bound are returned
// unchanged.
func FitToSide(img image.Image, maxSide int, mode Interpolation) image.Image {
	if img == nil || maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, mode.filter())
}

// Resize scales img to exactly width x height.
func Resize(img image.Image, width, height int, mode Interpolation) image.Image {
	if img == nil || width < 1 || height < 1 {
		return nil
	}
	return imaging.Resize(img, width, height, mode.filter())
}

// Rotate rotates img counter-clockwise by angle degrees. The canvas grows as
// needed; exposed corners are transparent.
func Rotate(img image.Image, angle float64) image.Image {
	if img == nil {
		return nil
	}
	return imaging.Rotate(img, angle, color.Transparent)
}

// FlipH mirrors img horizontally.
func FlipH(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	return imaging.FlipH(img)
}

// ApplyOrientation transforms img according to an EXIF orientation value
// (1..8). Values outside that range return img unchanged.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	if img == nil {
		return nil
	}
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
