package video

import (
	"image"

	"golang.org/x/image/draw"
)

// Scaler represents scaling algorithm
type Scaler draw.Scaler

// List of scaling algorithms
var (
	ScalerNearestNeighbor = Scaler(draw.NearestNeighbor)
	ScalerApproxBiLinear  = Scaler(draw.ApproxBiLinear)
	ScalerBiLinear        = Scaler(draw.BiLinear)
	ScalerCatmullRom      = Scaler(draw.CatmullRom)
)

// Scale returns video scaling transform producing *image.RGBA frames of
// width x height. A nil scaler means ScalerNearestNeighbor. Frames that
// already have the target size pass through untouched.
//
// The output image is reused between reads, so it is only valid until the
// next Read.
func Scale(width, height int, scaler Scaler) TransformFunc {
	if width <= 0 || height <= 0 {
		panic("video: scale dimensions must be positive")
	}
	if scaler == nil {
		scaler = ScalerNearestNeighbor
	}
	rect := image.Rect(0, 0, width, height)

	return func(r Reader) Reader {
		dst := image.NewRGBA(rect)

		return ReaderFunc(func() (image.Image, func(), error) {
			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}
			if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
				return img, release, nil
			}

			scaler.Scale(dst, rect, img, img.Bounds(), draw.Src, nil)
			// The source is no longer referenced once scaled.
			release()
			return dst, func() {}, nil
		})
	}
}
