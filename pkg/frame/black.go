package frame

import "image"

const neutralChroma = 128

// NewBlack allocates a black I420 image of the given size. Disabled video
// tracks hand these to renderers instead of captured content.
func NewBlack(width, height int) *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio420)
	// Luma is already zero.
	for i := range img.Cb {
		img.Cb[i] = neutralChroma
		img.Cr[i] = neutralChroma
	}
	return img
}
