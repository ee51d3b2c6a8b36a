// Package frame turns raw capture buffers into images.
package frame

import "image"

// Decoder converts one raw buffer into an image. The returned release func
// must be called once the image is no longer referenced.
type Decoder interface {
	Decode(frame []byte, width, height int) (image.Image, func(), error)
}

// decoderFunc is a proxy type for Decoder
type decoderFunc func(frame []byte, width, height int) (image.Image, func(), error)

func (f decoderFunc) Decode(frame []byte, width, height int) (image.Image, func(), error) {
	return f(frame, width, height)
}
