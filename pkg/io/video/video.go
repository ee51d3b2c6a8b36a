// Package video holds the pull-based frame reader that capturers hand to
// tracks, plus transforms that wrap it.
package video

import (
	"image"
)

// Reader yields captured frames. release must be called once the image is no
// longer referenced; readers return io.EOF after their capturer stops.
type Reader interface {
	Read() (img image.Image, release func(), err error)
}

// ReaderFunc is a proxy type to make easier for users to implement Reader
type ReaderFunc func() (img image.Image, release func(), err error)

func (rf ReaderFunc) Read() (img image.Image, release func(), err error) {
	img, release, err = rf()
	return
}

// TransformFunc produces a new Reader that will produces a transformed video
type TransformFunc func(r Reader) Reader
