package video

import (
	"image"

	"golang.org/x/image/draw"
)

// FrameBuffer keeps a private copy of a frame so it outlives the reader's
// release func. Consecutive copies of the same size reuse memory.
type FrameBuffer struct {
	buffer []uint8
	tmp    image.Image
}

// NewFrameBuffer creates a new FrameBuffer instance and initialize internal buffer
// with initialSize
func NewFrameBuffer(initialSize int) *FrameBuffer {
	return &FrameBuffer{
		buffer: make([]uint8, initialSize),
	}
}

func (buff *FrameBuffer) storeInOrder(srcs ...[]uint8) {
	var neededSize int

	for _, src := range srcs {
		neededSize += len(src)
	}

	if len(buff.buffer) < neededSize {
		if cap(buff.buffer) >= neededSize {
			buff.buffer = buff.buffer[:neededSize]
		} else {
			buff.buffer = make([]uint8, neededSize)
		}
	}

	var currentLen int
	for _, src := range srcs {
		copy(buff.buffer[currentLen:], src)
		currentLen += len(src)
	}
}

// Load loads the current owned image
func (buff *FrameBuffer) Load() image.Image {
	return buff.tmp
}

// StoreCopy makes a copy of src and stores it. YCbCr and RGBA keep their
// layout; anything else is converted to RGBA.
func (buff *FrameBuffer) StoreCopy(src image.Image) {
	switch src := src.(type) {
	case *image.RGBA:
		clone, ok := buff.tmp.(*image.RGBA)
		if !ok {
			clone = &image.RGBA{}
		}
		*clone = *src

		buff.storeInOrder(src.Pix)
		clone.Pix = buff.buffer[:len(src.Pix):len(src.Pix)]

		buff.tmp = clone
	case *image.YCbCr:
		clone, ok := buff.tmp.(*image.YCbCr)
		if !ok {
			clone = &image.YCbCr{}
		}
		*clone = *src

		var currentLen int
		buff.storeInOrder(src.Y, src.Cb, src.Cr)
		clone.Y = buff.buffer[currentLen : currentLen+len(src.Y) : currentLen+len(src.Y)]
		currentLen += len(src.Y)
		clone.Cb = buff.buffer[currentLen : currentLen+len(src.Cb) : currentLen+len(src.Cb)]
		currentLen += len(src.Cb)
		clone.Cr = buff.buffer[currentLen : currentLen+len(src.Cr) : currentLen+len(src.Cr)]

		buff.tmp = clone
	default:
		converted := image.NewRGBA(src.Bounds())
		draw.Draw(converted, converted.Bounds(), src, src.Bounds().Min, draw.Src)
		buff.StoreCopy(converted)
	}
}
