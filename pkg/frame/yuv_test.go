package frame

import (
	"fmt"
	"image"
	"reflect"
	"testing"
)

func TestDecodeYUY2(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{
		// Y    Cb     Y    Cr
		0x01, 0x82, 0x03, 0x84,
		0x05, 0x86, 0x07, 0x88,
	}
	expected := &image.YCbCr{
		Y:              []byte{0x01, 0x03, 0x05, 0x07},
		YStride:        width,
		Cb:             []byte{0x82, 0x86},
		Cr:             []byte{0x84, 0x88},
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio422,
		Rect:           image.Rect(0, 0, width, height),
	}

	img, _, err := decodeYUY2(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(expected, img) {
		t.Errorf("Wrong decode result,\nexpected:\n%+v\ngot:\n%+v", expected, img)
	}
}

func TestDecodeUYVY(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{
		//Cb     Y    Cr     Y
		0x82, 0x01, 0x84, 0x03,
		0x86, 0x05, 0x88, 0x07,
	}
	expected := &image.YCbCr{
		Y:              []byte{0x01, 0x03, 0x05, 0x07},
		YStride:        width,
		Cb:             []byte{0x82, 0x86},
		Cr:             []byte{0x84, 0x88},
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio422,
		Rect:           image.Rect(0, 0, width, height),
	}

	img, _, err := decodeUYVY(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(expected, img) {
		t.Errorf("Wrong decode result,\nexpected:\n%+v\ngot:\n%+v", expected, img)
	}
}

func TestDecodeI420(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{0x01, 0x02, 0x03, 0x04, 0x80, 0x90}
	expected := &image.YCbCr{
		Y:              []byte{0x01, 0x02, 0x03, 0x04},
		YStride:        width,
		Cb:             []byte{0x80},
		Cr:             []byte{0x90},
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}

	img, _, err := decodeI420(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(expected, img) {
		t.Errorf("Wrong decode result,\nexpected:\n%+v\ngot:\n%+v", expected, img)
	}

	if _, _, err := decodeI420(input[:5], width, height); err == nil {
		t.Error("expected short I420 frame to fail")
	}
}

func TestDecodeNV21(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{
		0x01, 0x02, 0x03, 0x04,
		// Cr   Cb
		0x90, 0x80,
	}

	img, _, err := decodeNV21(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	ycbcr := img.(*image.YCbCr)
	if !reflect.DeepEqual([]byte{0x80}, ycbcr.Cb) || !reflect.DeepEqual([]byte{0x90}, ycbcr.Cr) {
		t.Errorf("chroma planes swapped: cb=%v cr=%v", ycbcr.Cb, ycbcr.Cr)
	}
}

func TestNewDecoder(t *testing.T) {
	for _, f := range []Format{FormatI420, FormatNV21, FormatYUYV, FormatUYVY, FormatMJPEG} {
		if _, err := NewDecoder(f); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}
	if _, err := NewDecoder(FormatRGBA); err == nil {
		t.Error("RGBA has no raw decoder")
	}
}

func TestNewBlack(t *testing.T) {
	img := NewBlack(4, 2)
	if img.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	r, g, b, _ := img.At(3, 1).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("expected black pixel, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func BenchmarkDecodeYUY2(b *testing.B) {
	sizes := []struct {
		width, height int
	}{
		{640, 480},
		{1920, 1080},
	}
	for _, sz := range sizes {
		sz := sz
		b.Run(fmt.Sprintf("%dx%d", sz.width, sz.height), func(b *testing.B) {
			input := make([]byte, sz.width*sz.height*2)
			for i := 0; i < b.N; i++ {
				_, _, err := decodeYUY2(input, sz.width, sz.height)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestSize(t *testing.T) {
	testCases := map[Format]int{
		FormatI420: 96,
		FormatNV21: 96,
		FormatYUY2: 128,
		FormatUYVY: 128,
		FormatRGBA: 256,
	}
	for f, expected := range testCases {
		if n, ok := Size(f, 8, 8); !ok || n != expected {
			t.Errorf("%s: expected %d, got %d (%v)", f, expected, n, ok)
		}
	}
	if _, ok := Size(FormatMJPEG, 8, 8); ok {
		t.Error("compressed formats have no fixed size")
	}
}
