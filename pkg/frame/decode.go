package frame

import (
	"fmt"
)

// NewDecoder returns the decoder for f.
func NewDecoder(f Format) (Decoder, error) {
	var decode decoderFunc

	switch f {
	case FormatI420:
		decode = decodeI420
	case FormatNV21:
		decode = decodeNV21
	case FormatYUY2:
		decode = decodeYUY2
	case FormatUYVY:
		decode = decodeUYVY
	case FormatMJPEG:
		decode = decodeMJPEG
	default:
		return nil, fmt.Errorf("%s is not supported", f)
	}

	return decode, nil
}
