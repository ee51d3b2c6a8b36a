package frame

// Size returns the byte length of one raw frame in format f, assuming even
// dimensions. It reports false for compressed formats.
func Size(f Format, width, height int) (int, bool) {
	switch f {
	case FormatI420, FormatNV21:
		return width * height * 3 / 2, true
	case FormatYUY2, FormatUYVY:
		return width * height * 2, true
	case FormatRGBA:
		return width * height * 4, true
	default:
		return 0, false
	}
}
