// Package microphone captures audio from the host's default input device
// through github.com/gen2brain/malgo and tracks its input level.
package microphone

import (
	"encoding/binary"
	"math"
)

// level returns the RMS of interleaved signed 16-bit samples, normalized to
// [0, 1].
func level(chunk []byte) float64 {
	n := len(chunk) / 2
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.NativeEndian.Uint16(chunk[2*i:]))) / math.MaxInt16
		sum += s * s
	}
	return math.Min(math.Sqrt(sum/float64(n)), 1)
}
