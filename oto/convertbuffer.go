package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/pianoear"
)

// BufferToFloat32LE appends the samples of the buffer to dst as interleaved
// little-endian float32, the format the oto context is opened with. Samples
// are clamped to [-1, 1].
func BufferToFloat32LE(buffer pianoear.AudioBuffer, dst []byte) []byte {
	for _, frame := range buffer {
		for _, v := range frame {
			v = max(-1, min(v, 1))
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}
