package wav

import (
	"math"

	"github.com/go-audio/audio"
)

// pcmMaxValue returns the maximum magnitude representable at the given
// bit depth. It doubles as the normalization divisor, so encoding and
// decoding use the same scale.
func pcmMaxValue(bitDepth int) float32 {
	return float32(audio.IntMaxSignedValue(bitDepth))
}

// normalizePCM scales a signed integer sample to [-1, 1]. The most
// negative code at each depth exceeds the positive maximum by one, the
// quotient is clamped so it still lands inside the range.
func normalizePCM(v int32, bitDepth int) float32 {
	return clampFloat32(float32(v)/pcmMaxValue(bitDepth), -1, 1)
}

// float32ToPCMUint8 converts a normalized sample to the unsigned 8 bit
// wav representation centered on 128.
func float32ToPCMUint8(value float32) uint8 {
	value = clampFloat32(value, -1, 1)

	return uint8(int(math.Round(float64(value)*127)) + 128)
}

// float32ToPCMInt32 converts a normalized sample to a signed integer of
// the given bit depth. The scale mirrors normalizePCM so a decoded
// sample reproduces the encoded one within half a quantization step.
func float32ToPCMInt32(value float32, bitDepth int) int32 {
	value = clampFloat32(value, -1, 1)

	return int32(math.Round(float64(value) * float64(audio.IntMaxSignedValue(bitDepth))))
}

// clampFloat32 limits value to the closed interval [min, max].
func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
