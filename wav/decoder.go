package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
)

var (
	// ErrMisalignedData is returned when the data chunk length is not a
	// multiple of the frame width.
	ErrMisalignedData = errors.New("data not aligned to frame width")
	// ErrUnsupportedWidth is returned for bit depth and encoding
	// combinations outside the supported matrix.
	ErrUnsupportedWidth = errors.New("unsupported sample width")
)

// DecodeSamples interprets raw data chunk bytes according to the format
// and returns one float32 per sample value, in stream order with the
// channel interleaving preserved. Integer PCM samples are normalized to
// [-1, 1], IEEE float samples are returned as stored.
func DecodeSamples(f Format, data []byte) ([]float32, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	frameBytes := f.FrameBytes()
	if len(data)%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %d data bytes, %d byte frames", ErrMisalignedData, len(data), frameBytes)
	}

	decode, err := sampleDecodeFloat32Func(f)
	if err != nil {
		return nil, err
	}

	samples := make([]float32, len(data)/frameBytes)
	for i := range samples {
		samples[i] = decode(data[i*frameBytes : (i+1)*frameBytes])
	}

	return samples, nil
}

// DecodeLoudness decodes the samples and maps every value to its
// absolute amplitude. The result is a plain per sample envelope, there
// is no windowing, no weighting and no channel mixing.
func DecodeLoudness(f Format, data []byte) ([]float32, error) {
	samples, err := DecodeSamples(f, data)
	if err != nil {
		return nil, err
	}

	for i, v := range samples {
		if v < 0 {
			samples[i] = -v
		}
	}

	return samples, nil
}

// Loudness parses a wav stream and returns the absolute amplitude of
// every sample it carries.
func Loudness(r io.Reader) ([]float32, error) {
	f, data, err := Parse(r)
	if err != nil {
		return nil, err
	}

	return DecodeLoudness(f, data)
}

// Buffer parses and decodes a wav stream into a go-audio float buffer,
// ready for packages consuming the go-audio interfaces.
func Buffer(r io.Reader) (*audio.Float32Buffer, error) {
	f, data, err := Parse(r)
	if err != nil {
		return nil, err
	}

	samples, err := DecodeSamples(f, data)
	if err != nil {
		return nil, err
	}

	return &audio.Float32Buffer{
		Format:         f.Audio(),
		Data:           samples,
		SourceBitDepth: f.BitDepth,
	}, nil
}

// sampleDecodeFloat32Func returns a function decoding a single frame of
// the given format into a float32.
func sampleDecodeFloat32Func(f Format) (func([]byte) float32, error) {
	if f.Encoding == EncodingIEEEFloat {
		if f.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %d bit IEEE float", ErrUnsupportedWidth, f.BitDepth)
		}

		return func(b []byte) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(b))
		}, nil
	}

	switch f.BitDepth {
	case 8:
		// 8 bit wav data is unsigned, centered on 128.
		return func(b []byte) float32 {
			return normalizePCM(int32(b[0])-128, 8)
		}, nil
	case 16:
		return func(b []byte) float32 {
			return normalizePCM(int32(int16(binary.LittleEndian.Uint16(b))), 16)
		}, nil
	case 24:
		return func(b []byte) float32 {
			return normalizePCM(audio.Int24LETo32(b), 24)
		}, nil
	case 32:
		return func(b []byte) float32 {
			return normalizePCM(int32(binary.LittleEndian.Uint32(b)), 32)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d bit PCM", ErrUnsupportedWidth, f.BitDepth)
	}
}
