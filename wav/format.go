package wav

import (
	"fmt"
	"time"

	"github.com/go-audio/audio"
)

// Encoding identifies the sample encoding declared by the fmt chunk. The
// values match the wav format codes found on the wire.
type Encoding uint16

const (
	// EncodingPCM marks linear integer PCM samples.
	EncodingPCM Encoding = 1
	// EncodingIEEEFloat marks IEEE 754 float samples.
	EncodingIEEEFloat Encoding = 3
)

func (e Encoding) String() string {
	switch e {
	case EncodingPCM:
		return "PCM"
	case EncodingIEEEFloat:
		return "IEEE float"
	default:
		return fmt.Sprintf("unknown format code %d", uint16(e))
	}
}

// Format describes the audio layout of a wav stream: how many channels
// are interleaved, how often they are sampled and how a single sample is
// encoded.
type Format struct {
	NumChannels int
	SampleRate  int
	BitDepth    int
	Encoding    Encoding
}

// Validate reports whether the format is one the decoder supports.
// Supported are 8, 16, 24 and 32 bit integer PCM and 32 bit IEEE float.
func (f Format) Validate() error {
	if f.NumChannels < 1 {
		return fmt.Errorf("%w: channel count %d", ErrUnsupportedFormat, f.NumChannels)
	}

	if f.SampleRate < 1 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, f.SampleRate)
	}

	switch f.Encoding {
	case EncodingPCM:
		switch f.BitDepth {
		case 8, 16, 24, 32:
			return nil
		}

		return fmt.Errorf("%w: %d bit PCM", ErrUnsupportedWidth, f.BitDepth)
	case EncodingIEEEFloat:
		if f.BitDepth != 32 {
			return fmt.Errorf("%w: %d bit IEEE float", ErrUnsupportedWidth, f.BitDepth)
		}

		return nil
	default:
		return fmt.Errorf("%w: format code %d", ErrUnsupportedFormat, uint16(f.Encoding))
	}
}

// FrameBytes returns the byte width of a single encoded sample value.
func (f Format) FrameBytes() int {
	if f.BitDepth < 1 {
		return 0
	}

	return (f.BitDepth-1)/8 + 1
}

// BlockAlign returns the byte width of one interleaved frame across all
// channels.
func (f Format) BlockAlign() int {
	return f.NumChannels * f.FrameBytes()
}

// BytesPerSec returns the data rate of the interleaved stream.
func (f Format) BytesPerSec() int {
	return f.SampleRate * f.BlockAlign()
}

// SamplesPerSec returns how many individual sample values one second of
// audio holds, channels included.
func (f Format) SamplesPerSec() int {
	return f.SampleRate * f.NumChannels
}

// Duration returns the play time of a data payload of dataLen bytes.
func (f Format) Duration(dataLen int) time.Duration {
	bytesPerSec := f.BytesPerSec()
	if bytesPerSec < 1 {
		return 0
	}

	return time.Duration(float64(dataLen) / float64(bytesPerSec) * float64(time.Second))
}

// Audio converts the format to its go-audio representation.
func (f Format) Audio() *audio.Format {
	return &audio.Format{
		NumChannels: f.NumChannels,
		SampleRate:  f.SampleRate,
	}
}
