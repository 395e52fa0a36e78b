package cmcut

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"

	"github.com/rohta-github/cmcut-from-wav/wav"
)

var (
	errNonPositiveRate = errors.New("envelope rate must be positive")
	errNilAudioBuffer  = errors.New("audio buffer and its format must not be nil")
)

// Envelope is the loudness timeseries of a program recording. Values
// holds one absolute amplitude per interleaved sample in stream order,
// Rate is the number of values covering one second of audio.
type Envelope struct {
	Values []float32
	Rate   float64
}

// NewEnvelope wraps an existing amplitude series.
func NewEnvelope(values []float32, rate float64) (Envelope, error) {
	if rate <= 0 {
		return Envelope{}, fmt.Errorf("%w: %g", errNonPositiveRate, rate)
	}

	return Envelope{Values: values, Rate: rate}, nil
}

// EnvelopeFromWAV parses a wav stream and returns its loudness envelope.
// The rate is taken from the stream format: sample rate times channel
// count, one value per interleaved sample.
func EnvelopeFromWAV(r io.Reader) (Envelope, error) {
	f, data, err := wav.Parse(r)
	if err != nil {
		return Envelope{}, err
	}

	values, err := wav.DecodeLoudness(f, data)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{Values: values, Rate: float64(f.SamplesPerSec())}, nil
}

// EnvelopeFromBuffer builds the envelope of an already decoded go-audio
// buffer. The buffer data is copied, not modified.
func EnvelopeFromBuffer(buf *audio.Float32Buffer) (Envelope, error) {
	if buf == nil || buf.Format == nil {
		return Envelope{}, errNilAudioBuffer
	}

	rate := float64(buf.Format.SampleRate * buf.Format.NumChannels)
	if rate <= 0 {
		return Envelope{}, fmt.Errorf("%w: %g", errNonPositiveRate, rate)
	}

	values := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		if v < 0 {
			v = -v
		}

		values[i] = v
	}

	return Envelope{Values: values, Rate: rate}, nil
}

// Duration returns the covered play time in seconds.
func (e Envelope) Duration() float64 {
	if e.Rate <= 0 {
		return 0
	}

	return float64(len(e.Values)) / e.Rate
}
