package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

var (
	errNilBuffer  = errors.New("can't add a nil buffer")
	errNilEncoder = errors.New("can't write with a nil encoder")
	errNilWriter  = errors.New("can't write without a writer")
)

// Encoder writes normalized float32 samples into a wav container. The
// header carries placeholder sizes until Close patches them, so the
// writer must support seeking.
type Encoder struct {
	w   io.WriteSeeker
	buf *bytes.Buffer

	Format Format

	WrittenBytes     int
	samples          int
	dataChunkStarted bool
	dataChunkSizePos int
	wroteHeader      bool
}

// NewEncoder creates an encoder producing a wav stream of the given
// format. Close must be called for the stream to be valid.
func NewEncoder(w io.WriteSeeker, f Format) *Encoder {
	return &Encoder{
		w:      w,
		buf:    bytes.NewBuffer(make([]byte, 0, f.BytesPerSec())),
		Format: f,
	}
}

// AddLE writes the value to the stream in little endian order.
func (e *Encoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	if err := binary.Write(e.w, binary.LittleEndian, src); err != nil {
		return fmt.Errorf("failed to write little endian value: %w", err)
	}

	return nil
}

func (e *Encoder) writeHeader() error {
	if e == nil {
		return errNilEncoder
	}

	if e.w == nil {
		return errNilWriter
	}

	if err := e.Format.Validate(); err != nil {
		return err
	}

	e.wroteHeader = true

	if err := e.AddLE(riff.RiffID); err != nil {
		return err
	}

	// file size, patched on Close.
	if err := e.AddLE(uint32(4294967295)); err != nil {
		return err
	}

	if err := e.AddLE(riff.WavFormatID); err != nil {
		return err
	}

	if err := e.AddLE(riff.FmtID); err != nil {
		return err
	}

	if err := e.AddLE(uint32(16)); err != nil {
		return err
	}

	if err := e.AddLE(uint16(e.Format.Encoding)); err != nil {
		return fmt.Errorf("failed to encode the format code: %w", err)
	}

	if err := e.AddLE(uint16(e.Format.NumChannels)); err != nil {
		return fmt.Errorf("failed to encode the number of channels: %w", err)
	}

	if err := e.AddLE(uint32(e.Format.SampleRate)); err != nil {
		return fmt.Errorf("failed to encode the sample rate: %w", err)
	}

	if err := e.AddLE(uint32(e.Format.BytesPerSec())); err != nil {
		return fmt.Errorf("failed to encode the avg bytes per sec: %w", err)
	}

	if err := e.AddLE(uint16(e.Format.BlockAlign())); err != nil {
		return err
	}

	if err := e.AddLE(uint16(e.Format.BitDepth)); err != nil {
		return fmt.Errorf("failed to encode the bits per sample: %w", err)
	}

	return nil
}

// beginDataChunk writes the data chunk header with a placeholder size
// that Close patches once the sample count is known.
func (e *Encoder) beginDataChunk() error {
	if err := e.AddLE(riff.DataFormatID); err != nil {
		return fmt.Errorf("failed to encode the data chunk id: %w", err)
	}

	e.dataChunkStarted = true
	e.dataChunkSizePos = e.WrittenBytes

	if err := e.AddLE(uint32(4294967295)); err != nil {
		return fmt.Errorf("failed to write the data chunk size placeholder: %w", err)
	}

	return nil
}

// Write appends every sample of the buffer to the stream. Don't forget
// to Close() the encoder or the stream won't be valid.
func (e *Encoder) Write(buf *audio.Float32Buffer) error {
	if !e.wroteHeader {
		if err := e.writeHeader(); err != nil {
			return err
		}
	}

	if !e.dataChunkStarted {
		if err := e.beginDataChunk(); err != nil {
			return err
		}
	}

	return e.addBuffer(buf)
}

// WriteFrame writes a single normalized sample value.
func (e *Encoder) WriteFrame(value float32) error {
	if !e.wroteHeader {
		if err := e.writeHeader(); err != nil {
			return err
		}
	}

	if !e.dataChunkStarted {
		if err := e.beginDataChunk(); err != nil {
			return err
		}
	}

	e.samples++

	if e.Format.Encoding == EncodingIEEEFloat {
		return e.AddLE(clampFloat32(value, -1, 1))
	}

	switch e.Format.BitDepth {
	case 8:
		return e.AddLE(float32ToPCMUint8(value))
	case 16:
		return e.AddLE(int16(float32ToPCMInt32(value, 16)))
	case 24:
		return e.AddLE(audio.Int32toInt24LEBytes(float32ToPCMInt32(value, 24)))
	default:
		return e.AddLE(float32ToPCMInt32(value, 32))
	}
}

func (e *Encoder) addBuffer(buf *audio.Float32Buffer) error {
	if buf == nil {
		return errNilBuffer
	}

	// batch the samples so the underlying writer sees one write per call.
	for _, value := range buf.Data {
		var err error

		if e.Format.Encoding == EncodingIEEEFloat {
			err = binary.Write(e.buf, binary.LittleEndian, clampFloat32(value, -1, 1))
		} else {
			switch e.Format.BitDepth {
			case 8:
				err = e.buf.WriteByte(float32ToPCMUint8(value))
			case 16:
				err = binary.Write(e.buf, binary.LittleEndian, int16(float32ToPCMInt32(value, 16)))
			case 24:
				_, err = e.buf.Write(audio.Int32toInt24LEBytes(float32ToPCMInt32(value, 24)))
			default:
				err = binary.Write(e.buf, binary.LittleEndian, float32ToPCMInt32(value, 32))
			}
		}

		if err != nil {
			return fmt.Errorf("failed to write %d bit sample: %w", e.Format.BitDepth, err)
		}

		e.samples++
	}

	if n, err := e.w.Write(e.buf.Bytes()); err != nil {
		e.WrittenBytes += n
		return fmt.Errorf("failed to flush the sample buffer: %w", err)
	}

	e.WrittenBytes += e.buf.Len()
	e.buf.Reset()

	return nil
}

// Close patches the header sizes, flushes the content to disk and leaves
// the writer positioned at the end of the stream. The underlying writer
// is NOT being closed.
func (e *Encoder) Close() error {
	if e == nil || e.w == nil {
		return nil
	}

	// patch the riff size now that the length is known.
	if _, err := e.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to the riff size: %w", err)
	}

	if err := e.AddLE(uint32(e.WrittenBytes) - 8); err != nil {
		return fmt.Errorf("failed to write the riff size: %w", err)
	}

	// patch the data chunk size.
	if e.dataChunkSizePos > 0 {
		if _, err := e.w.Seek(int64(e.dataChunkSizePos), io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek to the data chunk size: %w", err)
		}

		chunkSize := uint32(e.samples * e.Format.FrameBytes())
		if err := e.AddLE(chunkSize); err != nil {
			return fmt.Errorf("failed to write the data chunk size: %w", err)
		}
	}

	if _, err := e.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to the stream end: %w", err)
	}

	if f, ok := e.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}
