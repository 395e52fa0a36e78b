package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

var (
	// ErrNotRIFF is returned when the stream does not start with a
	// RIFF header carrying the WAVE form type.
	ErrNotRIFF = errors.New("not a RIFF/WAVE stream")
	// ErrUnsupportedFormat is returned when the fmt chunk declares a
	// format this package cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported wav format")
	// ErrMissingChunk is returned when the stream ends before both the
	// fmt and the data chunks were seen.
	ErrMissingChunk = errors.New("required chunk missing")
	// ErrTruncated is returned when a chunk declares more bytes than
	// the stream holds.
	ErrTruncated = errors.New("truncated chunk")
)

// wavFormatExtensible is the fmt chunk format code whose effective
// encoding lives in the sub format GUID of the chunk extension.
const wavFormatExtensible = 0xFFFE

// Parse reads a RIFF/WAVE stream and returns the declared audio format
// together with the raw, still encoded payload of the data chunk.
//
// Chunks other than fmt and data are skipped. Scanning stops as soon as
// both chunks were seen, so trailing metadata chunks are never read.
// Streams carrying the data chunk before the fmt chunk are handled by
// holding on to the payload until the format is known.
func Parse(r io.Reader) (Format, []byte, error) {
	var f Format

	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return f, nil, fmt.Errorf("%w: stream shorter than a RIFF header", ErrNotRIFF)
		}

		return f, nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}

	var id [4]byte
	copy(id[:], header[:4])
	if id != riff.RiffID {
		return f, nil, fmt.Errorf("%w: leading bytes %q", ErrNotRIFF, header[:4])
	}

	copy(id[:], header[8:])
	if id != riff.WavFormatID {
		return f, nil, fmt.Errorf("%w: form type %q", ErrNotRIFF, header[8:])
	}

	var (
		fmtSeen  bool
		dataSeen bool
		data     []byte
	)
	for !fmtSeen || !dataSeen {
		chunk, err := nextChunk(r)
		if err == io.EOF {
			break
		}

		if err != nil {
			return f, nil, err
		}

		switch chunk.ID {
		case riff.FmtID:
			if f, err = parseFmtChunk(chunk); err != nil {
				return f, nil, err
			}

			fmtSeen = true
		case riff.DataFormatID:
			data = make([]byte, chunk.Size)
			if _, err := io.ReadFull(chunk, data); err != nil {
				return f, nil, fmt.Errorf("%w: data chunk declares %d bytes", ErrTruncated, chunk.Size)
			}

			dataSeen = true
		default:
			if err := drainChunk(chunk); err != nil {
				return f, nil, err
			}
		}

		if err := skipPadding(r, chunk.Size); err != nil {
			return f, nil, err
		}
	}

	switch {
	case !fmtSeen && !dataSeen:
		return f, nil, fmt.Errorf("%w: fmt and data", ErrMissingChunk)
	case !fmtSeen:
		return f, nil, fmt.Errorf("%w: fmt", ErrMissingChunk)
	case !dataSeen:
		return f, nil, fmt.Errorf("%w: data", ErrMissingChunk)
	}

	return f, data, nil
}

// nextChunk reads one 8 byte chunk header and returns the chunk with its
// payload reader limited to the declared size. It returns io.EOF when
// the stream ends cleanly at a chunk boundary.
func nextChunk(r io.Reader) (*riff.Chunk, error) {
	var header [8]byte

	n, err := io.ReadFull(r, header[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: chunk header cut short after %d bytes", ErrTruncated, n)
		}

		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}

	var id [4]byte
	copy(id[:], header[:4])
	size := int(binary.LittleEndian.Uint32(header[4:]))

	return &riff.Chunk{
		ID:   id,
		Size: size,
		R:    io.LimitReader(r, int64(size)),
	}, nil
}

// parseFmtChunk decodes the format description. The leading 16 bytes are
// fixed, extensible headers (format code 0xFFFE) carry the effective
// format code in the first two bytes of their sub format GUID.
func parseFmtChunk(ch *riff.Chunk) (Format, error) {
	var f Format

	if ch.Size < 16 {
		return f, fmt.Errorf("%w: fmt chunk declares %d bytes, need at least 16", ErrTruncated, ch.Size)
	}

	var fields struct {
		FormatTag      uint16
		NumChannels    uint16
		SampleRate     uint32
		AvgBytesPerSec uint32
		BlockAlign     uint16
		BitsPerSample  uint16
	}
	if err := readChunkField(ch, "fmt fields", &fields); err != nil {
		return f, err
	}

	tag := fields.FormatTag
	if tag == wavFormatExtensible {
		var extSize uint16
		if err := readChunkField(ch, "fmt extension size", &extSize); err != nil {
			return f, err
		}

		if extSize < 22 {
			return f, fmt.Errorf("%w: extensible fmt with %d byte extension", ErrUnsupportedFormat, extSize)
		}

		var ext struct {
			ValidBitsPerSample uint16
			ChannelMask        uint32
			SubFormat          [16]byte
		}
		if err := readChunkField(ch, "fmt extension", &ext); err != nil {
			return f, err
		}

		tag = binary.LittleEndian.Uint16(ext.SubFormat[:2])
	}

	if err := drainChunk(ch); err != nil {
		return f, err
	}

	f = Format{
		NumChannels: int(fields.NumChannels),
		SampleRate:  int(fields.SampleRate),
		BitDepth:    int(fields.BitsPerSample),
		Encoding:    Encoding(tag),
	}

	return f, f.Validate()
}

// readChunkField deserializes one little endian value from the chunk and
// reports a stream that ends inside it as truncation.
func readChunkField(ch *riff.Chunk, name string, dst any) error {
	if err := ch.ReadLE(dst); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: stream ends inside %s", ErrTruncated, name)
		}

		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	return nil
}

// drainChunk discards the unread remainder of a chunk payload.
func drainChunk(ch *riff.Chunk) error {
	remaining := int64(ch.Size - ch.Pos)
	if remaining < 1 {
		return nil
	}

	n, err := io.Copy(io.Discard, ch.R)
	if err != nil {
		return fmt.Errorf("failed to skip %q chunk: %w", ch.ID[:], err)
	}

	if n < remaining {
		return fmt.Errorf("%w: %q chunk declares %d bytes, stream ends %d bytes early",
			ErrTruncated, ch.ID[:], ch.Size, remaining-n)
	}

	return nil
}

// skipPadding consumes the alignment byte following chunks of odd size.
// A stream ending right before a final pad byte is accepted, common
// writers leave it out.
func skipPadding(r io.Reader, size int) error {
	if size%2 == 0 {
		return nil
	}

	var pad [1]byte
	if _, err := io.ReadFull(r, pad[:]); err != nil && err != io.EOF {
		return fmt.Errorf("failed to skip chunk padding: %w", err)
	}

	return nil
}
