// Package wav parses RIFF/WAVE containers and decodes their payloads
// into normalized float32 samples.
//
// The package supports 8/16/24/32-bit integer PCM and 32-bit IEEE float
// data, including extensible fmt headers resolving to either. Parse
// consumes a stream once and returns the declared format together with
// the raw data chunk bytes, decoding happens in a second pass over those
// bytes. Loudness combines both steps and maps every sample to its
// absolute amplitude, the envelope the silence analysis operates on.
//
// Failures are reported through sentinel errors (ErrNotRIFF,
// ErrMissingChunk, ErrTruncated, ErrUnsupportedFormat, ErrMisalignedData,
// ErrUnsupportedWidth) wrapped with chunk context, matchable with
// errors.Is.
package wav
