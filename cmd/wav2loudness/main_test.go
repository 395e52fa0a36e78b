package main

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-audio/audio"

	"github.com/rohta-github/cmcut-from-wav/wav"
)

func TestRun_Values(t *testing.T) {
	path := writeTestWAV(t, []float32{1000.0 / 32767.0, -1000.0 / 32767.0, 0, 1})

	var out bytes.Buffer
	if err := run([]string{path}, &out); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	expected := []float64{1000.0 / 32767.0, 1000.0 / 32767.0, 0, 1}

	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines but got %d:\n%s", len(expected), len(lines), out.String())
	}

	for i, line := range lines {
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			t.Fatalf("bad value %q: %v", line, err)
		}

		if math.Abs(v-expected[i]) > 1e-6 {
			t.Errorf("expected value %d to be %g but got %g", i, expected[i], v)
		}
	}
}

func TestRun_Stats(t *testing.T) {
	path := writeTestWAV(t, []float32{1000.0 / 32767.0, -1000.0 / 32767.0, 0, 1})

	var out bytes.Buffer
	if err := run([]string{"-stats", path}, &out); err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{
		"format: 1 ch 8000 Hz 16 bit PCM",
		"duration: 500µs",
		"samples: 4",
		"peak: 1",
		"silent: 1",
	} {
		if !strings.Contains(out.String(), line+"\n") {
			t.Errorf("expected the stats to contain %q:\n%s", line, out.String())
		}
	}

	mean, found := parseMean(t, out.String())
	if !found {
		t.Fatalf("expected a mean line:\n%s", out.String())
	}

	expectedMean := (2*1000.0/32767.0 + 1) / 4
	if math.Abs(mean-expectedMean) > 1e-6 {
		t.Errorf("expected a mean of %g but got %g", expectedMean, mean)
	}
}

func TestRun_MissingPath(t *testing.T) {
	if err := run(nil, io.Discard); !errors.Is(err, errMissingPath) {
		t.Fatalf("expected errMissingPath but got %v", err)
	}
}

func TestRun_NotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	if err := os.WriteFile(path, []byte("plain text file, not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{path}, io.Discard); !errors.Is(err, wav.ErrNotRIFF) {
		t.Fatalf("expected ErrNotRIFF but got %v", err)
	}
}

func writeTestWAV(t *testing.T, values []float32) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")

	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	f := wav.Format{NumChannels: 1, SampleRate: 8000, BitDepth: 16, Encoding: wav.EncodingPCM}
	enc := wav.NewEncoder(out, f)

	buf := &audio.Float32Buffer{Format: f.Audio(), Data: values, SourceBitDepth: 16}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func parseMean(t *testing.T, output string) (float64, bool) {
	t.Helper()

	for _, line := range strings.Split(output, "\n") {
		rest, ok := strings.CutPrefix(line, "mean: ")
		if !ok {
			continue
		}

		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			t.Fatalf("bad mean line %q: %v", line, err)
		}

		return v, true
	}

	return 0, false
}
