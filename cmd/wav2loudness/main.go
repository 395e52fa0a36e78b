// This tool prints the loudness envelope of a wav file, one absolute
// normalized amplitude per sample.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rohta-github/cmcut-from-wav/wav"
)

const missingPathMessage = "You must pass the path of the wav file to decode"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("wav2loudness", flag.ContinueOnError)

	stats := flagSet.Bool("stats", false, "print a summary instead of the values")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	file, err := os.Open(flagSet.Arg(0))
	if err != nil {
		return err
	}
	defer file.Close()

	if *stats {
		f, data, err := wav.Parse(file)
		if err != nil {
			return err
		}

		loudness, err := wav.DecodeLoudness(f, data)
		if err != nil {
			return err
		}

		printStats(out, f, len(data), loudness)

		return nil
	}

	loudness, err := wav.Loudness(file)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, v := range loudness {
		if _, err := fmt.Fprintf(w, "%g\n", v); err != nil {
			return err
		}
	}

	return w.Flush()
}

func printStats(out io.Writer, f wav.Format, dataLen int, loudness []float32) {
	var (
		peak   float32
		sum    float64
		silent int
	)
	for _, v := range loudness {
		if v > peak {
			peak = v
		}

		if v == 0 {
			silent++
		}

		sum += float64(v)
	}

	var mean float64
	if len(loudness) > 0 {
		mean = sum / float64(len(loudness))
	}

	fmt.Fprintf(out, "format: %d ch %d Hz %d bit %s\n", f.NumChannels, f.SampleRate, f.BitDepth, f.Encoding)
	fmt.Fprintf(out, "duration: %s\n", f.Duration(dataLen))
	fmt.Fprintf(out, "samples: %d\n", len(loudness))
	fmt.Fprintf(out, "peak: %g\n", peak)
	fmt.Fprintf(out, "mean: %g\n", mean)
	fmt.Fprintf(out, "silent: %d\n", silent)
}
