// This tool generates a synthetic TV program soundtrack: sine scenes
// separated by CM breaks whose spots are framed by short silences, the
// shape the cmcut analysis looks for.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/rohta-github/cmcut-from-wav/wav"
)

// The generated format matches what the extraction pipeline feeds the
// analysis: 8 kHz mono 16 bit PCM.
const sampleRate = 8000

const (
	sceneFrequency = 440
	spotFrequency  = 880
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-program", flag.ContinueOnError)

	output := flagSet.String("output", "program.wav", "filename to write to")
	sceneLength := flagSet.Float64("scene-length", 120, "program scene length in seconds")
	breaks := flagSet.Int("breaks", 3, "number of CM breaks")
	spots := flagSet.Int("spots", 4, "number of spots per break")
	spotLength := flagSet.Float64("spot-length", 15, "spot length in seconds, silence included")
	silence := flagSet.Float64("silence", 0.8, "silence length opening each spot in seconds")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *silence >= *spotLength {
		return fmt.Errorf("silence length %g must be shorter than the spot length %g", *silence, *spotLength)
	}

	log.Printf("generating %d scenes of %g sec separated by %d breaks of %d x %g sec spots",
		*breaks+1, *sceneLength, *breaks, *spots, *spotLength)

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}
	defer file.Close()

	wavOut := wav.NewEncoder(file, wav.Format{
		NumChannels: 1,
		SampleRate:  sampleRate,
		BitDepth:    16,
		Encoding:    wav.EncodingPCM,
	})

	for i := 0; i < *breaks+1; i++ {
		if err := writeTone(wavOut, sceneFrequency, *sceneLength); err != nil {
			return err
		}

		if i == *breaks {
			break
		}

		// every spot opens with silence, one more silence closes the
		// break before the next scene starts.
		for j := 0; j < *spots; j++ {
			if err := writeSilence(wavOut, *silence); err != nil {
				return err
			}

			if err := writeTone(wavOut, spotFrequency, *spotLength-*silence); err != nil {
				return err
			}
		}

		if err := writeSilence(wavOut, *silence); err != nil {
			return err
		}
	}

	return wavOut.Close()
}

func writeTone(wavOut *wav.Encoder, frequency, length float64) error {
	numSamples := int(sampleRate * length)

	for i := 0; i < numSamples; i++ {
		fv := math.Sin(float64(i) / sampleRate * frequency * 2 * math.Pi)

		if err := wavOut.WriteFrame(float32(fv)); err != nil {
			return err
		}
	}

	return nil
}

func writeSilence(wavOut *wav.Encoder, length float64) error {
	numSamples := int(sampleRate * length)

	for i := 0; i < numSamples; i++ {
		if err := wavOut.WriteFrame(0); err != nil {
			return err
		}
	}

	return nil
}
