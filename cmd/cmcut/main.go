// This tool locates the CM breaks in a TV program recording from its wav
// soundtrack and prints the program sections worth keeping, either as
// plain numbers or as the ffmpeg commands cutting them out of the
// matching transport stream.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	cmcut "github.com/rohta-github/cmcut-from-wav"
)

const missingPathMessage = "You must pass the path of the wav file to analyze"

// defaultSearchThreshold is the minimum silence length, in envelope
// values, used when no property file narrows the analysis down. The
// value assumes the 8 kHz mono soundtrack the extraction pipeline
// produces, 5000 values are 0.625 seconds there.
const defaultSearchThreshold = 5000

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
	flagSet := flag.NewFlagSet("cmcut", flag.ContinueOnError)

	propertyPath := flagSet.String("property", "", "path of the program property JSON, omit to search breaks without one")
	threshold := flagSet.Int("threshold", 0, "minimum silence length in envelope values, 0 picks the mode default")
	commands := flagSet.Bool("commands", false, "print ffmpeg cut commands instead of plain sections")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	wavPath := flagSet.Arg(0)

	file, err := os.Open(wavPath)
	if err != nil {
		return err
	}
	defer file.Close()

	env, err := cmcut.EnvelopeFromWAV(file)
	if err != nil {
		return err
	}

	var scenes cmcut.ProgramScenes
	if *propertyPath != "" {
		prop, err := loadProperty(*propertyPath)
		if err != nil {
			return err
		}

		if *threshold > 0 {
			prop.DurationThreshold = *threshold
		}

		scenes, err = prop.Cut(env)
		if err != nil {
			return err
		}
	} else {
		minFrames := *threshold
		if minFrames <= 0 {
			minFrames = defaultSearchThreshold
		}

		units, err := cmcut.NewDurationUnits()
		if err != nil {
			return err
		}

		scenes, err = cmcut.ConstructProgramScenesWithoutStructure(env, minFrames, units)
		if err != nil {
			return err
		}
	}

	if *commands {
		printCutCommands(out, baseName(wavPath), scenes)
		return nil
	}

	printSections(out, scenes)

	return nil
}

func loadProperty(path string) (cmcut.Property, error) {
	file, err := os.Open(path)
	if err != nil {
		return cmcut.Property{}, err
	}
	defer file.Close()

	return cmcut.LoadProperty(file)
}

// printSections prints one scene per line as start, end and duration in
// seconds, with the summed duration as a trailing comment.
func printSections(out io.Writer, scenes cmcut.ProgramScenes) {
	for _, s := range scenes.Scenes {
		fmt.Fprintf(out, "%g\t%g\t%g\n", s.StartSec, s.EndSec, s.DurationSec())
	}

	fmt.Fprintf(out, "#%g\n", scenes.TotalDuration())
}

// printCutCommands prints the ffmpeg invocations cutting each scene out
// of the transport stream sharing the wav file's base name.
func printCutCommands(out io.Writer, base string, scenes cmcut.ProgramScenes) {
	for i, s := range scenes.Scenes {
		fmt.Fprintf(out,
			"docker run -v $(pwd):$(pwd) jrottenberg/ffmpeg -stats -i "+
				"$(pwd)/%s.ts -c copy -ss %g -t %g "+
				"-map 0:v:0? -map 0:a:0? -map 0:a:1? $(pwd)/tmp_%s.ts\n",
			base, s.StartSec, s.DurationSec(), base)
		fmt.Fprintf(out,
			"docker run -v $(pwd):$(pwd) jrottenberg/ffmpeg -stats -i "+
				"$(pwd)/tmp_%s.ts -c:v libx264 -map 0:v:0? -map 0:a:0? -map 0:a:1? -f mp4 "+
				"$(pwd)/%s_%d.m4v\n",
			base, base, i)
		fmt.Fprintf(out, "rm -f tmp_%s.ts\n", base)
	}

	fmt.Fprintf(out, "#%g\n", scenes.TotalDuration())
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
