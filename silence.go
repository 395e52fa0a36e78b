package cmcut

import (
	"errors"
	"fmt"
)

var (
	errNegativeFrameIndex = errors.New("frame index must be non-negative")
	errFrameOrder         = errors.New("start frame must not be after end frame")
)

// SilentSection is one run of silence inside a program recording,
// expressed in seconds from the start of the stream.
type SilentSection struct {
	StartSec float64
	EndSec   float64
}

// NewSilentSection converts a silent frame run into a section. The rate
// is the number of envelope values per second.
func NewSilentSection(startFrame, endFrame int, rate float64) (SilentSection, error) {
	if startFrame < 0 {
		return SilentSection{}, fmt.Errorf("%w: start %d", errNegativeFrameIndex, startFrame)
	}

	if endFrame < 0 {
		return SilentSection{}, fmt.Errorf("%w: end %d", errNegativeFrameIndex, endFrame)
	}

	if startFrame > endFrame {
		return SilentSection{}, fmt.Errorf("%w: %d > %d", errFrameOrder, startFrame, endFrame)
	}

	if rate <= 0 {
		return SilentSection{}, fmt.Errorf("%w: %g", errNonPositiveRate, rate)
	}

	return SilentSection{
		StartSec: float64(startFrame) / rate,
		EndSec:   float64(endFrame) / rate,
	}, nil
}

// CenterSec returns the midpoint of the section.
func (s SilentSection) CenterSec() float64 {
	return (s.StartSec + s.EndSec) / 2
}

// DurationSec returns the length of the section.
func (s SilentSection) DurationSec() float64 {
	return s.EndSec - s.StartSec
}

// IsCMDividerCandidate reports whether the section could open a CM spot:
// some following silent section has to close a span matching one of the
// unit durations within the margin. Sections further out than the
// longest unit plus margin are not considered.
func (s SilentSection) IsCMDividerCandidate(following []SilentSection, units DurationUnits, marginSec float64) bool {
	for _, next := range following {
		durationSec := next.EndSec - s.StartSec
		if units.Max()+marginSec <= durationSec {
			break
		}

		for _, unit := range units.seconds {
			if unit < durationSec && durationSec < unit+marginSec {
				return true
			}
		}
	}

	return false
}

// SilentSections returns the runs of complete silence longer than
// minFrames values, in stream order. A run still open when the envelope
// ends is not reported, its closing edge is unknown.
func (e Envelope) SilentSections(minFrames int) []SilentSection {
	return e.SilentSectionsBelow(0, minFrames)
}

// SilentSectionsBelow is SilentSections with an amplitude floor: values
// less than or equal to threshold count as silent. Integer PCM sources
// decode true silence to exact zeros, float sourced material rarely
// does.
func (e Envelope) SilentSectionsBelow(threshold float32, minFrames int) []SilentSection {
	var sections []SilentSection

	var (
		silentRun  int
		startFrame int
		prevSilent bool
	)
	for i, v := range e.Values {
		silent := v <= threshold
		if silent {
			if !prevSilent {
				startFrame = i
			}

			silentRun++
		} else {
			if silentRun > 0 && silentRun > minFrames {
				sections = append(sections, SilentSection{
					StartSec: float64(startFrame) / e.Rate,
					EndSec:   float64(i) / e.Rate,
				})
			}

			silentRun = 0
		}

		prevSilent = silent
	}

	return sections
}
