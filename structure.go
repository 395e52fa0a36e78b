package cmcut

import (
	"errors"
	"fmt"
)

var (
	errEmptyStructure     = errors.New("cm structure is empty")
	errStructureTooLong   = errors.New("cm structure holds more than two parts")
	errStructureWithoutCM = errors.New("cm structure must include a cm part")
	errNonPositivePart    = errors.New("part duration must be positive")
	errNonPositiveMargin  = errors.New("margin must be positive")
)

// PartKind distinguishes what a structure part stands for.
type PartKind int

const (
	// PartCM is a regular block of CM spots.
	PartCM PartKind = iota
	// PartScene is a program scene glued to the break, not separable
	// from it by silence alone.
	PartScene
	// PartMonolithicCM is a single spot long enough to fill a break on
	// its own.
	PartMonolithicCM
)

func (k PartKind) String() string {
	switch k {
	case PartCM:
		return "cm"
	case PartScene:
		return "scene"
	case PartMonolithicCM:
		return "monolithic_cm"
	default:
		return fmt.Sprintf("unknown part kind %d", int(k))
	}
}

// partKindFromName maps a property file key to its kind.
func partKindFromName(name string) (PartKind, error) {
	switch name {
	case "cm":
		return PartCM, nil
	case "scene":
		return PartScene, nil
	case "monolithic_cm":
		return PartMonolithicCM, nil
	default:
		return 0, fmt.Errorf("unknown cm structure key %q", name)
	}
}

// Part is one ordered element of a nominal CM structure.
type Part struct {
	Kind    PartKind
	Seconds float64
}

// Structure is the nominal layout of one CM break: one or two ordered
// parts, at least one of them CM, plus the timing margin the break may
// deviate from its nominal duration by.
type Structure struct {
	parts  []Part
	margin float64
}

// NewStructure validates and builds a structure. Part order matters: a
// scene first means the break opens with a program scene, a scene last
// means it closes with one.
func NewStructure(parts []Part, marginSec float64) (Structure, error) {
	if len(parts) == 0 {
		return Structure{}, errEmptyStructure
	}

	if len(parts) > 2 {
		return Structure{}, fmt.Errorf("%w: %d", errStructureTooLong, len(parts))
	}

	hasCM := false
	for _, p := range parts {
		if p.Kind != PartScene {
			hasCM = true
		}

		if p.Seconds <= 0 {
			return Structure{}, fmt.Errorf("%w: %s %g", errNonPositivePart, p.Kind, p.Seconds)
		}
	}

	if !hasCM {
		return Structure{}, errStructureWithoutCM
	}

	if marginSec <= 0 {
		return Structure{}, fmt.Errorf("%w: %g", errNonPositiveMargin, marginSec)
	}

	return Structure{parts: append([]Part(nil), parts...), margin: marginSec}, nil
}

// Parts returns the ordered parts.
func (s Structure) Parts() []Part {
	return append([]Part(nil), s.parts...)
}

// MarginSec returns the allowed deviation from the nominal duration.
func (s Structure) MarginSec() float64 {
	return s.margin
}

// NominalDuration returns the summed duration of all parts.
func (s Structure) NominalDuration() float64 {
	var total float64
	for _, p := range s.parts {
		total += p.Seconds
	}

	return total
}

// HasMonolithicCM reports whether the structure holds a monolithic CM
// part.
func (s Structure) HasMonolithicCM() bool {
	for _, p := range s.parts {
		if p.Kind == PartMonolithicCM {
			return true
		}
	}

	return false
}

// ActualCMSection trims the program scene off the nominal break. The
// break spans from the end of its opening divider to the start of its
// closing one, a leading scene pushes the cut start back and a trailing
// scene pulls the cut end forward.
func (s Structure) ActualCMSection(lastDividerEndSec, nextDividerStartSec float64) (startSec, endSec float64) {
	if len(s.parts) == 1 {
		return lastDividerEndSec, nextDividerStartSec
	}

	for i, p := range s.parts {
		if p.Kind != PartScene {
			continue
		}

		if i == 0 {
			return lastDividerEndSec + p.Seconds, nextDividerStartSec
		}

		return lastDividerEndSec, nextDividerStartSec - p.Seconds
	}

	return lastDividerEndSec, nextDividerStartSec
}
