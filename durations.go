package cmcut

import (
	"errors"
	"fmt"
	"slices"
)

var errNonPositiveDuration = errors.New("duration units must be positive")

// baseDurationUnits are the spot lengths every broadcaster uses.
var baseDurationUnits = []float64{15, 30}

// DurationUnits is the sorted set of CM spot lengths, in seconds, the
// analysis recognizes. The 15 and 30 second base units are always
// included.
type DurationUnits struct {
	seconds []float64
}

// NewDurationUnits returns the base units extended with the given extra
// spot lengths. Duplicates are dropped and the result is sorted.
func NewDurationUnits(extra ...float64) (DurationUnits, error) {
	seconds := append([]float64(nil), baseDurationUnits...)
	for _, d := range extra {
		if d <= 0 {
			return DurationUnits{}, fmt.Errorf("%w: %g", errNonPositiveDuration, d)
		}

		if !slices.Contains(seconds, d) {
			seconds = append(seconds, d)
		}
	}

	slices.Sort(seconds)

	return DurationUnits{seconds: seconds}, nil
}

// AppendDuration returns a new unit set including d. The receiver is not
// modified.
func (u DurationUnits) AppendDuration(d float64) (DurationUnits, error) {
	extra := make([]float64, 0, len(u.seconds)+1)
	extra = append(extra, u.seconds...)
	extra = append(extra, d)

	return NewDurationUnits(extra...)
}

// Seconds returns the units in ascending order.
func (u DurationUnits) Seconds() []float64 {
	return append([]float64(nil), u.seconds...)
}

// Contains reports whether d already is a known unit.
func (u DurationUnits) Contains(d float64) bool {
	return slices.Contains(u.seconds, d)
}

// Max returns the longest unit.
func (u DurationUnits) Max() float64 {
	if len(u.seconds) == 0 {
		return 0
	}

	return u.seconds[len(u.seconds)-1]
}
