package cmcut

import (
	"slices"
	"testing"
)

func TestNewDurationUnits(t *testing.T) {
	testCases := []struct {
		desc     string
		extra    []float64
		expected []float64
	}{
		{
			desc:     "base units only",
			extra:    nil,
			expected: []float64{15, 30},
		},
		{
			desc:     "longer unit appended",
			extra:    []float64{60},
			expected: []float64{15, 30, 60},
		},
		{
			desc:     "shorter unit sorts first",
			extra:    []float64{5},
			expected: []float64{5, 15, 30},
		},
		{
			desc:     "duplicates are dropped",
			extra:    []float64{15, 30, 15},
			expected: []float64{15, 30},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.desc, func(t *testing.T) {
			units, err := NewDurationUnits(testCase.extra...)
			if err != nil {
				t.Fatal(err)
			}

			if got := units.Seconds(); !slices.Equal(got, testCase.expected) {
				t.Fatalf("expected units %v but got %v", testCase.expected, got)
			}
		})
	}
}

func TestNewDurationUnits_Invalid(t *testing.T) {
	if _, err := NewDurationUnits(0); err == nil {
		t.Fatal("expected an error for a zero unit")
	}

	if _, err := NewDurationUnits(60, -15); err == nil {
		t.Fatal("expected an error for a negative unit")
	}
}

func TestAppendDuration(t *testing.T) {
	units, err := NewDurationUnits()
	if err != nil {
		t.Fatal(err)
	}

	extended, err := units.AppendDuration(60)
	if err != nil {
		t.Fatal(err)
	}

	if !extended.Contains(60) {
		t.Fatal("expected the extended set to contain 60")
	}

	// the receiver stays as it was.
	if units.Contains(60) {
		t.Fatal("expected the original set to stay untouched")
	}

	if _, err := units.AppendDuration(-1); err == nil {
		t.Fatal("expected an error for a negative unit")
	}
}

func TestDurationUnitsMax(t *testing.T) {
	units, err := NewDurationUnits(90)
	if err != nil {
		t.Fatal(err)
	}

	if units.Max() != 90 {
		t.Fatalf("expected max 90 but got %g", units.Max())
	}

	if (DurationUnits{}).Max() != 0 {
		t.Fatalf("expected max 0 for the zero value but got %g", DurationUnits{}.Max())
	}
}

func TestDurationUnitsContains(t *testing.T) {
	units, err := NewDurationUnits()
	if err != nil {
		t.Fatal(err)
	}

	if !units.Contains(15) || !units.Contains(30) {
		t.Fatal("expected the base units to be present")
	}

	if units.Contains(60) {
		t.Fatal("expected 60 to be absent")
	}
}
