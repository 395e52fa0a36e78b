package cmcut

import "testing"

func TestNewSilentSection(t *testing.T) {
	s, err := NewSilentSection(0, 10, 2)
	if err != nil {
		t.Fatal(err)
	}

	if s.StartSec != 0 {
		t.Errorf("expected start 0 but got %g", s.StartSec)
	}

	if s.EndSec != 5 {
		t.Errorf("expected end 5 but got %g", s.EndSec)
	}

	if s.CenterSec() != 2.5 {
		t.Errorf("expected center 2.5 but got %g", s.CenterSec())
	}

	if s.DurationSec() != 5 {
		t.Errorf("expected duration 5 but got %g", s.DurationSec())
	}
}

func TestNewSilentSection_Invalid(t *testing.T) {
	testCases := []struct {
		desc       string
		startFrame int
		endFrame   int
		rate       float64
	}{
		{desc: "negative start frame", startFrame: -1, endFrame: 10, rate: 2},
		{desc: "negative end frame", startFrame: 0, endFrame: -10, rate: 2},
		{desc: "start after end", startFrame: 11, endFrame: 10, rate: 2},
		{desc: "zero rate", startFrame: 0, endFrame: 10, rate: 0},
		{desc: "negative rate", startFrame: 0, endFrame: 10, rate: -2},
	}

	for _, testCase := range testCases {
		t.Run(testCase.desc, func(t *testing.T) {
			if _, err := NewSilentSection(testCase.startFrame, testCase.endFrame, testCase.rate); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSilentSections(t *testing.T) {
	const loud = 0.5

	// runs: [1, 4) of 3, [5, 7) of 2 and a trailing open one from 8 on.
	env := Envelope{
		Values: []float32{loud, 0, 0, 0, loud, 0, 0, loud, 0, 0, 0, 0},
		Rate:   1,
	}

	sections := env.SilentSections(2)
	expected := []SilentSection{{StartSec: 1, EndSec: 4}}
	assertSilentSectionsEqual(t, sections, expected)

	sections = env.SilentSections(1)
	expected = []SilentSection{{StartSec: 1, EndSec: 4}, {StartSec: 5, EndSec: 7}}
	assertSilentSectionsEqual(t, sections, expected)
}

// A run exactly at the threshold is not reported, it has to be longer.
func TestSilentSections_ThresholdIsExclusive(t *testing.T) {
	env := Envelope{
		Values: []float32{0.5, 0, 0, 0, 0.5},
		Rate:   1,
	}

	if got := env.SilentSections(3); len(got) != 0 {
		t.Fatalf("expected no sections for a run of exactly 3 but got %v", got)
	}

	if got := env.SilentSections(2); len(got) != 1 {
		t.Fatalf("expected one section for a run of 3 but got %v", got)
	}
}

// A silent run still open when the envelope ends has no closing edge and
// is never reported.
func TestSilentSections_OpenTrailingRun(t *testing.T) {
	env := Envelope{
		Values: []float32{0.5, 0.5, 0, 0, 0, 0, 0, 0},
		Rate:   1,
	}

	if got := env.SilentSections(1); len(got) != 0 {
		t.Fatalf("expected no sections but got %v", got)
	}
}

func TestSilentSections_Rate(t *testing.T) {
	env := Envelope{
		Values: []float32{0.5, 0, 0, 0, 0, 0.5},
		Rate:   2,
	}

	expected := []SilentSection{{StartSec: 0.5, EndSec: 2.5}}
	assertSilentSectionsEqual(t, env.SilentSections(1), expected)
}

func TestSilentSectionsBelow(t *testing.T) {
	env := Envelope{
		Values: []float32{0.5, 0.05, 0, 0.1, 0.5, 0.2},
		Rate:   1,
	}

	// values at or below the floor count as silent.
	expected := []SilentSection{{StartSec: 1, EndSec: 4}}
	assertSilentSectionsEqual(t, env.SilentSectionsBelow(0.1, 2), expected)

	if got := env.SilentSectionsBelow(0.01, 2); len(got) != 0 {
		t.Fatalf("expected no sections under a tighter floor but got %v", got)
	}
}

func TestIsCMDividerCandidate(t *testing.T) {
	units, err := NewDurationUnits()
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		desc      string
		section   SilentSection
		following []SilentSection
		expected  bool
	}{
		{
			desc:      "span inside the 15 second window",
			section:   SilentSection{StartSec: 100, EndSec: 100.5},
			following: []SilentSection{{StartSec: 115, EndSec: 115.5}},
			expected:  true,
		},
		{
			desc:      "span of exactly the unit is out",
			section:   SilentSection{StartSec: 100, EndSec: 100.5},
			following: []SilentSection{{StartSec: 114.5, EndSec: 115}},
			expected:  false,
		},
		{
			desc:      "span of unit plus margin is out",
			section:   SilentSection{StartSec: 100, EndSec: 100.5},
			following: []SilentSection{{StartSec: 115.5, EndSec: 116}},
			expected:  false,
		},
		{
			desc:      "span inside the 30 second window",
			section:   SilentSection{StartSec: 100, EndSec: 100.5},
			following: []SilentSection{{StartSec: 130, EndSec: 130.5}},
			expected:  true,
		},
		{
			desc:    "second follower closes the span",
			section: SilentSection{StartSec: 100, EndSec: 100.5},
			following: []SilentSection{
				{StartSec: 110, EndSec: 110.5},
				{StartSec: 115, EndSec: 115.5},
			},
			expected: true,
		},
		{
			desc:    "scan stops past the longest unit",
			section: SilentSection{StartSec: 100, EndSec: 100.5},
			following: []SilentSection{
				{StartSec: 131, EndSec: 131.5},
				{StartSec: 145.2, EndSec: 145.7},
			},
			expected: false,
		},
		{
			desc:      "no followers",
			section:   SilentSection{StartSec: 100, EndSec: 100.5},
			following: nil,
			expected:  false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.desc, func(t *testing.T) {
			got := testCase.section.IsCMDividerCandidate(testCase.following, units, 1)
			if got != testCase.expected {
				t.Fatalf("expected %t but got %t", testCase.expected, got)
			}
		})
	}
}

func assertSilentSectionsEqual(t *testing.T, got, expected []SilentSection) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("expected %d sections but got %d: %v", len(expected), len(got), got)
	}

	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected section %d to be %+v but got %+v", i, expected[i], got[i])
		}
	}
}
