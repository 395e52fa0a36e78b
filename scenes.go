package cmcut

import "errors"

// ErrNoSilentSections is returned when a recording contains no usable
// silence, nothing can anchor the scene boundaries then.
var ErrNoSilentSections = errors.New("no silent sections found")

// Scene is one program segment worth keeping, in seconds.
type Scene struct {
	StartSec float64
	EndSec   float64
}

// DurationSec returns the scene length.
func (s Scene) DurationSec() float64 {
	return s.EndSec - s.StartSec
}

// ProgramScenes is the ordered list of program segments left once the
// CM breaks are removed.
type ProgramScenes struct {
	Scenes []Scene
}

// TotalDuration returns the summed length of all scenes in seconds.
func (p ProgramScenes) TotalDuration() float64 {
	var total float64
	for _, s := range p.Scenes {
		total += s.DurationSec()
	}

	return total
}

// ConstructProgramScenes cuts a program along its known layout: the CM
// breaks described by structures are located in order, everything
// between them is kept. minSilentFrames is the minimum length of a
// silence, in envelope values, to count as a divider.
func ConstructProgramScenes(
	env Envelope,
	minSilentFrames int,
	units DurationUnits,
	structures []Structure,
	lastSceneDurationSec float64,
	hasMonolithicCM bool,
) (ProgramScenes, error) {
	silent := env.SilentSections(minSilentFrames)
	if len(silent) == 0 {
		return ProgramScenes{}, ErrNoSilentSections
	}

	cms := constructCMSections(silent, units, structures, hasMonolithicCM)
	scenes := generateScenes(silent[0].StartSec, silent[len(silent)-1].EndSec, cms, lastSceneDurationSec)

	return ProgramScenes{Scenes: scenes}, nil
}

// ConstructProgramScenesWithoutStructure cuts a program knowing nothing
// about its layout: every run of two or more consecutive CM divider
// candidates is treated as one break.
func ConstructProgramScenesWithoutStructure(
	env Envelope,
	minSilentFrames int,
	units DurationUnits,
) (ProgramScenes, error) {
	silent := env.SilentSections(minSilentFrames)
	if len(silent) == 0 {
		return ProgramScenes{}, ErrNoSilentSections
	}

	cms := searchCMSections(silent, units)
	scenes := generateScenes(silent[0].StartSec, silent[len(silent)-1].EndSec, cms, 0)

	return ProgramScenes{Scenes: scenes}, nil
}

// constructCMSections walks the silent sections and matches them against
// the expected break structures in order. A break is recognized when the
// span from the first open divider candidate to the current section
// exceeds the nominal structure duration by less than the margin.
func constructCMSections(
	sections []SilentSection,
	units DurationUnits,
	structures []Structure,
	hasMonolithicCM bool,
) []Scene {
	if len(structures) == 0 {
		return nil
	}

	candidateThreshold := 1
	if hasMonolithicCM {
		candidateThreshold = 0
	}

	var (
		candidates []SilentSection
		cms        []Scene
	)

	ref := 0
	target := structures[ref]
	// the margin stays pinned to the first structure, only the nominal
	// duration follows the target.
	marginSec := target.MarginSec()
	nominal := target.NominalDuration()

	for i, section := range sections {
		if section.IsCMDividerCandidate(sections[i+1:], units, marginSec) {
			candidates = append(candidates, section)
		}

		couldBeCM := len(candidates) > candidateThreshold
		if target.HasMonolithicCM() {
			couldBeCM = len(candidates) == 1
		}

		if !couldBeCM {
			continue
		}

		combined := section.EndSec - candidates[0].StartSec
		if combined <= nominal {
			continue
		}

		if combined < nominal+marginSec {
			start, end := target.ActualCMSection(candidates[0].EndSec, section.StartSec)
			cms = append(cms, Scene{StartSec: start, EndSec: end})

			ref++
			if ref >= len(structures) {
				break
			}

			target = structures[ref]
			nominal = target.NominalDuration()
		}

		candidates = candidates[:0]
	}

	return cms
}

// searchCMSections finds breaks without knowing the program: every
// maximal run of two or more divider candidates becomes one break
// spanning from the end of its first candidate to the start of its last.
func searchCMSections(sections []SilentSection, units DurationUnits) []Scene {
	const marginSec = 1

	var (
		candidates []SilentSection
		cms        []Scene
		continuity bool
	)
	for i, section := range sections {
		if section.IsCMDividerCandidate(sections[i+1:], units, marginSec) {
			candidates = append(candidates, section)
			continuity = true

			continue
		}

		if continuity && len(candidates) >= 2 {
			cms = append(cms, Scene{
				StartSec: candidates[0].EndSec,
				EndSec:   candidates[len(candidates)-1].StartSec,
			})
			candidates = candidates[:0]
			continuity = false
		}
	}

	if len(candidates) >= 2 {
		cms = append(cms, Scene{
			StartSec: candidates[0].EndSec,
			EndSec:   candidates[len(candidates)-1].StartSec,
		})
	}

	return cms
}

// generateScenes turns the located breaks into the kept scene list. The
// recording is assumed to open with a scene at zero unless silence
// starts within the first five seconds, and a known closing scene
// duration overrides the last silence as the end anchor.
func generateScenes(
	firstSilenceStartSec float64,
	lastSilenceEndSec float64,
	cms []Scene,
	lastSceneDurationSec float64,
) []Scene {
	const (
		startMarginSec = 5
		endMarginSec   = 1
	)

	scenes := make([]Scene, 0, len(cms)+1)

	startSec := 0.0
	if firstSilenceStartSec < startMarginSec {
		startSec = firstSilenceStartSec
	}

	for _, cm := range cms {
		scenes = append(scenes, Scene{StartSec: startSec, EndSec: cm.StartSec})
		startSec = cm.EndSec
	}

	if lastSceneDurationSec != 0 {
		scenes = append(scenes, Scene{StartSec: startSec, EndSec: startSec + lastSceneDurationSec + endMarginSec})
	} else {
		scenes = append(scenes, Scene{StartSec: startSec, EndSec: lastSilenceEndSec})
	}

	return scenes
}
