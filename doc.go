// Package cmcut locates CM breaks in TV program recordings by the
// silences around them and derives the list of program scenes to keep.
//
// The analysis input is a loudness envelope, one absolute amplitude per
// decoded sample (see the wav subpackage). Runs of complete silence
// longer than a threshold partition the recording, and spans between
// silences matching the usual 15/30 second spot lengths mark the breaks.
// Two strategies exist: ConstructProgramScenes matches breaks against a
// per program Property, ConstructProgramScenesWithoutStructure scans for
// runs of consecutive spot shaped gaps with no prior knowledge.
package cmcut
