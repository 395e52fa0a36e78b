package cmcut

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Property describes what is known about a recorded program up front.
// Zero knowledge is fine, DefaultProperty covers the common case of a 30
// minute program with three plain breaks.
type Property struct {
	// StructureParts holds the ordered parts of each expected CM break.
	StructureParts [][]Part
	// EndSceneDurationSec is the length of the closing scene, zero when
	// unknown.
	EndSceneDurationSec float64
	// HasMonolithicCM marks programs whose breaks may consist of one
	// single long spot.
	HasMonolithicCM bool
	// MarginSec is the allowed timing drift of each break.
	MarginSec float64
	// DurationThreshold is the minimum silence length, in envelope
	// values, to count as a divider.
	DurationThreshold int
	// AdditionalDurationUnits extends the recognized spot lengths.
	AdditionalDurationUnits []float64
}

// DefaultProperty returns the parameters used for a program nobody
// described: three plain 60 second breaks and a 15 second closing scene.
func DefaultProperty() Property {
	return Property{
		StructureParts: [][]Part{
			{{Kind: PartCM, Seconds: 60}},
			{{Kind: PartCM, Seconds: 60}},
			{{Kind: PartCM, Seconds: 60}},
		},
		EndSceneDurationSec: 15,
		MarginSec:           3.5,
		DurationThreshold:   4000,
	}
}

// LoadProperty reads a program property JSON document and fills absent
// fields with their defaults. Part order inside a cm structure object is
// preserved: {"scene":30,"cm":60} and {"cm":60,"scene":30} describe
// different breaks.
func LoadProperty(r io.Reader) (Property, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Property{}, fmt.Errorf("failed to read property: %w", err)
	}

	var doc struct {
		CMStructures            []json.RawMessage `json:"cm_structures"`
		EndSceneDuration        *float64          `json:"end_scene_duration"`
		HasMonolithicCM         *bool             `json:"has_monolithic_cm"`
		MarginSec               *float64          `json:"margin_sec"`
		DurationThreshold       *int              `json:"duration_threshold"`
		AdditionalDurationUnits []float64         `json:"additional_duration_units"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Property{}, fmt.Errorf("failed to decode property: %w", err)
	}

	p := DefaultProperty()

	if doc.CMStructures != nil {
		p.StructureParts = make([][]Part, len(doc.CMStructures))
		for i, msg := range doc.CMStructures {
			parts, err := decodeStructureParts(msg)
			if err != nil {
				return Property{}, fmt.Errorf("cm_structures[%d]: %w", i, err)
			}

			p.StructureParts[i] = parts
		}
	}

	if doc.EndSceneDuration != nil {
		p.EndSceneDurationSec = *doc.EndSceneDuration
	}

	if doc.HasMonolithicCM != nil {
		p.HasMonolithicCM = *doc.HasMonolithicCM
	}

	if doc.MarginSec != nil {
		p.MarginSec = *doc.MarginSec
	}

	if doc.DurationThreshold != nil {
		p.DurationThreshold = *doc.DurationThreshold
	}

	if doc.AdditionalDurationUnits != nil {
		p.AdditionalDurationUnits = doc.AdditionalDurationUnits
	}

	return p, nil
}

// decodeStructureParts decodes one cm structure object keeping the key
// order, a plain map would lose it.
func decodeStructureParts(msg json.RawMessage) ([]Part, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode structure: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("cm structure must be an object, got %v", tok)
	}

	var parts []Part
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode structure key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("cm structure key must be a string, got %v", keyTok)
		}

		kind, err := partKindFromName(key)
		if err != nil {
			return nil, err
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode duration of %q: %w", key, err)
		}

		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("duration of %q must be a number, got %v", key, valTok)
		}

		seconds, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("duration of %q: %w", key, err)
		}

		parts = append(parts, Part{Kind: kind, Seconds: seconds})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode structure: %w", err)
	}

	return parts, nil
}

// Structures builds the validated break structures of the property.
func (p Property) Structures() ([]Structure, error) {
	structures := make([]Structure, 0, len(p.StructureParts))
	for i, parts := range p.StructureParts {
		s, err := NewStructure(parts, p.MarginSec)
		if err != nil {
			return nil, fmt.Errorf("cm structure %d: %w", i, err)
		}

		structures = append(structures, s)
	}

	return structures, nil
}

// Units builds the recognized spot lengths including the additions.
func (p Property) Units() (DurationUnits, error) {
	return NewDurationUnits(p.AdditionalDurationUnits...)
}

// Cut runs the property driven analysis over an envelope.
func (p Property) Cut(env Envelope) (ProgramScenes, error) {
	units, err := p.Units()
	if err != nil {
		return ProgramScenes{}, err
	}

	structures, err := p.Structures()
	if err != nil {
		return ProgramScenes{}, err
	}

	return ConstructProgramScenes(env, p.DurationThreshold, units, structures, p.EndSceneDurationSec, p.HasMonolithicCM)
}
