package profile

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// DecodeChanges parses a raw JSON profile delta. Malformed input is rejected
// before any merge or rule runs; the caller receives a validation error and
// no partial output.
func DecodeChanges(data []byte) (model.ChangesInput, error) {
	var changes model.ChangesInput
	if len(bytes.TrimSpace(data)) == 0 {
		return changes, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&changes); err != nil {
		return model.ChangesInput{}, eris.Wrapf(model.ErrInvalidInput, "profile: decode changes: %v", err)
	}
	// Trailing garbage after the JSON document is also malformed input.
	if dec.More() {
		return model.ChangesInput{}, eris.Wrap(model.ErrInvalidInput, "profile: trailing data after changes document")
	}

	return changes, nil
}

// Sections lists which delta sections were provided, in fixed order.
func Sections(changes model.ChangesInput) []string {
	var sections []string
	if changes.Suitability != nil {
		sections = append(sections, "suitability")
	}
	if changes.ClientGoals != nil {
		sections = append(sections, "clientGoals")
	}
	if changes.ClientProfile != nil {
		sections = append(sections, "clientProfile")
	}
	return sections
}
