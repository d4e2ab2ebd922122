package review

import "encoding/json"

// Patch is a partial update. A field is mutated only when it appeared in
// the request; a field sent as an explicit null clears the stored value;
// omitted fields are left untouched.
type Patch struct {
	Notes     *string
	NotesSet  bool
	Rating    *int
	RatingSet bool
}

// ParsePatch decodes the editable review fields while preserving the
// present-vs-null distinction encoding/json drops on plain structs.
func ParsePatch(body []byte) (Patch, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return Patch{}, err
	}

	var p Patch
	if raw, ok := fields["notes"]; ok {
		p.NotesSet = true
		if err := json.Unmarshal(raw, &p.Notes); err != nil {
			return Patch{}, err
		}
	}
	if raw, ok := fields["rating"]; ok {
		p.RatingSet = true
		if err := json.Unmarshal(raw, &p.Rating); err != nil {
			return Patch{}, err
		}
	}
	return p, nil
}

// Apply merges the patch into the stored field values.
func (p Patch) Apply(notes *string, rating *int) (*string, *int) {
	if p.NotesSet {
		notes = p.Notes
	}
	if p.RatingSet {
		rating = p.Rating
	}
	return notes, rating
}

func (p Patch) Empty() bool {
	return !p.NotesSet && !p.RatingSet
}
