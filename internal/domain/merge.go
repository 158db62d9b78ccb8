package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrImportValidation is returned when an import payload is malformed.
// Validation is all-or-nothing: a single bad element rejects the whole
// payload and nothing is merged.
var ErrImportValidation = errors.New("import validation failed")

// ParseImport decodes and validates an import payload: a JSON array of
// groups where every element has a string name and an array of string
// keywords.
func ParseImport(data []byte) (Collection, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array of groups: %v", ErrImportValidation, err)
	}

	imported := make(Collection, 0, len(raw))
	for i, el := range raw {
		nameRaw, ok := el["name"]
		if !ok {
			return nil, fmt.Errorf("%w: element %d missing name", ErrImportValidation, i)
		}
		var name string
		if err := json.Unmarshal(nameRaw, &name); err != nil {
			return nil, fmt.Errorf("%w: element %d name is not a string", ErrImportValidation, i)
		}
		kwRaw, ok := el["keywords"]
		if !ok {
			return nil, fmt.Errorf("%w: element %d missing keywords", ErrImportValidation, i)
		}
		var keywords []string
		if err := json.Unmarshal(kwRaw, &keywords); err != nil {
			return nil, fmt.Errorf("%w: element %d keywords is not a string array", ErrImportValidation, i)
		}
		if keywords == nil {
			keywords = []string{}
		}
		imported = append(imported, Group{Name: name, Keywords: keywords})
	}
	return imported, nil
}

// Merge folds imported groups into the collection and returns the result.
//
// For each imported group an existing group is matched by exact name.
// On a match, imported keywords not already present verbatim (string
// equality, case-sensitive) are appended in their imported order: a
// set-union on keywords, not a replace. Unmatched groups are appended
// wholesale. Merging twice with the same payload is a no-op the second
// time.
func (c Collection) Merge(imported Collection) Collection {
	out := c.Clone()
	for _, ig := range imported {
		idx := -1
		for i, g := range out {
			if g.Name == ig.Name {
				idx = i
				break
			}
		}
		if idx == -1 {
			kws := make([]string, len(ig.Keywords))
			copy(kws, ig.Keywords)
			out = append(out, Group{Name: ig.Name, Keywords: kws})
			continue
		}
		existing := make(map[string]struct{}, len(out[idx].Keywords))
		for _, kw := range out[idx].Keywords {
			existing[kw] = struct{}{}
		}
		for _, kw := range ig.Keywords {
			if _, dup := existing[kw]; dup {
				continue
			}
			out[idx].Keywords = append(out[idx].Keywords, kw)
			existing[kw] = struct{}{}
		}
	}
	return out
}

// Export serializes the collection as a pretty-printed JSON array of
// groups, the same shape ParseImport accepts.
func (c Collection) Export() ([]byte, error) {
	cl := c.Clone()
	cl.Normalize()
	return json.MarshalIndent(cl, "", "  ")
}

// ExportFileName is the suggested filename for exported collections.
const ExportFileName = "WebsiteOrganiser_groups.json"
