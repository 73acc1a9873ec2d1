// Package selection implements dependency selection over the option catalog:
// which options can be selected, what toggling does, and how a selection
// reacts to a platform change. Every operation is a pure function returning
// a new Selection.
package selection

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/quartz-framework/start/internal/catalog"
)

// Selection is an immutable set of selected option IDs. The zero value is
// the empty selection.
type Selection struct {
	ids map[catalog.OptionID]struct{}
}

// New returns the empty selection.
func New() Selection {
	return Selection{}
}

// Of returns a selection holding exactly ids, without checking any
// constraint. Use Restore to build a selection that honours the catalog.
func Of(ids ...catalog.OptionID) Selection {
	s := Selection{ids: make(map[catalog.OptionID]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id catalog.OptionID) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected options.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected IDs in lexical order.
func (s Selection) IDs() []catalog.OptionID {
	out := make([]catalog.OptionID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the selected IDs as strings in lexical order.
func (s Selection) Strings() []string {
	ids := s.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Equal reports whether both selections hold the same IDs.
func (s Selection) Equal(o Selection) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

func (s Selection) with(id catalog.OptionID) Selection {
	next := Selection{ids: make(map[catalog.OptionID]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		next.ids[k] = struct{}{}
	}
	next.ids[id] = struct{}{}
	return next
}

func (s Selection) without(ids ...catalog.OptionID) Selection {
	next := Selection{ids: make(map[catalog.OptionID]struct{}, len(s.ids))}
	for k := range s.ids {
		if !slices.Contains(ids, k) {
			next.ids[k] = struct{}{}
		}
	}
	return next
}

// MarshalJSON encodes the selection as a sorted array of IDs.
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of IDs. Constraints are not checked.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var ids []catalog.OptionID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = Of(ids...)
	return nil
}
