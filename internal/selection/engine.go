package selection

import (
	"fmt"
	"strings"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
)

// IsSelectable reports whether id can be added to sel on platform p. When it
// cannot, the reason names the first failing check in this order: platform,
// all-of prerequisites, any-of prerequisites.
func IsSelectable(cat *catalog.Catalog, sel Selection, p catalog.Platform, id catalog.OptionID) (bool, Reason) {
	if !cat.Has(id) {
		return false, unknownReason(id)
	}

	if !cat.AllowedOn(id, p) {
		return false, platformReason(cat, id, p)
	}

	var missing []catalog.OptionID
	for _, req := range cat.Requires(id) {
		if !sel.Has(req) {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return false, missingReason(cat, missing)
	}

	if anyOf := cat.RequiresAny(id); len(anyOf) > 0 && !hasAny(sel, anyOf) {
		return false, missingAnyReason(cat, anyOf)
	}

	return true, Reason{}
}

// Toggle deselects id when it is selected, cascading the removal to every
// option whose prerequisites are no longer met. Otherwise it selects id if
// IsSelectable allows it and returns sel unchanged when it does not.
// Prerequisites are never added implicitly.
func Toggle(cat *catalog.Catalog, sel Selection, p catalog.Platform, id catalog.OptionID) Selection {
	if sel.Has(id) {
		return cascade(cat, sel.without(id))
	}

	if ok, _ := IsSelectable(cat, sel, p, id); !ok {
		return sel
	}
	return sel.with(id)
}

// OnPlatformChange removes every option not allowed on the new platform,
// then cascades the removal to options left without their prerequisites.
func OnPlatformChange(cat *catalog.Catalog, sel Selection, newPlatform catalog.Platform) Selection {
	var disallowed []catalog.OptionID
	for _, id := range sel.IDs() {
		if cat.Has(id) && !cat.AllowedOn(id, newPlatform) {
			disallowed = append(disallowed, id)
		}
	}
	if len(disallowed) == 0 {
		return sel
	}
	return cascade(cat, sel.without(disallowed...))
}

// cascade removes options with unmet prerequisites until nothing changes.
// Unknown IDs are left for Validate to report.
func cascade(cat *catalog.Catalog, sel Selection) Selection {
	for {
		var broken []catalog.OptionID
		for _, id := range sel.IDs() {
			if !cat.Has(id) {
				continue
			}
			if !prerequisitesMet(cat, sel, id) {
				broken = append(broken, id)
			}
		}
		if len(broken) == 0 {
			return sel
		}
		sel = sel.without(broken...)
	}
}

func prerequisitesMet(cat *catalog.Catalog, sel Selection, id catalog.OptionID) bool {
	for _, req := range cat.Requires(id) {
		if !sel.Has(req) {
			return false
		}
	}
	anyOf := cat.RequiresAny(id)
	return len(anyOf) == 0 || hasAny(sel, anyOf)
}

func hasAny(sel Selection, ids []catalog.OptionID) bool {
	for _, id := range ids {
		if sel.Has(id) {
			return true
		}
	}
	return false
}

// Rejection records an option that could not be selected.
type Rejection struct {
	ID     catalog.OptionID `json:"id"`
	Reason Reason           `json:"reason"`
}

// Restore builds a selection from an unordered list of IDs, such as a shared
// link or a submitted request. IDs are applied prerequisites first, so any
// order of a valid set restores the same selection. Options that still
// cannot be selected are returned as rejections, in application order.
func Restore(cat *catalog.Catalog, p catalog.Platform, ids []catalog.OptionID) (Selection, []Rejection) {
	sel := New()
	var rejected []Rejection

	for _, id := range cat.TopoOrder(ids) {
		ok, reason := IsSelectable(cat, sel, p, id)
		if !ok {
			rejected = append(rejected, Rejection{ID: id, Reason: reason})
			continue
		}
		sel = sel.with(id)
	}

	return sel, rejected
}

// ConstraintError lists the selected options that break a constraint.
type ConstraintError struct {
	Violations []Rejection
}

func (e *ConstraintError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.ID, v.Reason.Message)
	}
	return "selection violates constraints: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match ErrValidation.
func (e *ConstraintError) Unwrap() error {
	return oerrors.ErrValidation
}

// Validate checks that every selected option is known, allowed on p and has
// its prerequisites selected. It returns a *ConstraintError otherwise.
func Validate(cat *catalog.Catalog, sel Selection, p catalog.Platform) error {
	var violations []Rejection
	for _, id := range cat.SortIDs(sel.IDs()) {
		if ok, reason := IsSelectable(cat, sel, p, id); !ok {
			violations = append(violations, Rejection{ID: id, Reason: reason})
		}
	}
	if len(violations) > 0 {
		return &ConstraintError{Violations: violations}
	}
	return nil
}

// OptionState is the presentation state of one catalog option.
type OptionState struct {
	ID         catalog.OptionID `json:"id"`
	Selected   bool             `json:"selected"`
	Selectable bool             `json:"selectable"`
	Reason     *Reason          `json:"reason,omitempty"`
}

// States returns the state of every catalog option in catalog order. A
// selected option is always reported selectable, since toggling it is
// allowed.
func States(cat *catalog.Catalog, sel Selection, p catalog.Platform) []OptionState {
	opts := cat.Options()
	out := make([]OptionState, 0, len(opts))
	for _, o := range opts {
		st := OptionState{ID: o.ID, Selected: sel.Has(o.ID)}
		if st.Selected {
			st.Selectable = true
		} else {
			ok, reason := IsSelectable(cat, sel, p, o.ID)
			st.Selectable = ok
			if !ok {
				st.Reason = &reason
			}
		}
		out = append(out, st)
	}
	return out
}

// Label returns the output state marker for an option state.
func (s OptionState) Label() string {
	switch {
	case s.Selected:
		return "selected"
	case s.Selectable:
		return "available"
	case s.Reason != nil && s.Reason.Kind == ReasonPlatform:
		return "unavailable"
	default:
		return "blocked"
	}
}
