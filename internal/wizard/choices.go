package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/selection"
)

// doneValue is the dependency list entry that ends the loop.
const doneValue = "done"

// choice is one entry of the dependency list.
type choice struct {
	Value   string
	Label   string
	Blocked bool
}

// Option markers.
const (
	markSelected  = "[x]"
	markAvailable = "[ ]"
	markBlocked   = "[-]"
)

// dependencyChoices lists the options that exist on platform p, grouped by
// category, with a marker for their state. Options that can never be
// selected on p are left out.
func dependencyChoices(cat *catalog.Catalog, sel selection.Selection, p catalog.Platform) []choice {
	states := make(map[catalog.OptionID]selection.OptionState)
	for _, st := range selection.States(cat, sel, p) {
		states[st.ID] = st
	}

	out := []choice{{Value: doneValue, Label: fmt.Sprintf("Done (%d selected)", sel.Len())}}
	for _, c := range cat.Categories() {
		for _, o := range cat.Category(c.ID) {
			if !cat.AllowedOn(o.ID, p) {
				continue
			}
			st := states[o.ID]
			out = append(out, choice{
				Value:   string(o.ID),
				Label:   choiceLabel(c.Name, o, st),
				Blocked: !st.Selected && !st.Selectable,
			})
		}
	}
	return out
}

func choiceLabel(category string, o catalog.Option, st selection.OptionState) string {
	mark := markAvailable
	switch {
	case st.Selected:
		mark = markSelected
	case !st.Selectable:
		mark = markBlocked
	}

	label := fmt.Sprintf("%s %s · %s", mark, o.Name, category)
	if st.Reason != nil {
		label += " (" + st.Reason.Message + ")"
	}
	return label
}

// applyPick toggles id and describes the outcome. A blocked pick leaves the
// selection unchanged and returns the reason.
func applyPick(cat *catalog.Catalog, sel selection.Selection, p catalog.Platform, id catalog.OptionID) (selection.Selection, string) {
	if sel.Has(id) {
		next := selection.Toggle(cat, sel, p, id)
		var cascaded []string
		for _, other := range sel.IDs() {
			if other != id && !next.Has(other) {
				cascaded = append(cascaded, optionName(cat, other))
			}
		}
		note := "Removed " + optionName(cat, id)
		if len(cascaded) > 0 {
			note += " and dependent " + strings.Join(cascaded, ", ")
		}
		return next, note
	}

	if ok, reason := selection.IsSelectable(cat, sel, p, id); !ok {
		return sel, fmt.Sprintf("%s %s", optionName(cat, id), reason.Message)
	}
	return selection.Toggle(cat, sel, p, id), "Added " + optionName(cat, id)
}

// changePlatform moves sel from one platform to another and reports the
// options that had to be dropped.
func changePlatform(cat *catalog.Catalog, sel selection.Selection, to catalog.Platform) (selection.Selection, []catalog.OptionID) {
	next := selection.OnPlatformChange(cat, sel, to)
	var removed []catalog.OptionID
	for _, id := range sel.IDs() {
		if !next.Has(id) {
			removed = append(removed, id)
		}
	}
	return next, removed
}

func optionName(cat *catalog.Catalog, id catalog.OptionID) string {
	if o, err := cat.Option(id); err == nil {
		return o.Name
	}
	return string(id)
}

// fieldValidator checks a single request field by validating a request with
// only that field set and keeping the messages for it.
func fieldValidator(cat *catalog.Catalog, field string, set func(*project.Request, string)) func(string) error {
	return func(v string) error {
		var r project.Request
		set(&r, strings.TrimSpace(v))

		detail, ok := oerrors.AsDetail(r.Validate(cat))
		if !ok {
			return nil
		}
		for _, f := range detail.Fields {
			if f.Field == field {
				return errors.New(f.Message)
			}
		}
		return nil
	}
}

// optional wraps a validator so empty input is accepted.
func optional(validate func(string) error) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return validate(v)
	}
}
