package selection

import (
	"fmt"
	"strings"

	"github.com/quartz-framework/start/internal/catalog"
)

// ReasonKind classifies why an option cannot be selected.
type ReasonKind string

const (
	// ReasonNone means the option is selectable.
	ReasonNone ReasonKind = ""

	// ReasonUnknown means the catalog does not define the option.
	ReasonUnknown ReasonKind = "unknown"

	// ReasonPlatform means the option is not allowed on the current platform.
	ReasonPlatform ReasonKind = "platform"

	// ReasonMissing means one or more required options are not selected.
	ReasonMissing ReasonKind = "missing"

	// ReasonMissingAny means none of the alternative prerequisites is selected.
	ReasonMissingAny ReasonKind = "missingAny"
)

// Reason explains a negative IsSelectable result.
type Reason struct {
	Kind ReasonKind `json:"kind"`

	// Missing holds the unselected prerequisites for ReasonMissing, or the
	// alternatives for ReasonMissingAny.
	Missing []catalog.OptionID `json:"missing,omitempty"`

	// Platforms holds the allowed platforms for ReasonPlatform.
	Platforms []catalog.Platform `json:"platforms,omitempty"`

	Message string `json:"message,omitempty"`
}

// OK reports whether the reason allows selection.
func (r Reason) OK() bool {
	return r.Kind == ReasonNone
}

func (r Reason) String() string {
	return r.Message
}

func unknownReason(id catalog.OptionID) Reason {
	return Reason{
		Kind:    ReasonUnknown,
		Message: fmt.Sprintf("%s is not a known option", id),
	}
}

func platformReason(cat *catalog.Catalog, id catalog.OptionID, p catalog.Platform) Reason {
	allowed := cat.AllowedPlatforms(id)
	names := make([]string, len(allowed))
	for i, ap := range allowed {
		names[i] = string(ap)
	}
	return Reason{
		Kind:      ReasonPlatform,
		Platforms: allowed,
		Message:   fmt.Sprintf("not available on %s (only %s)", p, strings.Join(names, ", ")),
	}
}

func missingReason(cat *catalog.Catalog, missing []catalog.OptionID) Reason {
	return Reason{
		Kind:    ReasonMissing,
		Missing: missing,
		Message: "requires " + joinNames(cat, missing, " and "),
	}
}

func missingAnyReason(cat *catalog.Catalog, alternatives []catalog.OptionID) Reason {
	return Reason{
		Kind:    ReasonMissingAny,
		Missing: alternatives,
		Message: "requires one of " + joinNames(cat, alternatives, ", "),
	}
}

func joinNames(cat *catalog.Catalog, ids []catalog.OptionID, sep string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if o, err := cat.Option(id); err == nil {
			names[i] = o.Name
		} else {
			names[i] = string(id)
		}
	}
	return strings.Join(names, sep)
}
