// Package project models a generation request: the submitted fields, their
// defaults and validation, and the shareable link that reproduces them.
package project

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quartz-framework/start/internal/catalog"
	oerrors "github.com/quartz-framework/start/internal/errors"
	"github.com/quartz-framework/start/internal/selection"
)

var (
	artifactIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	versionRegex    = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.+-]*$`)
)

// SnapshotSuffix marks unreleased framework versions.
const SnapshotSuffix = "-SNAPSHOT"

// Request is a project generation submission.
type Request struct {
	GroupID            string              `json:"groupId"`
	ArtifactID         string              `json:"artifactId"`
	Name               string              `json:"name,omitempty"`
	MainClass          string              `json:"mainClass,omitempty"`
	JavaVersion        catalog.JavaVersion `json:"javaVersion,omitempty"`
	Platform           catalog.Platform    `json:"platform"`
	Compiler           catalog.BuildTool   `json:"compiler,omitempty"`
	Version            string              `json:"version"`
	PlatformAPIVersion string              `json:"platformApiVersion,omitempty"`
	Dependencies       []catalog.OptionID  `json:"dependencies,omitempty"`
}

// WithDefaults returns a copy of r with derived fields filled in. Fields the
// caller set are kept. Required fields are never invented.
func (r Request) WithDefaults(cat *catalog.Catalog) Request {
	r.GroupID = strings.TrimSpace(r.GroupID)
	r.ArtifactID = strings.TrimSpace(r.ArtifactID)
	r.Name = strings.TrimSpace(r.Name)
	r.MainClass = strings.TrimSpace(r.MainClass)
	r.Version = strings.TrimSpace(r.Version)
	r.Platform = catalog.Platform(strings.ToUpper(strings.TrimSpace(string(r.Platform))))
	r.Compiler = catalog.BuildTool(strings.ToUpper(strings.TrimSpace(string(r.Compiler))))

	if r.Name == "" {
		r.Name = DefaultName(r.ArtifactID)
	}
	if r.MainClass == "" && r.GroupID != "" && r.ArtifactID != "" {
		r.MainClass = DefaultMainClass(r.GroupID, r.ArtifactID, r.Name)
	}
	if r.JavaVersion == 0 {
		r.JavaVersion = cat.DefaultJavaVersion()
	}
	if r.Compiler == "" {
		r.Compiler = cat.DefaultBuildTool()
	}
	if r.PlatformAPIVersion == "" {
		if p, err := cat.Platform(r.Platform); err == nil {
			r.PlatformAPIVersion = p.DefaultAPIVersion()
		}
	}
	r.Dependencies = dedupe(r.Dependencies)
	return r
}

// IsSnapshot reports whether the requested framework version is unreleased.
func (r Request) IsSnapshot() bool {
	return strings.HasSuffix(r.Version, SnapshotSuffix)
}

// Validate checks every field of r against the catalog and reports all
// problems together as an ErrValidation detail error. It does not apply
// defaults.
func (r Request) Validate(cat *catalog.Catalog) error {
	_, err := r.validate(cat)
	return err
}

func (r Request) validate(cat *catalog.Catalog) (selection.Selection, error) {
	var fields []oerrors.FieldError
	add := func(field, format string, args ...any) {
		fields = append(fields, oerrors.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	required := []struct {
		field string
		value string
	}{
		{"groupId", r.GroupID},
		{"artifactId", r.ArtifactID},
		{"platform", string(r.Platform)},
		{"version", r.Version},
	}
	for _, f := range required {
		if f.value == "" {
			add(f.field, "is required")
		}
	}

	if r.GroupID != "" && !isQualifiedName(r.GroupID, 1) {
		add("groupId", "%q is not a valid Java package name", r.GroupID)
	}
	if r.ArtifactID != "" && !artifactIDRegex.MatchString(r.ArtifactID) {
		add("artifactId", "%q must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", r.ArtifactID)
	}
	if r.MainClass != "" && !isQualifiedName(r.MainClass, 2) {
		add("mainClass", "%q is not a fully qualified Java class name", r.MainClass)
	}
	if r.Version != "" && !versionRegex.MatchString(r.Version) {
		add("version", "%q is not a valid version", r.Version)
	}
	if r.JavaVersion != 0 && !cat.SupportsJava(r.JavaVersion) {
		add("javaVersion", "%d is not supported (supported: %s)", r.JavaVersion, javaList(cat))
	}

	if r.Compiler != "" {
		tool, err := cat.BuildTool(r.Compiler)
		switch {
		case err != nil:
			add("compiler", "unknown build tool %q", r.Compiler)
		case !tool.Supported:
			add("compiler", "%s is not supported yet", tool.Name)
		}
	}

	var platformOK bool
	if r.Platform != "" {
		p, err := cat.Platform(r.Platform)
		if err != nil {
			add("platform", "unknown platform %q", r.Platform)
		} else {
			platformOK = true
			if r.PlatformAPIVersion != "" && !p.SupportsAPIVersion(r.PlatformAPIVersion) {
				add("platformApiVersion", "%q is not supported on %s", r.PlatformAPIVersion, r.Platform)
			}
		}
	}

	var sel selection.Selection
	if platformOK {
		var rejected []selection.Rejection
		sel, rejected = selection.Restore(cat, r.Platform, r.Dependencies)
		for _, rej := range rejected {
			add("dependencies", "%s: %s", rej.ID, rej.Reason.Message)
		}
	} else {
		for _, id := range r.Dependencies {
			if !cat.Has(id) {
				add("dependencies", "%s: is not a known option", id)
			}
		}
	}

	if len(fields) > 0 {
		return selection.Selection{}, oerrors.NewFieldsError("invalid project request", fields)
	}
	return sel, nil
}

func javaList(cat *catalog.Catalog) string {
	vs := cat.JavaVersions()
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Version.String()
	}
	return strings.Join(parts, ", ")
}

func dedupe(ids []catalog.OptionID) []catalog.OptionID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[catalog.OptionID]bool, len(ids))
	out := make([]catalog.OptionID, 0, len(ids))
	for _, id := range ids {
		id = catalog.OptionID(strings.ToUpper(strings.TrimSpace(string(id))))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
