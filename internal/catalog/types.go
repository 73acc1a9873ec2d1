package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionID identifies a selectable dependency option, e.g. QUARTZ_DATA_JPA.
type OptionID string

// Category groups options for presentation.
type Category string

// Platform is a plugin runtime target.
type Platform string

// BuildTool is the build system of the generated project.
type BuildTool string

// JavaVersion is a Java language level.
type JavaVersion int

// UnmarshalJSON accepts both 17 and "17".
func (v *JavaVersion) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("java version %q is not a number", s)
	}
	*v = JavaVersion(n)
	return nil
}

// String returns the version number as text.
func (v JavaVersion) String() string {
	return strconv.Itoa(int(v))
}

// Well-known identifiers. The catalog document is the source of truth for
// their metadata.
const (
	PlatformSpigot Platform = "SPIGOT"
	PlatformBungee Platform = "BUNGEE"

	BuildToolMaven  BuildTool = "MAVEN"
	BuildToolGradle BuildTool = "GRADLE"
)

// Coordinates are the Maven coordinates an option contributes to the build
// descriptor. The version is managed by the starter parent.
type Coordinates struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Scope      string `json:"scope,omitempty"`
	Optional   bool   `json:"optional,omitempty"`
}

// Option is a single catalog entry.
type Option struct {
	ID          OptionID    `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    Category    `json:"category"`
	HelpURL     string      `json:"help,omitempty"`
	Maven       Coordinates `json:"maven"`

	// Requires lists options that must all be selected first.
	Requires []OptionID `json:"requires,omitempty"`

	// RequiresAny lists options of which at least one must be selected.
	RequiresAny []OptionID `json:"requiresAny,omitempty"`

	// AllowedPlatforms restricts the option to these platforms. Empty means
	// every platform.
	AllowedPlatforms []Platform `json:"platforms,omitempty"`
}

// CategoryInfo describes a category.
type CategoryInfo struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
}

// PlatformInfo describes a platform target.
type PlatformInfo struct {
	ID              Platform `json:"id"`
	Name            string   `json:"name"`
	Manifest        string   `json:"manifest"`
	StarterClass    string   `json:"starterClass"`
	StarterPackage  string   `json:"starterPackage"`
	StarterArtifact string   `json:"starterArtifact"`
	API             struct {
		GroupID    string `json:"groupId"`
		ArtifactID string `json:"artifactId"`
	} `json:"api"`
	APIVersions []string `json:"apiVersions"`
}

// DefaultAPIVersion returns the first, newest, supported API version.
func (p PlatformInfo) DefaultAPIVersion() string {
	if len(p.APIVersions) == 0 {
		return ""
	}
	return p.APIVersions[0]
}

// SupportsAPIVersion reports whether v is one of the platform's API versions.
func (p PlatformInfo) SupportsAPIVersion(v string) bool {
	for _, av := range p.APIVersions {
		if av == v {
			return true
		}
	}
	return false
}

// JavaVersionInfo describes a supported Java language level.
type JavaVersionInfo struct {
	Version JavaVersion `json:"version"`
	Default bool        `json:"default,omitempty"`
}

// BuildToolInfo describes a build tool. Unsupported tools are known but
// cannot be generated.
type BuildToolInfo struct {
	ID        BuildTool `json:"id"`
	Name      string    `json:"name"`
	Supported bool      `json:"supported"`
	Default   bool      `json:"default,omitempty"`
}

// Definition is the raw catalog content. It is decoded from the embedded CUE
// document, or built directly in tests, and checked by New.
type Definition struct {
	Categories     []CategoryInfo    `json:"categories"`
	Options        []Option          `json:"options"`
	Platforms      []PlatformInfo    `json:"platforms"`
	JavaVersions   []JavaVersionInfo `json:"javaVersions"`
	BuildTools     []BuildToolInfo   `json:"buildTools"`
	QuartzVersions []string          `json:"quartzVersions"`
}
