// Package cmdutil provides shared command utilities for qstart subcommands.
// It centralizes the project request flag group and error reporting.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/config"
	"github.com/quartz-framework/start/internal/project"
)

// Flag names whose unset value falls back to the configured defaults.
const (
	FlagGroup         = "group"
	FlagPlatform      = "platform"
	FlagJava          = "java"
	FlagQuartzVersion = "quartz-version"
)

// RequestFlags holds the project request flags shared by generate and
// link encode.
type RequestFlags struct {
	Link         string
	GroupID      string
	ArtifactID   string
	Name         string
	MainClass    string
	JavaVersion  int
	Platform     string
	Compiler     string
	Version      string
	APIVersion   string
	Dependencies []string
}

// AddTo registers the request flags on the given cobra command.
func (f *RequestFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Link, "link", "",
		"Start from a share link or query string")
	cmd.Flags().StringVarP(&f.GroupID, FlagGroup, "g", "",
		"Group ID, e.g. com.example (default: from config)")
	cmd.Flags().StringVarP(&f.ArtifactID, "artifact", "a", "",
		"Artifact ID, e.g. my-plugin")
	cmd.Flags().StringVar(&f.Name, "name", "",
		"Project name (default: derived from artifact)")
	cmd.Flags().StringVar(&f.MainClass, "main-class", "",
		"Fully qualified main class (default: derived)")
	cmd.Flags().IntVar(&f.JavaVersion, FlagJava, 0,
		"Java version (default: from config)")
	cmd.Flags().StringVarP(&f.Platform, FlagPlatform, "p", "",
		"Target platform: SPIGOT, BUNGEE (default: from config)")
	cmd.Flags().StringVar(&f.Compiler, "compiler", "",
		"Build tool (default: MAVEN)")
	cmd.Flags().StringVar(&f.Version, FlagQuartzVersion, "",
		"Quartz framework version (default: from config)")
	cmd.Flags().StringVar(&f.APIVersion, "api-version", "",
		"Platform API version (default: newest supported)")
	cmd.Flags().StringSliceVarP(&f.Dependencies, "dependencies", "d", nil,
		"Comma separated option IDs, e.g. QUARTZ_DATA_JPA,H2_DATABASE_DRIVER")
}

// Request builds a project request. A --link supplies the base, explicit
// flags override it, and configured defaults fill fields still empty.
// cfg may be nil.
func (f *RequestFlags) Request(cmd *cobra.Command, cfg *config.Config) (project.Request, error) {
	var r project.Request
	if f.Link != "" {
		var err error
		r, err = project.ParseLink(f.Link)
		if err != nil {
			return project.Request{}, err
		}
	}

	changed := cmd.Flags().Changed
	set := func(name string, dst *string, value string) {
		if value == "" {
			return
		}
		if changed(name) || *dst == "" {
			*dst = value
		}
	}

	set(FlagGroup, &r.GroupID, f.GroupID)
	set("artifact", &r.ArtifactID, f.ArtifactID)
	set("name", &r.Name, f.Name)
	set("main-class", &r.MainClass, f.MainClass)
	set(FlagQuartzVersion, &r.Version, f.Version)
	set("api-version", &r.PlatformAPIVersion, f.APIVersion)

	p := string(r.Platform)
	set(FlagPlatform, &p, strings.ToUpper(f.Platform))
	r.Platform = catalog.Platform(p)

	c := string(r.Compiler)
	set("compiler", &c, strings.ToUpper(f.Compiler))
	r.Compiler = catalog.BuildTool(c)

	if f.JavaVersion != 0 && (changed(FlagJava) || r.JavaVersion == 0) {
		r.JavaVersion = catalog.JavaVersion(f.JavaVersion)
	}

	if changed("dependencies") || len(r.Dependencies) == 0 {
		if len(f.Dependencies) > 0 {
			r.Dependencies = make([]catalog.OptionID, len(f.Dependencies))
			for i, d := range f.Dependencies {
				r.Dependencies[i] = catalog.OptionID(strings.ToUpper(strings.TrimSpace(d)))
			}
		}
	}

	return ApplyDefaults(r, cfg), nil
}

// ApplyDefaults fills the group ID, platform, Quartz version and Java
// version of r from cfg where r leaves them empty. cfg may be nil.
func ApplyDefaults(r project.Request, cfg *config.Config) project.Request {
	if cfg == nil {
		return r
	}
	d := cfg.Defaults
	if r.GroupID == "" {
		r.GroupID = d.GroupID
	}
	if r.Platform == "" {
		r.Platform = catalog.Platform(strings.ToUpper(d.Platform))
	}
	if r.Version == "" {
		r.Version = d.QuartzVersion
	}
	if r.JavaVersion == 0 {
		r.JavaVersion = catalog.JavaVersion(d.JavaVersion)
	}
	return r
}
