// Package catalog holds the closed registry of dependency options, platforms,
// Java versions and build tools offered to generated projects.
package catalog

import (
	"embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	oerrors "github.com/quartz-framework/start/internal/errors"
)

//go:embed catalog.cue schema.cue
var catalogFS embed.FS

var (
	// ErrInvalidCatalog indicates the catalog definition broke a structural
	// invariant: duplicate IDs, dangling references or a dependency cycle.
	ErrInvalidCatalog = fmt.Errorf("invalid catalog: %w", oerrors.ErrValidation)

	// ErrUnknownOption is returned for option IDs the catalog does not define.
	ErrUnknownOption = fmt.Errorf("unknown option: %w", oerrors.ErrNotFound)

	// ErrUnknownPlatform is returned for platforms the catalog does not define.
	ErrUnknownPlatform = fmt.Errorf("unknown platform: %w", oerrors.ErrNotFound)

	// ErrUnknownBuildTool is returned for build tools the catalog does not define.
	ErrUnknownBuildTool = fmt.Errorf("unknown build tool: %w", oerrors.ErrNotFound)
)

// Catalog is an immutable, validated option registry. It is safe for
// concurrent use.
type Catalog struct {
	def        Definition
	options    map[OptionID]Option
	index      map[OptionID]int
	depth      map[OptionID]int
	dependents map[OptionID][]OptionID
	platforms  map[Platform]PlatformInfo
	buildTools map[BuildTool]BuildToolInfo
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog, loading it on first use. It panics if
// the embedded document is invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(fmt.Sprintf("loading embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses the embedded catalog document.
func Load() (*Catalog, error) {
	data, err := catalogFS.ReadFile("catalog.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}
	return Parse(data)
}

// Parse compiles a CUE catalog document, validates it against the embedded
// schema and builds a Catalog from it.
func Parse(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schemaData, err := catalogFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	data := ctx.CompileBytes(src, cue.Filename("catalog.cue"))
	if data.Err() != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, cueDetails(data.Err()))
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, cueDetails(err))
	}

	var def Definition
	if err := unified.Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	return New(def)
}

func cueDetails(err error) string {
	return strings.TrimSpace(cueerrors.Details(err, nil))
}

// New checks the structural invariants of def and returns a Catalog:
// unique IDs, known categories and platforms, references to defined options
// only, and an acyclic prerequisite graph.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		def:        def,
		options:    make(map[OptionID]Option, len(def.Options)),
		index:      make(map[OptionID]int, len(def.Options)),
		depth:      make(map[OptionID]int, len(def.Options)),
		dependents: make(map[OptionID][]OptionID),
		platforms:  make(map[Platform]PlatformInfo, len(def.Platforms)),
		buildTools: make(map[BuildTool]BuildToolInfo, len(def.BuildTools)),
	}

	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(def.Platforms) == 0 {
		addf("at least one platform is required")
	}
	for _, p := range def.Platforms {
		if _, dup := c.platforms[p.ID]; dup {
			addf("duplicate platform %s", p.ID)
		}
		if len(p.APIVersions) == 0 {
			addf("platform %s: no API versions", p.ID)
		}
		c.platforms[p.ID] = p
	}

	for _, b := range def.BuildTools {
		if _, dup := c.buildTools[b.ID]; dup {
			addf("duplicate build tool %s", b.ID)
		}
		c.buildTools[b.ID] = b
	}

	categories := make(map[Category]bool, len(def.Categories))
	for _, cat := range def.Categories {
		if categories[cat.ID] {
			addf("duplicate category %s", cat.ID)
		}
		categories[cat.ID] = true
	}

	for i, o := range def.Options {
		if _, dup := c.options[o.ID]; dup {
			addf("duplicate option %s", o.ID)
			continue
		}
		if !categories[o.Category] {
			addf("option %s: unknown category %s", o.ID, o.Category)
		}
		c.options[o.ID] = o
		c.index[o.ID] = i
	}

	for _, o := range def.Options {
		for _, ref := range prerequisites(o) {
			if ref == o.ID {
				addf("option %s: requires itself", o.ID)
				continue
			}
			if _, ok := c.options[ref]; !ok {
				addf("option %s: references unknown option %s", o.ID, ref)
				continue
			}
			if !slices.Contains(c.dependents[ref], o.ID) {
				c.dependents[ref] = append(c.dependents[ref], o.ID)
			}
		}
		for _, p := range o.AllowedPlatforms {
			if _, ok := c.platforms[p]; !ok {
				addf("option %s: unknown platform %s", o.ID, p)
			}
		}
	}

	if len(problems) == 0 {
		if cycle := c.findCycle(); cycle != nil {
			addf("dependency cycle %s", joinIDs(cycle, " -> "))
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}

	for _, o := range def.Options {
		c.computeDepth(o.ID)
	}
	for id := range c.dependents {
		c.sortByCatalogOrder(c.dependents[id])
	}

	return c, nil
}

// prerequisites returns the union of all-of and any-of references.
func prerequisites(o Option) []OptionID {
	refs := make([]OptionID, 0, len(o.Requires)+len(o.RequiresAny))
	refs = append(refs, o.Requires...)
	refs = append(refs, o.RequiresAny...)
	return refs
}

// findCycle returns a cycle in the prerequisite graph, or nil.
func (c *Catalog) findCycle() []OptionID {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[OptionID]int, len(c.options))
	var stack []OptionID

	var visit func(id OptionID) []OptionID
	visit = func(id OptionID) []OptionID {
		state[id] = visiting
		stack = append(stack, id)
		for _, ref := range prerequisites(c.options[id]) {
			switch state[ref] {
			case visiting:
				start := slices.Index(stack, ref)
				cycle := slices.Clone(stack[start:])
				return append(cycle, ref)
			case unvisited:
				if cycle := visit(ref); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, o := range c.def.Options {
		if state[o.ID] == unvisited {
			if cycle := visit(o.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// computeDepth memoises the longest prerequisite chain below id.
func (c *Catalog) computeDepth(id OptionID) int {
	if d, ok := c.depth[id]; ok {
		return d
	}
	d := 0
	for _, ref := range prerequisites(c.options[id]) {
		if rd := c.computeDepth(ref) + 1; rd > d {
			d = rd
		}
	}
	c.depth[id] = d
	return d
}

func (c *Catalog) sortByCatalogOrder(ids []OptionID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return c.index[ids[i]] < c.index[ids[j]]
	})
}

// Has reports whether id is defined.
func (c *Catalog) Has(id OptionID) bool {
	_, ok := c.options[id]
	return ok
}

// Option returns the option with the given ID.
func (c *Catalog) Option(id OptionID) (Option, error) {
	o, ok := c.options[id]
	if !ok {
		return Option{}, fmt.Errorf("%w: %s", ErrUnknownOption, id)
	}
	return o, nil
}

// Options returns every option in catalog order.
func (c *Catalog) Options() []Option {
	return slices.Clone(c.def.Options)
}

// Requires returns the all-of prerequisites of id. Unknown IDs have none.
func (c *Catalog) Requires(id OptionID) []OptionID {
	return slices.Clone(c.options[id].Requires)
}

// RequiresAny returns the any-of prerequisites of id. Unknown IDs have none.
func (c *Catalog) RequiresAny(id OptionID) []OptionID {
	return slices.Clone(c.options[id].RequiresAny)
}

// AllowedPlatforms returns the platform restriction of id. An empty result
// means the option is allowed everywhere.
func (c *Catalog) AllowedPlatforms(id OptionID) []Platform {
	return slices.Clone(c.options[id].AllowedPlatforms)
}

// AllowedOn reports whether id may be selected on platform p. Unknown options
// are never allowed.
func (c *Catalog) AllowedOn(id OptionID, p Platform) bool {
	o, ok := c.options[id]
	if !ok {
		return false
	}
	if len(o.AllowedPlatforms) == 0 {
		return true
	}
	return slices.Contains(o.AllowedPlatforms, p)
}

// Dependents returns the options that reference id as a prerequisite, in
// catalog order.
func (c *Catalog) Dependents(id OptionID) []OptionID {
	return slices.Clone(c.dependents[id])
}

// Categories returns every category in presentation order.
func (c *Catalog) Categories() []CategoryInfo {
	return slices.Clone(c.def.Categories)
}

// Category returns the options of category cat in catalog order.
func (c *Catalog) Category(cat Category) []Option {
	var out []Option
	for _, o := range c.def.Options {
		if o.Category == cat {
			out = append(out, o)
		}
	}
	return out
}

// CategoryName returns the display name of cat, or the raw ID when unknown.
func (c *Catalog) CategoryName(cat Category) string {
	for _, ci := range c.def.Categories {
		if ci.ID == cat {
			return ci.Name
		}
	}
	return string(cat)
}

// Platform returns the metadata of platform p.
func (c *Catalog) Platform(p Platform) (PlatformInfo, error) {
	info, ok := c.platforms[p]
	if !ok {
		return PlatformInfo{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	return info, nil
}

// Platforms returns every platform in presentation order.
func (c *Catalog) Platforms() []PlatformInfo {
	return slices.Clone(c.def.Platforms)
}

// DefaultPlatform returns the first platform.
func (c *Catalog) DefaultPlatform() Platform {
	if len(c.def.Platforms) == 0 {
		return ""
	}
	return c.def.Platforms[0].ID
}

// JavaVersions returns the supported Java versions.
func (c *Catalog) JavaVersions() []JavaVersionInfo {
	return slices.Clone(c.def.JavaVersions)
}

// SupportsJava reports whether v is a supported Java version.
func (c *Catalog) SupportsJava(v JavaVersion) bool {
	for _, jv := range c.def.JavaVersions {
		if jv.Version == v {
			return true
		}
	}
	return false
}

// DefaultJavaVersion returns the version flagged as default, or the first one.
func (c *Catalog) DefaultJavaVersion() JavaVersion {
	for _, jv := range c.def.JavaVersions {
		if jv.Default {
			return jv.Version
		}
	}
	if len(c.def.JavaVersions) > 0 {
		return c.def.JavaVersions[0].Version
	}
	return 0
}

// BuildTool returns the metadata of build tool b.
func (c *Catalog) BuildTool(b BuildTool) (BuildToolInfo, error) {
	info, ok := c.buildTools[b]
	if !ok {
		return BuildToolInfo{}, fmt.Errorf("%w: %s", ErrUnknownBuildTool, b)
	}
	return info, nil
}

// BuildTools returns every known build tool.
func (c *Catalog) BuildTools() []BuildToolInfo {
	return slices.Clone(c.def.BuildTools)
}

// DefaultBuildTool returns the tool flagged as default, or the first
// supported one.
func (c *Catalog) DefaultBuildTool() BuildTool {
	for _, b := range c.def.BuildTools {
		if b.Default {
			return b.ID
		}
	}
	for _, b := range c.def.BuildTools {
		if b.Supported {
			return b.ID
		}
	}
	return ""
}

// QuartzVersions returns the framework versions offered by default.
func (c *Catalog) QuartzVersions() []string {
	return slices.Clone(c.def.QuartzVersions)
}

// DefaultQuartzVersion returns the first framework version.
func (c *Catalog) DefaultQuartzVersion() string {
	if len(c.def.QuartzVersions) == 0 {
		return ""
	}
	return c.def.QuartzVersions[0]
}

// TopoOrder returns ids ordered so that every option follows its
// prerequisites, ties broken by catalog order. Unknown IDs keep their
// relative order and go last. Duplicates are dropped.
func (c *Catalog) TopoOrder(ids []OptionID) []OptionID {
	seen := make(map[OptionID]bool, len(ids))
	known := make([]OptionID, 0, len(ids))
	var unknown []OptionID

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if c.Has(id) {
			known = append(known, id)
		} else {
			unknown = append(unknown, id)
		}
	}

	sort.SliceStable(known, func(i, j int) bool {
		di, dj := c.depth[known[i]], c.depth[known[j]]
		if di != dj {
			return di < dj
		}
		return c.index[known[i]] < c.index[known[j]]
	})

	return append(known, unknown...)
}

// SortIDs orders ids by catalog position, unknown IDs last in lexical order.
func (c *Catalog) SortIDs(ids []OptionID) []OptionID {
	out := slices.Clone(ids)
	sort.SliceStable(out, func(i, j int) bool {
		ii, iok := c.index[out[i]]
		ji, jok := c.index[out[j]]
		switch {
		case iok && jok:
			return ii < ji
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func joinIDs(ids []OptionID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}
