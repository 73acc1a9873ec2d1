// Package wizard runs an interactive terminal form that builds a project
// request. Dependency picking goes through the selection engine, so the
// form never offers a combination the generator would reject.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/selection"
)

// ErrCancelled is returned when the user aborts the form.
var ErrCancelled = errors.New("wizard cancelled")

// Wizard prompts for a project request.
type Wizard struct {
	catalog    *catalog.Catalog
	theme      *huh.Theme
	accessible bool
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithAccessible switches huh to its line based accessible mode.
func WithAccessible(accessible bool) Option {
	return func(w *Wizard) {
		w.accessible = accessible
	}
}

// New creates a Wizard over cat.
func New(cat *catalog.Catalog, opts ...Option) *Wizard {
	w := &Wizard{catalog: cat, theme: huh.ThemeCharm()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run prompts for every request field, starting from seed, and returns the
// completed request. Seed dependencies that do not hold on the chosen
// platform are dropped before the dependency list is shown.
func (w *Wizard) Run(ctx context.Context, seed project.Request) (project.Request, error) {
	req := w.prefill(seed)
	seedPlatform := req.Platform

	if err := w.run(ctx, w.detailsGroup(&req)); err != nil {
		return project.Request{}, err
	}

	sel, rejected := selection.Restore(w.catalog, seedPlatform, req.Dependencies)
	var note string
	if len(rejected) > 0 {
		ids := make([]string, len(rejected))
		for i, rej := range rejected {
			ids[i] = string(rej.ID)
		}
		note = "Dropped " + strings.Join(ids, ", ")
	}
	if req.Platform != seedPlatform {
		var removed []catalog.OptionID
		sel, removed = changePlatform(w.catalog, sel, req.Platform)
		if len(removed) > 0 {
			output.Debug("platform change dropped options", "platform", req.Platform, "removed", removed)
			note = fmt.Sprintf("%d option(s) are not available on %s", len(removed), req.Platform)
		}
	}

	sel, err := w.pickDependencies(ctx, sel, req.Platform, note)
	if err != nil {
		return project.Request{}, err
	}
	req.Dependencies = w.catalog.SortIDs(sel.IDs())

	return req, nil
}

// prefill fills the fields the form shows as selects.
func (w *Wizard) prefill(r project.Request) project.Request {
	if r.Platform == "" {
		r.Platform = w.catalog.DefaultPlatform()
	}
	if r.JavaVersion == 0 {
		r.JavaVersion = w.catalog.DefaultJavaVersion()
	}
	if r.Version == "" {
		r.Version = w.catalog.DefaultQuartzVersion()
	}
	return r
}

func (w *Wizard) run(ctx context.Context, groups ...*huh.Group) error {
	form := huh.NewForm(groups...).
		WithTheme(w.theme).
		WithAccessible(w.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("wizard error: %w", err)
	}
	return nil
}

func (w *Wizard) detailsGroup(r *project.Request) *huh.Group {
	platforms := make([]huh.Option[catalog.Platform], 0, len(w.catalog.Platforms()))
	for _, p := range w.catalog.Platforms() {
		platforms = append(platforms, huh.NewOption(p.Name, p.ID))
	}

	javas := make([]huh.Option[catalog.JavaVersion], 0, len(w.catalog.JavaVersions()))
	for _, j := range w.catalog.JavaVersions() {
		javas = append(javas, huh.NewOption("Java "+j.Version.String(), j.Version))
	}

	versions := make([]huh.Option[string], 0, len(w.catalog.QuartzVersions()))
	for _, v := range w.catalog.QuartzVersions() {
		versions = append(versions, huh.NewOption(v, v))
	}

	return huh.NewGroup(
		huh.NewInput().
			Title("Group").
			Placeholder("com.example").
			Value(&r.GroupID).
			Validate(fieldValidator(w.catalog, "groupId", func(r *project.Request, v string) { r.GroupID = v })),
		huh.NewInput().
			Title("Artifact").
			Placeholder("my-plugin").
			Value(&r.ArtifactID).
			Validate(fieldValidator(w.catalog, "artifactId", func(r *project.Request, v string) { r.ArtifactID = v })),
		huh.NewInput().
			Title("Name").
			Description("Leave empty to derive it from the artifact").
			Value(&r.Name),
		huh.NewInput().
			Title("Main class").
			Description("Leave empty to derive it from group, artifact and name").
			Value(&r.MainClass).
			Validate(optional(fieldValidator(w.catalog, "mainClass", func(r *project.Request, v string) { r.MainClass = v }))),
		huh.NewSelect[catalog.Platform]().
			Title("Platform").
			Options(platforms...).
			Value(&r.Platform),
		huh.NewSelect[catalog.JavaVersion]().
			Title("Java").
			Options(javas...).
			Value(&r.JavaVersion),
		huh.NewSelect[string]().
			Title("Quartz version").
			Options(versions...).
			Value(&r.Version),
	)
}

// pickDependencies shows the dependency list until the user picks Done.
// Every pick is a toggle on the current selection.
func (w *Wizard) pickDependencies(ctx context.Context, sel selection.Selection, p catalog.Platform, note string) (selection.Selection, error) {
	for {
		choices := dependencyChoices(w.catalog, sel, p)
		opts := make([]huh.Option[string], len(choices))
		for i, c := range choices {
			opts[i] = huh.NewOption(c.Label, c.Value)
		}

		var picked string
		field := huh.NewSelect[string]().
			Title("Dependencies").
			Description(note).
			Options(opts...).
			Value(&picked)

		if err := w.run(ctx, huh.NewGroup(field)); err != nil {
			return selection.Selection{}, err
		}
		if picked == doneValue || picked == "" {
			return sel, nil
		}

		sel, note = applyPick(w.catalog, sel, p, catalog.OptionID(picked))
	}
}
