// Package generator turns a project request into rendered files and a zip
// archive. Generation is all-or-nothing: a failure at any step yields no
// output.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/quartz-framework/start/internal/archive"
	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/selection"
	"github.com/quartz-framework/start/internal/templates"
)

// Generator renders projects against a catalog. It holds no per-request
// state and is safe for concurrent use.
type Generator struct {
	catalog  *catalog.Catalog
	shareURL string
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithShareBaseURL makes generated READMEs link back to baseURL with the
// request encoded in the query string.
func WithShareBaseURL(baseURL string) Option {
	return func(g *Generator) {
		g.shareURL = baseURL
	}
}

// WithClock sets the time source used for archive timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator.
func New(cat *catalog.Catalog, opts ...Option) *Generator {
	g := &Generator{catalog: cat, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the catalog the generator resolves against.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// Result is a rendered project.
type Result struct {
	Project  *project.Project
	Files    []templates.File
	ShareURL string
}

// Paths returns the rendered file paths with their descriptions.
func (r *Result) Paths() map[string]string {
	out := make(map[string]string, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = f.Description
	}
	return out
}

// Render resolves req and renders every project file in memory. Validation
// problems are returned unchanged as ErrValidation detail errors.
func (g *Generator) Render(ctx context.Context, req project.Request) (*Result, error) {
	p, err := project.Resolve(g.catalog, req)
	if err != nil {
		return nil, err
	}
	return g.renderProject(ctx, p)
}

// Preview resolves req and lists the paths Render would produce, mapped to
// their descriptions. No template is executed.
func (g *Generator) Preview(ctx context.Context, req project.Request) (*project.Project, map[string]string, error) {
	p, err := project.Resolve(g.catalog, req)
	if err != nil {
		return nil, nil, err
	}
	if err := g.check(ctx, p); err != nil {
		return nil, nil, err
	}

	data := templates.NewTemplateData(p)
	paths, err := templates.ListFiles(data)
	if err != nil {
		return nil, nil, fmt.Errorf("listing %s: %w", p.Request.ArtifactID, err)
	}

	out := make(map[string]string, len(paths))
	for _, path := range paths {
		out[path] = templates.Describe(path, data)
	}
	return p, out, nil
}

// check rejects a project whose selection breaks a catalog constraint on its
// platform, or whose context is done.
func (g *Generator) check(ctx context.Context, p *project.Project) error {
	if err := selection.Validate(g.catalog, p.Selection, p.Request.Platform); err != nil {
		return fmt.Errorf("selection for %s: %w", p.Request.ArtifactID, err)
	}
	return ctx.Err()
}

func (g *Generator) renderProject(ctx context.Context, p *project.Project) (*Result, error) {
	log := output.ProjectLogger(p.Request.ArtifactID)

	if err := g.check(ctx, p); err != nil {
		return nil, err
	}

	data := templates.NewTemplateData(p)
	var share string
	if g.shareURL != "" {
		link, err := project.ShareURL(g.shareURL, p.Request)
		if err != nil {
			log.Warn("share link unavailable", "error", err)
		} else {
			share = link
			data.ShareURL = link
		}
	}

	files, err := templates.Render(data)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", p.Request.ArtifactID, err)
	}

	log.Debug("rendered project",
		"platform", p.Request.Platform,
		"dependencies", len(p.Options),
		"files", len(files),
	)

	return &Result{Project: p, Files: files, ShareURL: share}, nil
}

// Archive renders req and packs it into a zip archive. The archive bytes
// are only returned when every step succeeded.
func (g *Generator) Archive(ctx context.Context, req project.Request) (*Result, []byte, error) {
	res, err := g.Render(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	w := archive.NewWriter(archive.WithModTime(g.now()))
	if err := w.AddAll(archiveFiles(res.Files)); err != nil {
		return nil, nil, fmt.Errorf("packing %s: %w", res.Project.Request.ArtifactID, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("packing %s: %w", res.Project.Request.ArtifactID, err)
	}

	output.ProjectLogger(res.Project.Request.ArtifactID).Debug("archive ready", "bytes", len(data))
	return res, data, nil
}

// WriteDir renders req and writes the files below the root of fsys. The
// artifact ID directory is created inside it.
func (g *Generator) WriteDir(ctx context.Context, req project.Request, fsys billy.Filesystem, force bool) (*Result, error) {
	res, err := g.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := archive.WriteDir(fsys, archiveFiles(res.Files), force); err != nil {
		return nil, err
	}
	return res, nil
}

func archiveFiles(files []templates.File) []archive.File {
	out := make([]archive.File, len(files))
	for i, f := range files {
		out[i] = archive.File{Path: f.Path, Content: f.Content, Mode: f.Mode}
	}
	return out
}
