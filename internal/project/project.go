package project

import (
	"path"
	"strings"

	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/selection"
)

// Project is a request that passed validation, with everything the renderer
// needs resolved against the catalog.
type Project struct {
	Request   Request
	Platform  catalog.PlatformInfo
	Selection selection.Selection

	// Options are the selected options in catalog order.
	Options []catalog.Option
}

// Resolve applies defaults to req, validates it and restores its dependency
// selection. The returned error is an ErrValidation detail error listing
// every invalid field.
func Resolve(cat *catalog.Catalog, req Request) (*Project, error) {
	req = req.WithDefaults(cat)

	sel, err := req.validate(cat)
	if err != nil {
		return nil, err
	}

	platform, err := cat.Platform(req.Platform)
	if err != nil {
		return nil, err
	}

	var opts []catalog.Option
	for _, id := range cat.SortIDs(sel.IDs()) {
		o, err := cat.Option(id)
		if err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}

	// Keep the request in sync with what will be generated.
	req.Dependencies = cat.SortIDs(sel.IDs())

	return &Project{
		Request:   req,
		Platform:  platform,
		Selection: sel,
		Options:   opts,
	}, nil
}

// Package returns the Java package of the main class.
func (p *Project) Package() string {
	pkg, _ := SplitMainClass(p.Request.MainClass)
	return pkg
}

// ClassName returns the simple name of the main class.
func (p *Project) ClassName() string {
	_, cls := SplitMainClass(p.Request.MainClass)
	return cls
}

// PackageDir returns the source directory of the main package.
func (p *Project) PackageDir() string {
	return path.Join("src/main/java", strings.ReplaceAll(p.Package(), ".", "/"))
}

// ArchiveName returns the download file name.
func (p *Project) ArchiveName() string {
	return p.Request.ArtifactID + ".zip"
}
