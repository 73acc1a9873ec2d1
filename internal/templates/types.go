package templates

import (
	"io/fs"

	"github.com/quartz-framework/start/internal/catalog"
	"github.com/quartz-framework/start/internal/project"
)

// TemplateData holds the values available to project templates.
type TemplateData struct {
	GroupID    string
	ArtifactID string
	Name       string

	// MainClass is the fully qualified entry point; Package and ClassName
	// are its parts.
	MainClass string
	Package   string
	ClassName string

	// SourceDir is the main package directory relative to the project root.
	SourceDir string

	JavaVersion        int
	QuartzVersion      string
	Snapshot           bool
	Platform           catalog.PlatformInfo
	PlatformAPIVersion string

	// Dependencies are the selected options in catalog order.
	Dependencies []catalog.Option

	// ShareURL links back to the generator with the same settings. Optional.
	ShareURL string
}

// NewTemplateData builds template data from a resolved project.
func NewTemplateData(p *project.Project) TemplateData {
	r := p.Request
	return TemplateData{
		GroupID:            r.GroupID,
		ArtifactID:         r.ArtifactID,
		Name:               r.Name,
		MainClass:          r.MainClass,
		Package:            p.Package(),
		ClassName:          p.ClassName(),
		SourceDir:          p.PackageDir(),
		JavaVersion:        int(r.JavaVersion),
		QuartzVersion:      r.Version,
		Snapshot:           r.IsSnapshot(),
		Platform:           p.Platform,
		PlatformAPIVersion: r.PlatformAPIVersion,
		Dependencies:       p.Options,
	}
}

// File is one rendered project file. Path is slash-separated and rooted at
// the artifact ID.
type File struct {
	Path        string
	Content     []byte
	Mode        fs.FileMode
	Description string
}

const (
	modeFile       fs.FileMode = 0o644
	modeExecutable fs.FileMode = 0o755
)
