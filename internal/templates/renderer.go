package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"
)

var descriptions = map[string]string{
	"pom.xml":          "Maven build descriptor",
	"README.md":        "project readme",
	"mvnw":             "Maven wrapper (Unix)",
	"mvnw.cmd":         "Maven wrapper (Windows)",
	"PingCommand.java": "example command",
}

// Render executes the project skeleton with data and returns every file,
// sorted by path. It performs no validation of data.
func Render(data TemplateData) ([]File, error) {
	var files []File

	err := fs.WalkDir(projectFS, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(projectFS, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}

		if strings.HasSuffix(p, ".tmpl") {
			content, err = execute(p, content, data)
			if err != nil {
				return err
			}
		}

		files = append(files, newFile(targetPath(p, data), content, data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rendering project: %w", err)
	}

	manifest, err := RenderManifest(data.MainClass)
	if err != nil {
		return nil, err
	}
	files = append(files, newFile(manifestPath(data), manifest, data))

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ListFiles returns the paths Render would produce for data, sorted, without
// executing any template.
func ListFiles(data TemplateData) ([]string, error) {
	var paths []string

	err := fs.WalkDir(projectFS, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, targetPath(p, data))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing project files: %w", err)
	}

	paths = append(paths, manifestPath(data))
	sort.Strings(paths)
	return paths, nil
}

// Describe returns a short description for a rendered path, or "".
func Describe(p string, data TemplateData) string {
	base := path.Base(p)
	switch {
	case base == data.Platform.Manifest:
		return "plugin descriptor"
	case p == path.Join(data.ArtifactID, data.SourceDir, data.ClassName+".java"):
		return "plugin entry point"
	}
	return descriptions[base]
}

func execute(name string, content []byte, data TemplateData) ([]byte, error) {
	tmpl, err := template.New(path.Base(name)).Funcs(funcs).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// targetPath maps an embedded source path to its project path.
func targetPath(src string, data TemplateData) string {
	rel := strings.TrimPrefix(src, templateRoot+"/")
	rel = strings.TrimSuffix(rel, ".tmpl")

	parts := strings.Split(rel, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch {
		case part == "__package__":
			if data.Package != "" {
				out = append(out, strings.Split(data.Package, ".")...)
			}
		case strings.HasPrefix(part, "dot_"):
			out = append(out, "."+strings.TrimPrefix(part, "dot_"))
		default:
			out = append(out, strings.ReplaceAll(part, "__main__", data.ClassName))
		}
	}

	return path.Join(append([]string{data.ArtifactID}, out...)...)
}

func manifestPath(data TemplateData) string {
	return path.Join(data.ArtifactID, "src/main/resources", data.Platform.Manifest)
}

func newFile(p string, content []byte, data TemplateData) File {
	mode := modeFile
	if path.Base(p) == "mvnw" {
		mode = modeExecutable
	}
	return File{Path: p, Content: content, Mode: mode, Description: Describe(p, data)}
}
