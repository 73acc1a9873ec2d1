// Package diff compares two generated projects file by file. Plugin
// descriptors and other YAML files are compared structurally with dyff, the
// rest line by line.
package diff

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/quartz-framework/start/internal/generator"
	"github.com/quartz-framework/start/internal/output"
	"github.com/quartz-framework/start/internal/project"
	"github.com/quartz-framework/start/internal/templates"
)

// Change is a file present in both projects with different content.
type Change struct {
	Path string
	Diff string
}

// Result lists the differences between two projects. Paths are relative to
// the project root so projects with different artifact IDs still line up.
type Result struct {
	Added    []string
	Removed  []string
	Modified []Change
}

// Empty reports whether the projects are identical.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Render formats the result with styles.
func (r *Result) Render(styles *output.Styles) string {
	modified := make([]output.ModifiedItem, len(r.Modified))
	for i, c := range r.Modified {
		modified[i] = output.ModifiedItem{Name: c.Path, Diff: c.Diff}
	}
	return output.RenderDiff(r.Added, r.Removed, modified, styles)
}

// Options controls diff rendering.
type Options struct {
	// Color enables dyff's coloured report for YAML files.
	Color bool
}

// Projects renders both requests and compares the results.
func Projects(ctx context.Context, gen *generator.Generator, from, to project.Request, opts Options) (*Result, error) {
	left, err := gen.Render(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("rendering --from project: %w", err)
	}
	right, err := gen.Render(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("rendering --to project: %w", err)
	}
	return Files(left.Files, right.Files, opts)
}

// Files compares two rendered file sets.
func Files(from, to []templates.File, opts Options) (*Result, error) {
	left := index(from)
	right := index(to)

	res := &Result{}
	for p := range right {
		if _, ok := left[p]; !ok {
			res.Added = append(res.Added, p)
		}
	}
	for p, before := range left {
		after, ok := right[p]
		if !ok {
			res.Removed = append(res.Removed, p)
			continue
		}
		if bytes.Equal(before, after) {
			continue
		}
		d, err := fileDiff(p, before, after, opts)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", p, err)
		}
		res.Modified = append(res.Modified, Change{Path: p, Diff: d})
	}

	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Slice(res.Modified, func(i, j int) bool { return res.Modified[i].Path < res.Modified[j].Path })
	return res, nil
}

// index keys files by their path below the project root directory.
func index(files []templates.File) map[string][]byte {
	out := make(map[string][]byte, len(files))
	for _, f := range files {
		rel := f.Path
		if _, rest, ok := strings.Cut(f.Path, "/"); ok {
			rel = rest
		}
		out[rel] = f.Content
	}
	return out
}

func fileDiff(name string, before, after []byte, opts Options) (string, error) {
	switch path.Ext(name) {
	case ".yml", ".yaml":
		return yamlDiff(name, before, after, opts.Color)
	default:
		return lineDiff(string(before), string(after)), nil
	}
}

func yamlDiff(name string, before, after []byte, color bool) (string, error) {
	from, err := yamlInput("from/"+name, before)
	if err != nil {
		return "", err
	}
	to, err := yamlInput("to/"+name, after)
	if err != nil {
		return "", err
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}
	if len(report.Diffs) == 0 {
		// Semantically equal, e.g. only quoting changed.
		return lineDiff(string(before), string(after)), nil
	}

	var buf bytes.Buffer
	human := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !color,
		OmitHeader:        true,
	}
	if err := human.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func yamlInput(location string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: location}, nil
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, fmt.Errorf("parsing %s: %w", location, err)
	}
	return ytbx.InputFile{Location: location, Documents: docs}, nil
}

// lineDiff lists removed lines prefixed with "- " and added lines with "+ ".
// Unchanged lines are omitted.
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
