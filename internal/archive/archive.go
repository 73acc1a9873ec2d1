// Package archive stages generated project files on a billy filesystem and
// writes them out as a zip archive or into a directory.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	oerrors "github.com/quartz-framework/start/internal/errors"
)

// File is a single archive entry. Path is slash-separated and relative.
type File struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// Writer collects files on a staging filesystem.
type Writer struct {
	fs      billy.Filesystem
	files   map[string]fs.FileMode
	modTime time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithFilesystem stages files on fsys instead of an in-memory filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(w *Writer) {
		w.fs = fsys
	}
}

// WithModTime sets the modification time recorded for every zip entry.
func WithModTime(t time.Time) Option {
	return func(w *Writer) {
		w.modTime = t
	}
}

// NewWriter creates a Writer staging files in memory.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		fs:      memfs.New(),
		files:   make(map[string]fs.FileMode),
		modTime: time.Now(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add stages f. Adding the same path twice replaces the earlier content.
func (w *Writer) Add(f File) error {
	p, err := cleanPath(f.Path)
	if err != nil {
		return err
	}

	mode := f.Mode.Perm()
	if mode == 0 {
		mode = 0o644
	}

	if err := mkdirParent(w.fs, p); err != nil {
		return fmt.Errorf("staging %s: %w", p, err)
	}
	if err := util.WriteFile(w.fs, p, f.Content, mode); err != nil {
		return fmt.Errorf("staging %s: %w", p, err)
	}
	w.files[p] = mode
	return nil
}

// AddAll stages every file, stopping at the first error.
func (w *Writer) AddAll(files []File) error {
	for _, f := range files {
		if err := w.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the staged paths in lexical order.
func (w *Writer) Files() []string {
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Zip writes a deflate-compressed archive of every staged file to out, in
// lexical path order. Unix permission bits are preserved.
func (w *Writer) Zip(out io.Writer) error {
	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, flate.BestCompression)
	})

	for _, p := range w.Files() {
		if err := w.writeEntry(zw, p); err != nil {
			_ = zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func (w *Writer) writeEntry(zw *zip.Writer, p string) error {
	hdr := &zip.FileHeader{
		Name:     p,
		Method:   zip.Deflate,
		Modified: w.modTime,
	}
	hdr.SetMode(w.files[p])

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", p, err)
	}

	src, err := w.fs.Open(p)
	if err != nil {
		return fmt.Errorf("opening staged %s: %w", p, err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("compressing %s: %w", p, err)
	}
	return nil
}

// Bytes returns the complete archive. Nothing is returned on failure, so a
// caller never sees a partial archive.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Zip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrExists reports files that would be overwritten.
var ErrExists = fmt.Errorf("files already exist: %w", oerrors.ErrValidation)

// WriteDir writes files below the root of fsys. Unless force is set it
// refuses to overwrite any existing file, and checks every path before
// writing the first one.
func WriteDir(fsys billy.Filesystem, files []File, force bool) error {
	cleaned := make([]File, len(files))
	var conflicts []string

	for i, f := range files {
		p, err := cleanPath(f.Path)
		if err != nil {
			return err
		}
		f.Path = p
		cleaned[i] = f

		if !force {
			if _, err := fsys.Stat(p); err == nil {
				conflicts = append(conflicts, p)
			}
		}
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, strings.Join(conflicts, ", "))
	}

	for _, f := range cleaned {
		mode := f.Mode.Perm()
		if mode == 0 {
			mode = 0o644
		}
		if err := mkdirParent(fsys, f.Path); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Path, err)
		}
		if err := util.WriteFile(fsys, f.Path, f.Content, mode); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
		if ch, ok := fsys.(billy.Change); ok {
			if err := ch.Chmod(f.Path, mode); err != nil && !errors.Is(err, billy.ErrNotSupported) {
				return fmt.Errorf("setting mode of %s: %w", f.Path, err)
			}
		}
	}
	return nil
}

func mkdirParent(fsys billy.Filesystem, p string) error {
	dir := path.Dir(p)
	if dir == "." {
		return nil
	}
	return fsys.MkdirAll(dir, 0o755)
}

// cleanPath rejects absolute paths and paths escaping the archive root.
func cleanPath(p string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid archive path %q: %w", p, oerrors.ErrValidation)
	}
	return clean, nil
}
