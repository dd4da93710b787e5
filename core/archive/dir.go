package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DirArchive serves an extracted archive from a directory tree.
type DirArchive struct {
	fs afero.Fs
}

// NewDirArchive roots an archive at root on fsys.
func NewDirArchive(fsys afero.Fs, root string) *DirArchive {
	return &DirArchive{fs: afero.NewBasePathFs(fsys, root)}
}

// ReadRaw implements Archive.
func (a *DirArchive) ReadRaw(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	real, err := a.resolve(Clean(p))
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(a.fs, real)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// resolve maps p onto an existing file, correcting letter case per segment.
func (a *DirArchive) resolve(p string) (string, error) {
	if info, err := a.fs.Stat(p); err == nil && !info.IsDir() {
		return p, nil
	}
	real, ok := a.fold(p)
	if !ok {
		return "", fmt.Errorf("%s: %w", p, ErrNotExist)
	}
	if info, err := a.fs.Stat(real); err != nil || info.IsDir() {
		return "", fmt.Errorf("%s: %w", p, ErrNotExist)
	}
	return real, nil
}

// fold walks p one segment at a time, matching each against the directory
// entries ignoring case.
func (a *DirArchive) fold(p string) (string, bool) {
	cur := ""
	for _, seg := range strings.Split(p, "/") {
		entries, err := afero.ReadDir(a.fs, "/"+cur)
		if err != nil {
			return "", false
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		match, ok := findFold(names, seg)
		if !ok {
			return "", false
		}
		cur = strings.TrimPrefix(cur+"/"+match, "/")
	}
	return cur, true
}

// SearchByGlob implements Archive.
func (a *DirArchive) SearchByGlob(ctx context.Context, pattern string) ([]string, error) {
	m, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	start := "/"
	if m.root != "" {
		root, ok := a.fold(m.root)
		if !ok {
			return nil, nil
		}
		start = "/" + root
	}

	var out []string
	err = afero.Walk(a.fs, start, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if m.Match(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", pattern, err)
	}
	return sorted(out), nil
}
