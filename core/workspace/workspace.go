package workspace

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"print-exporter/core/archive"

	"github.com/spf13/afero"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Workspace is the on-disk cache of extracted archive files and exports.
// Directories are keyed by item identity so concurrent exports of different
// items never share files.
type Workspace struct {
	fs        afero.Fs
	root      string
	exportDir string
}

// New creates a workspace. Extracted files live under root; exports under exportDir.
func New(fs afero.Fs, root, exportDir string) *Workspace {
	return &Workspace{fs: fs, root: root, exportDir: exportDir}
}

// Fs returns the backing filesystem.
func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// Key turns an item identity into a directory name.
func Key(id string) string {
	k := strings.Trim(unsafeChars.ReplaceAllString(id, "_"), "._")
	if k == "" {
		return "_"
	}
	return k
}

// ItemDir returns the extraction directory of an item.
func (w *Workspace) ItemDir(id string) string {
	return filepath.Join(w.root, Key(id))
}

// LocalPath maps an archive path to its location inside the item directory.
func (w *Workspace) LocalPath(id, archivePath string) string {
	return filepath.Join(w.ItemDir(id), filepath.FromSlash(archive.Clean(archivePath)))
}

// ExportPath returns the output path for an item export with the given extension.
func (w *Workspace) ExportPath(id, name, ext string) string {
	base := Key(id)
	if name != "" {
		base = Key(name) + "_" + base
	}
	return filepath.Join(w.exportDir, base+ext)
}

// Exists reports whether a regular file exists at p.
func (w *Workspace) Exists(p string) bool {
	info, err := w.fs.Stat(p)
	return err == nil && !info.IsDir()
}

// Extract copies the archive directory holding geometryPath into the item
// directory and returns the local path of geometryPath. Companion files such
// as material and streaming-mesh files sit next to the geometry, so the whole
// directory is taken. Files keep the archive's letter case and files already
// present are left untouched.
func (w *Workspace) Extract(ctx context.Context, src archive.Archive, id, geometryPath string) (string, error) {
	geometryPath = archive.Clean(geometryPath)
	siblings, err := archive.Siblings(ctx, src, geometryPath)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", path.Dir(geometryPath), err)
	}

	local := ""
	for _, p := range siblings {
		if strings.EqualFold(p, geometryPath) {
			local = w.LocalPath(id, p)
		}
		if err := w.extractOne(ctx, src, id, p); err != nil {
			return "", err
		}
	}
	if local == "" {
		if err := w.extractOne(ctx, src, id, geometryPath); err != nil {
			return "", err
		}
		local = w.LocalPath(id, geometryPath)
	}
	return local, nil
}

func (w *Workspace) extractOne(ctx context.Context, src archive.Archive, id, p string) error {
	dst := w.LocalPath(id, p)
	if w.Exists(dst) {
		return nil
	}
	data, err := src.ReadRaw(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", p, err)
	}
	return w.WriteFile(dst, data, 0o644)
}

// WriteFile writes data via a temp file, then atomically replaces the target.
func (w *Workspace) WriteFile(p string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(p)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	f, err := afero.TempFile(w.fs, dir, filepath.Base(p)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = w.fs.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := w.fs.Chmod(tmp, mode); err != nil {
		return err
	}
	return w.fs.Rename(tmp, p)
}
