package archive

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNotExist is returned when an archive path does not exist.
var ErrNotExist = errors.New("archive entry does not exist")

// Archive is read access to the packaged game data.
// Paths always use forward slashes and are matched case-insensitively.
type Archive interface {
	// ReadRaw returns the bytes of the entry at path.
	ReadRaw(ctx context.Context, path string) ([]byte, error)
	// SearchByGlob returns every entry matching pattern, sorted.
	// "*" stays inside one directory, "**" crosses directories.
	SearchByGlob(ctx context.Context, pattern string) ([]string, error)
}

// Clean normalizes an archive path: forward slashes, no leading slash, no dot segments.
func Clean(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// Dir returns the directory part of an archive path.
func Dir(p string) string {
	d := path.Dir(Clean(p))
	if d == "." {
		return ""
	}
	return d
}

// Siblings lists the entries sharing dir with p, excluding nested directories.
func Siblings(ctx context.Context, a Archive, p string) ([]string, error) {
	dir := Dir(p)
	pattern := "*"
	if dir != "" {
		pattern = glob.QuoteMeta(dir) + "/*"
	}
	return a.SearchByGlob(ctx, pattern)
}

type matcher struct {
	g glob.Glob
	// root is the literal directory prefix of the pattern, used to narrow listings.
	root string
}

func compile(pattern string) (*matcher, error) {
	pattern = strings.TrimPrefix(pattern, "/")
	g, err := glob.Compile(strings.ToLower(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return &matcher{g: g, root: literalRoot(pattern)}, nil
}

func (m *matcher) Match(p string) bool {
	return m.g.Match(strings.ToLower(p))
}

// literalRoot returns the directory prefix of pattern that holds no glob syntax.
func literalRoot(pattern string) string {
	meta := strings.IndexAny(pattern, `*?[{\`)
	if meta < 0 {
		return Dir(pattern)
	}
	cut := strings.LastIndex(pattern[:meta], "/")
	if cut < 0 {
		return ""
	}
	return pattern[:cut]
}

// findFold returns the entry of names equal to want ignoring case.
func findFold(names []string, want string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, want) {
			return n, true
		}
	}
	return "", false
}

func sorted(paths []string) []string {
	sort.Strings(paths)
	return paths
}
