package export

import (
	"context"
	"errors"
	"path"
	"strings"

	"print-exporter/core/archive"
	"print-exporter/core/cryxml"

	"go.uber.org/zap"
)

// siblingPreference orders replacement formats for skeleton-only references.
var siblingPreference = []string{".skin", ".cga", ".cgf"}

// siblingExclusions are name fragments that mark placeholder or reduced meshes.
var siblingExclusions = []string{"display", "lod", "proxy"}

// Resolution is the outcome of following container indirection.
type Resolution struct {
	// Path is the geometry reference to convert.
	Path string `json:"path"`
	// Steps records each rewrite, in order.
	Steps []string `json:"steps,omitempty"`
	// DeadEnd is set when a skeleton reference had no usable sibling mesh.
	DeadEnd bool `json:"dead_end,omitempty"`
}

// Resolver follows definition and skeleton containers down to static geometry.
type Resolver struct {
	archive archive.Archive
	logger  *zap.Logger
}

// NewResolver creates a resolver reading from src.
func NewResolver(src archive.Archive, logger *zap.Logger) *Resolver {
	return &Resolver{archive: src, logger: logger}
}

// Resolve rewrites p until it names a concrete mesh file.
// Only context cancellation is returned as an error; every other problem
// leaves the current reference in place.
func (r *Resolver) Resolve(ctx context.Context, p string) (Resolution, error) {
	res := Resolution{Path: archive.Clean(p)}

	if ext(res.Path) == ".cdf" {
		if model, ok := r.definitionModel(ctx, res.Path); ok {
			res.step("definition " + res.Path + " -> " + model)
			res.Path = model
		}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if ext(res.Path) == ".chr" {
		siblings, err := archive.Siblings(ctx, r.archive, res.Path)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			r.logger.Warn("Sibling search failed", zap.String("path", res.Path), zap.Error(err))
		}
		if mesh, ok := pickSibling(siblings); ok {
			res.step("skeleton " + res.Path + " -> " + mesh)
			res.Path = mesh
		} else {
			res.DeadEnd = true
			res.step("skeleton " + res.Path + " has no mesh sibling")
			r.logger.Warn("Skeleton reference has no usable sibling mesh", zap.String("path", res.Path))
		}
	}

	if ext(res.Path) == ".cgf" {
		if upgraded, ok := r.detailSibling(ctx, res.Path); ok {
			res.step("upgrade " + res.Path + " -> " + upgraded)
			res.Path = upgraded
		}
	}
	return res, ctx.Err()
}

func (res *Resolution) step(s string) {
	res.Steps = append(res.Steps, s)
}

// definitionModel reads Model/@File from a definition container.
func (r *Resolver) definitionModel(ctx context.Context, p string) (string, bool) {
	data, err := r.archive.ReadRaw(ctx, p)
	if err != nil {
		r.logger.Warn("Failed to read definition container", zap.String("path", p), zap.Error(err))
		return "", false
	}
	root, err := cryxml.Decode(data)
	if err != nil {
		r.logger.Warn("Failed to parse definition container", zap.String("path", p), zap.Error(err))
		return "", false
	}
	model := root.Find("Model")
	if model == nil {
		return "", false
	}
	file, ok := model.Attr("File")
	if !ok || strings.TrimSpace(file) == "" {
		return "", false
	}
	return withDataPrefix(file), true
}

// withDataPrefix roots "Objects/..." references at the archive's Data folder.
func withDataPrefix(ref string) string {
	ref = archive.Clean(ref)
	first, _, _ := strings.Cut(ref, "/")
	if strings.EqualFold(first, "objects") {
		return "Data/" + ref
	}
	return ref
}

// pickSibling chooses the preferred mesh among sorted sibling paths.
func pickSibling(siblings []string) (string, bool) {
	for _, want := range siblingPreference {
		for _, s := range siblings {
			if ext(s) != want {
				continue
			}
			name := strings.ToLower(path.Base(s))
			if containsAny(name, siblingExclusions) {
				continue
			}
			return s, true
		}
	}
	return "", false
}

// detailSibling returns the .cga sibling sharing p's base name.
func (r *Resolver) detailSibling(ctx context.Context, p string) (string, bool) {
	siblings, err := archive.Siblings(ctx, r.archive, p)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.logger.Debug("Sibling listing failed", zap.String("path", p), zap.Error(err))
		}
		return "", false
	}
	want := strings.TrimSuffix(path.Base(p), path.Ext(p)) + ".cga"
	for _, s := range siblings {
		if strings.EqualFold(path.Base(s), want) {
			return s, true
		}
	}
	return "", false
}

func ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
