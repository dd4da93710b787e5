package export

import (
	"context"
	"errors"
	"strings"

	"print-exporter/core/archive"
	"print-exporter/core/geom"
	"print-exporter/core/metrics"
	"print-exporter/core/property"
	"print-exporter/core/records"
	"print-exporter/core/scene"

	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

// AttachmentKind tells where an attachment was declared.
type AttachmentKind string

const (
	AttachAuxiliary AttachmentKind = "AuxiliaryAssemblyPart"
	AttachLoadout   AttachmentKind = "LoadoutItem"
)

// Attachment outcomes. Everything but OutcomeAttached counts as AttachmentSkipped.
const (
	OutcomeAttached           = "attached"
	OutcomeMissingAttachPoint = "missing_attach_point"
	OutcomeIncompleteEntry    = "incomplete_entry"
	OutcomeUnresolvedPart     = "unresolved_part"
	OutcomePartLoadFailed     = "part_load_failed"
	OutcomeEmptyPart          = "empty_part"
)

// AttachmentSpec declares one sub-part to graft.
type AttachmentSpec struct {
	AttachPoint string         `json:"attach_point"`
	PartRef     string         `json:"part_ref"`
	Kind        AttachmentKind `json:"kind"`
}

// AttachmentReport is the outcome of one AttachmentSpec.
type AttachmentReport struct {
	AttachmentSpec
	// Path is the geometry the part resolved to, if any.
	Path    string `json:"path,omitempty"`
	Outcome string `json:"outcome"`
}

// AssemblyDiagnostics summarises both attachment passes.
type AssemblyDiagnostics struct {
	Companion   string             `json:"companion,omitempty"`
	Attached    int                `json:"attached"`
	Skipped     map[string]int     `json:"skipped,omitempty"`
	Attachments []AttachmentReport `json:"attachments,omitempty"`
}

func (d *AssemblyDiagnostics) record(pass string, r AttachmentReport) {
	d.Attachments = append(d.Attachments, r)
	if r.Outcome == OutcomeAttached {
		d.Attached++
	} else {
		if d.Skipped == nil {
			d.Skipped = make(map[string]int)
		}
		d.Skipped[r.Outcome]++
	}
	metrics.RecordAttachment(pass, r.Outcome)
}

// SkippedTotal returns the number of AttachmentSkipped events.
func (d *AssemblyDiagnostics) SkippedTotal() int {
	n := 0
	for _, c := range d.Skipped {
		n += c
	}
	return n
}

// PartLoader turns a geometry reference into placed fragments.
type PartLoader interface {
	LoadPart(ctx context.Context, geometryPath string) ([]scene.MeshFragment, error)
}

// PartLoaderFunc adapts a function to PartLoader.
type PartLoaderFunc func(ctx context.Context, geometryPath string) ([]scene.MeshFragment, error)

// LoadPart implements PartLoader.
func (f PartLoaderFunc) LoadPart(ctx context.Context, geometryPath string) ([]scene.MeshFragment, error) {
	return f(ctx, geometryPath)
}

// Attach grafts part under the node named point as a new child called
// nodeName with an identity local transform, so the part inherits the
// node's world placement. A multi-fragment part is merged into one fragment.
// When no node is named point the scene is left untouched and false is returned.
func Attach(s *scene.Scene, point, nodeName string, part []scene.MeshFragment) (int, bool) {
	parent, ok := s.FindNode(point)
	if !ok {
		return 0, false
	}
	var frags []scene.MeshFragment
	switch len(part) {
	case 0:
	case 1:
		frags = []scene.MeshFragment{part[0].Bake()}
	default:
		frags = []scene.MeshFragment{scene.Concatenate(nodeName, part)}
	}
	return s.AddChild(parent, nodeName, geom.Identity(), frags...), true
}

// Assembler runs the auxiliary-assembly and default-loadout passes.
type Assembler struct {
	cfg      AssemblyConfig
	store    records.Store
	selector *Selector
	resolver *Resolver
	archive  archive.Archive
	logger   *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(cfg AssemblyConfig, store records.Store, selector *Selector, resolver *Resolver, src archive.Archive, logger *zap.Logger) *Assembler {
	return &Assembler{cfg: cfg, store: store, selector: selector, resolver: resolver, archive: src, logger: logger}
}

// Assemble grafts every declared sub-part of item onto s. Partial assembly is
// not an error; only context cancellation is returned.
func (a *Assembler) Assemble(ctx context.Context, item *records.Item, s *scene.Scene, parts PartLoader) (AssemblyDiagnostics, error) {
	var diag AssemblyDiagnostics

	aux, companion := a.auxiliarySpecs(ctx, item)
	diag.Companion = companion
	for _, spec := range aux {
		if err := ctx.Err(); err != nil {
			return diag, err
		}
		diag.record("auxiliary", a.attachSpec(ctx, s, spec, parts))
	}

	for _, spec := range LoadoutSpecs(item.Properties, a.cfg.LoadoutComponent) {
		if err := ctx.Err(); err != nil {
			return diag, err
		}
		diag.record("loadout", a.attachSpec(ctx, s, spec, parts))
	}

	a.logger.Info("Assembly finished",
		zap.String("record", item.ID),
		zap.Int("attached", diag.Attached),
		zap.Int("skipped", diag.SkippedTotal()),
	)
	return diag, ctx.Err()
}

func (a *Assembler) attachSpec(ctx context.Context, s *scene.Scene, spec AttachmentSpec, parts PartLoader) AttachmentReport {
	rep := AttachmentReport{AttachmentSpec: spec}
	if spec.AttachPoint == "" || spec.PartRef == "" {
		rep.Outcome = OutcomeIncompleteEntry
		return rep
	}
	// Checked first so missing points cost no conversion.
	if _, ok := s.FindNode(spec.AttachPoint); !ok {
		rep.Outcome = OutcomeMissingAttachPoint
		a.logger.Debug("Attach point not in scene", zap.String("point", spec.AttachPoint))
		return rep
	}

	geometry, ok := a.resolvePart(ctx, spec)
	if !ok {
		rep.Outcome = OutcomeUnresolvedPart
		return rep
	}
	rep.Path = geometry

	frags, err := parts.LoadPart(ctx, geometry)
	if err != nil {
		rep.Outcome = OutcomePartLoadFailed
		a.logger.Warn("Failed to load part",
			zap.String("point", spec.AttachPoint),
			zap.String("path", geometry),
			zap.Error(err),
		)
		return rep
	}
	if len(frags) == 0 {
		rep.Outcome = OutcomeEmptyPart
		return rep
	}

	Attach(s, spec.AttachPoint, a.cfg.NodePrefix+spec.AttachPoint, frags)
	rep.Outcome = OutcomeAttached
	a.logger.Debug("Attached part",
		zap.String("kind", string(spec.Kind)),
		zap.String("point", spec.AttachPoint),
		zap.String("path", geometry),
	)
	return rep
}

// auxiliarySpecs reads the parts of the item's companion record.
func (a *Assembler) auxiliarySpecs(ctx context.Context, item *records.Item) ([]AttachmentSpec, string) {
	name := item.Name + a.cfg.CompanionSuffix
	companion, err := a.store.FindByName(ctx, name)
	if err != nil {
		if !errors.Is(err, records.ErrNotFound) {
			a.logger.Warn("Companion lookup failed", zap.String("name", name), zap.Error(err))
		}
		return nil, ""
	}

	var specs []AttachmentSpec
	for _, part := range companion.Properties.Path(a.cfg.PartsKey).Items() {
		specs = append(specs, AttachmentSpec{
			AttachPoint: part.Path("bone").String(),
			PartRef:     part.Path("geometry", "path").String(),
			Kind:        AttachAuxiliary,
		})
	}
	return specs, companion.Name
}

// LoadoutSpecs walks the Components property of a record, whether it is a list
// of typed components or keyed by component name, and returns the default
// loadout entries found under the named component.
func LoadoutSpecs(props property.Value, component string) []AttachmentSpec {
	var specs []AttachmentSpec
	for _, comp := range props.Path("Components").FindByName(component) {
		for _, entry := range comp.Path("loadout", "entries").Items() {
			specs = append(specs, AttachmentSpec{
				AttachPoint: entry.Path("itemPortName").String(),
				PartRef:     entry.Path("entityClassName").String(),
				Kind:        AttachLoadout,
			})
		}
	}
	return specs
}

// resolvePart maps a spec onto a geometry path in the archive.
func (a *Assembler) resolvePart(ctx context.Context, spec AttachmentSpec) (string, bool) {
	if spec.Kind == AttachAuxiliary {
		res, err := a.resolver.Resolve(ctx, spec.PartRef)
		if err != nil {
			return "", false
		}
		return res.Path, true
	}
	return a.resolveClass(ctx, spec.PartRef)
}

// resolveClass finds the geometry of an item class: through its record first,
// then by archive search.
func (a *Assembler) resolveClass(ctx context.Context, class string) (string, bool) {
	item, err := a.store.FindByName(ctx, class)
	switch {
	case err == nil:
		if p, ok := a.recordGeometry(ctx, item); ok {
			return p, true
		}
	case !errors.Is(err, records.ErrNotFound):
		a.logger.Warn("Loadout class lookup failed", zap.String("class", class), zap.Error(err))
	}

	quoted := glob.QuoteMeta(class)
	for _, pattern := range a.cfg.FallbackPatterns {
		matches, err := a.archive.SearchByGlob(ctx, strings.ReplaceAll(pattern, "%s", quoted))
		if err != nil {
			a.logger.Debug("Fallback search failed", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if len(matches) > 0 {
			return matches[0], true
		}
	}
	return "", false
}

func (a *Assembler) recordGeometry(ctx context.Context, item *records.Item) (string, bool) {
	cands, err := a.store.ResolveGeometryCandidates(ctx, item)
	if err != nil {
		a.logger.Warn("Failed to load loadout geometry", zap.String("record", item.ID), zap.Error(err))
		return "", false
	}
	best, _, err := a.selector.Select(cands)
	if err != nil {
		return "", false
	}
	res, err := a.resolver.Resolve(ctx, best.Path)
	if err != nil || res.DeadEnd {
		return "", false
	}
	return res.Path, true
}
