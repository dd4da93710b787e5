package export

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"print-exporter/core/geom"
	"print-exporter/core/scene"

	"gonum.org/v1/gonum/spatial/r3"
)

// Decision reasons.
const (
	ReasonKept       = "kept"
	ReasonKeepName   = "keep_name"
	ReasonTooSmall   = "too_small"
	ReasonDropName   = "drop_name"
	ReasonDuplicate  = "duplicate"
	ReasonForcedKeep = "forced_keep"
)

// Decision records what the deduplicator did with one fragment.
type Decision struct {
	Name     string `json:"name"`
	Vertices int    `json:"vertices"`
	Kept     bool   `json:"kept"`
	Reason   string `json:"reason"`
	// DuplicateOf names the kept fragment a duplicate matched.
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// Deduplicator removes co-located level-of-detail copies from a flattened
// fragment list.
type Deduplicator struct {
	cfg  DedupConfig
	drop *regexp.Regexp
	keep *regexp.Regexp
}

// NewDeduplicator compiles the name patterns of cfg.
func NewDeduplicator(cfg DedupConfig) (*Deduplicator, error) {
	d := &Deduplicator{cfg: cfg}
	var err error
	if cfg.DropPattern != "" {
		if d.drop, err = regexp.Compile("(?i)" + cfg.DropPattern); err != nil {
			return nil, fmt.Errorf("invalid dedup drop pattern: %w", err)
		}
	}
	if cfg.KeepPattern != "" {
		if d.keep, err = regexp.Compile("(?i)" + cfg.KeepPattern); err != nil {
			return nil, fmt.Errorf("invalid dedup keep pattern: %w", err)
		}
	}
	return d, nil
}

type measured struct {
	frag   scene.MeshFragment
	center r3.Vec
	size   float64
}

// Deduplicate returns the surviving fragments, largest first, and one
// Decision per input fragment in processing order. The result is empty only
// when the input is.
func (d *Deduplicator) Deduplicate(frags []scene.MeshFragment) ([]scene.MeshFragment, []Decision) {
	items := make([]measured, 0, len(frags))
	for _, f := range frags {
		box := f.Bounds()
		items = append(items, measured{frag: f, center: geom.Center(box), size: geom.CharacteristicSize(box)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].frag.VertexCount() > items[j].frag.VertexCount()
	})

	var kept []measured
	decisions := make([]Decision, 0, len(items))
	for _, it := range items {
		dec := Decision{Name: it.frag.Name, Vertices: it.frag.VertexCount()}
		switch {
		case dec.Vertices < d.cfg.MinVertices:
			dec.Reason = ReasonTooSmall
		case d.drop != nil && d.drop.MatchString(it.frag.Name):
			dec.Reason = ReasonDropName
		case d.keep != nil && d.keep.MatchString(it.frag.Name):
			dec.Kept, dec.Reason = true, ReasonKeepName
		default:
			if other, dup := d.duplicateOf(it, kept); dup {
				dec.Reason, dec.DuplicateOf = ReasonDuplicate, other
			} else {
				dec.Kept, dec.Reason = true, ReasonKept
			}
		}
		if dec.Kept {
			kept = append(kept, it)
		}
		decisions = append(decisions, dec)
	}

	if len(kept) == 0 && len(items) > 0 {
		kept = append(kept, items[0])
		decisions[0].Kept, decisions[0].Reason = true, ReasonForcedKeep
	}

	out := make([]scene.MeshFragment, len(kept))
	for i, k := range kept {
		out[i] = k.frag
	}
	return out, decisions
}

// duplicateOf reports whether it overlaps any kept fragment in position and size.
func (d *Deduplicator) duplicateOf(it measured, kept []measured) (string, bool) {
	for _, k := range kept {
		denom := math.Max(math.Max(it.size, k.size), d.cfg.Epsilon)
		relDist := r3.Norm(r3.Sub(it.center, k.center)) / denom
		relSize := math.Abs(it.size-k.size) / denom
		if relDist < d.cfg.CenterTolerance && relSize < d.cfg.SizeTolerance {
			return k.frag.Name, true
		}
	}
	return "", false
}
