package export

import (
	"path"
	"sort"
	"strings"

	"print-exporter/core/records"
)

// GeometryCandidate is a scored geometry reference.
type GeometryCandidate struct {
	Tag   string `json:"tag"`
	Path  string `json:"path"`
	Score int    `json:"score"`
	// Suppressed marks candidates carrying a placeholder penalty.
	Suppressed bool `json:"suppressed,omitempty"`
}

// Selector picks the best geometry reference of a record.
type Selector struct {
	cfg       SelectorConfig
	preferred map[string]struct{}
}

// NewSelector creates a selector with the given weights.
func NewSelector(cfg SelectorConfig) *Selector {
	preferred := make(map[string]struct{}, len(cfg.PreferredTags))
	for _, t := range cfg.PreferredTags {
		preferred[strings.ToLower(t)] = struct{}{}
	}
	return &Selector{cfg: cfg, preferred: preferred}
}

// Score rates one candidate. The second result reports whether a placeholder
// penalty applied.
func (s *Selector) Score(tag, p string) (int, bool) {
	score := 0
	if _, ok := s.preferred[strings.ToLower(tag)]; ok {
		score += s.cfg.PreferredBonus
	}

	lower := strings.ToLower(p)
	if strings.Contains(lower, "prop") {
		score += s.cfg.PropBonus
	}
	switch path.Ext(lower) {
	case ".skin":
		score += s.cfg.SkinBonus
	case ".cga":
		score += s.cfg.CGABonus
	case ".cgf":
		score += s.cfg.CGFBonus
	case ".cdf":
		score += s.cfg.CDFBonus
	}

	suppressed := false
	if strings.Contains(lower, "_display") {
		score -= s.cfg.DisplayPenalty
		suppressed = true
	}
	if strings.Contains(lower, "crate") {
		score -= s.cfg.CratePenalty
		suppressed = true
	}
	if strings.Contains(lower, "mannequin") {
		score -= s.cfg.MannequinPenalty
		suppressed = true
	}
	return score, suppressed
}

// Rank scores every candidate and orders them best first. Clean candidates
// always rank above penalised ones; within each group the higher score wins
// and ties keep input order.
func (s *Selector) Rank(cands []records.Candidate) []GeometryCandidate {
	out := make([]GeometryCandidate, 0, len(cands))
	for _, c := range cands {
		if strings.TrimSpace(c.Path) == "" {
			continue
		}
		score, suppressed := s.Score(c.Tag, c.Path)
		out = append(out, GeometryCandidate{Tag: c.Tag, Path: c.Path, Score: score, Suppressed: suppressed})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Suppressed != out[j].Suppressed {
			return !out[i].Suppressed
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// Select returns the best candidate and the full ranking.
func (s *Selector) Select(cands []records.Candidate) (GeometryCandidate, []GeometryCandidate, error) {
	ranked := s.Rank(cands)
	if len(ranked) == 0 {
		return GeometryCandidate{}, nil, newError(KindNoGeometryFound, nil, "record declares no geometry")
	}
	return ranked[0], ranked, nil
}
