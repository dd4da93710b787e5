package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"print-exporter/core/records"

	"go.uber.org/zap"
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("query is empty")

var (
	numberedSuffix = regexp.MustCompile(`_\d{2}$`)
	letterSuffix   = regexp.MustCompile(`(?i)_[a-c]$`)
)

// Scanner streams record summaries.
type Scanner interface {
	Scan(ctx context.Context, term string, fn func(records.Summary) bool) error
	ScanPrefix(ctx context.Context, prefix string, fn func(records.Summary) bool) error
}

// Service handles catalog browsing.
type Service struct {
	cfg     Config
	scanner Scanner
	logger  *zap.Logger
}

// NewService creates a new catalog service.
func NewService(cfg Config, scanner Scanner, logger *zap.Logger) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultConfig().Limit
	}
	return &Service{cfg: cfg, scanner: scanner, logger: logger}
}

// Search returns printable records whose name or path contains query.
// Records of technical types, NPC records and colour variants are hidden;
// a variant shows up when the query names its suffix.
func (s *Service) Search(ctx context.Context, query string) ([]records.Summary, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrEmptyQuery
	}

	results := []records.Summary{}
	err := s.scanner.Scan(ctx, q, func(r records.Summary) bool {
		name := strings.ToLower(r.Name)
		// LIKE treats '_' as a wildcard, so confirm the substring match.
		if !strings.Contains(name, q) && !strings.Contains(strings.ToLower(r.Path), q) {
			return true
		}
		if s.junk(r) || s.variantOf(name, q) {
			return true
		}
		results = append(results, r)
		return len(results) < s.cfg.Limit
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Catalog search", zap.String("query", q), zap.Int("results", len(results)))
	return results, nil
}

// List returns the records stored under a path prefix, one per base name.
// Numbered (_01) and lettered (_a.._c) copies collapse onto their base name
// and colour variants are skipped.
func (s *Service) List(ctx context.Context, prefix string) ([]records.Summary, error) {
	prefix = strings.TrimSpace(prefix)
	seen := make(map[string]struct{})
	results := []records.Summary{}

	err := s.scanner.ScanPrefix(ctx, prefix, func(r records.Summary) bool {
		if s.variantOf(strings.ToLower(r.Name), "") {
			return true
		}
		base := BaseName(r.Name)
		if _, dup := seen[base]; dup {
			return true
		}
		seen[base] = struct{}{}
		results = append(results, r)
		return len(results) < s.cfg.Limit
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// BaseName strips a trailing two-digit or a/b/c variant suffix.
func BaseName(name string) string {
	name = numberedSuffix.ReplaceAllString(name, "")
	return letterSuffix.ReplaceAllString(name, "")
}

// junk reports technical records nobody prints.
func (s *Service) junk(r records.Summary) bool {
	for _, t := range s.cfg.BlacklistTypes {
		if strings.Contains(r.Type, t) {
			return true
		}
	}
	return strings.Contains(r.Name, "NPC_") || strings.Contains(r.Name, "Dialogue")
}

// variantOf reports whether name carries a variant suffix the query does not ask for.
func (s *Service) variantOf(name, query string) bool {
	for _, suffix := range s.cfg.VariantSuffixes {
		if strings.Contains(name, suffix) && !strings.Contains(query, suffix) {
			return true
		}
	}
	return false
}
