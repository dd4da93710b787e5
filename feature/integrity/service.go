package integrity

import (
	"context"
	"errors"

	"print-exporter/core/archive"
	"print-exporter/core/records"
	"print-exporter/core/storage"
	"print-exporter/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArchiveProbePattern is searched to tell whether the archive is mounted.
const ArchiveProbePattern = "Data/Objects/**/*.c[dg][af]"

// ErrNotConfigured is returned by checks whose dependency was not wired.
var ErrNotConfigured = errors.New("not configured")

// Prober reports whether an external tool can be run.
type Prober interface {
	Available() error
}

// Service handles integrity checks.
type Service struct {
	client        storage.Client
	bucket        string
	logger        *zap.Logger
	db            *gorm.DB
	src           archive.Archive
	converter     Prober
	converterPath string
}

// NewService creates a new integrity service. Nil dependencies disable the matching check.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, src archive.Archive, converter Prober, converterPath string) *Service {
	return &Service{
		client:        client,
		bucket:        bucket,
		logger:        logger,
		db:            db,
		src:           src,
		converter:     converter,
		converterPath: converterPath,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, checks.RequiredFolders)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckCatalog compares the catalog tables with the record models.
func (s *Service) CheckCatalog() (*checks.CatalogReport, error) {
	return checks.CheckCatalog(s.db, records.Record{}, records.Geometry{})
}

// CheckConverter probes the converter binary.
func (s *Service) CheckConverter() (checks.ConverterReport, error) {
	if s.converter == nil {
		return checks.ConverterReport{}, ErrNotConfigured
	}
	return checks.CheckConverter(s.converterPath, s.converter.Available), nil
}

// CheckArchive searches the archive for mesh files.
func (s *Service) CheckArchive(ctx context.Context) (checks.ArchiveReport, error) {
	if s.src == nil {
		return checks.ArchiveReport{}, ErrNotConfigured
	}
	return checks.CheckArchive(ctx, s.src, ArchiveProbePattern), nil
}

// Report is the combined result of every check.
type Report struct {
	Healthy   bool           `json:"healthy"`
	Structure map[string]any `json:"structure"`
	Catalog   any            `json:"catalog"`
	Converter any            `json:"converter"`
	Archive   any            `json:"archive"`
}

// RunAll runs every check and tells whether all of them passed.
func (s *Service) RunAll(ctx context.Context) *Report {
	report := &Report{Healthy: true}
	fail := func(err error) map[string]any {
		report.Healthy = false
		return map[string]any{"status": "error", "error": err.Error()}
	}

	if missing, err := s.CheckStructure(ctx); err != nil {
		report.Structure = fail(err)
	} else {
		report.Healthy = report.Healthy && len(missing) == 0
		report.Structure = map[string]any{"status": "ok", "missing": missing}
	}

	if cat, err := s.CheckCatalog(); err != nil {
		report.Catalog = fail(err)
	} else {
		report.Healthy = report.Healthy && cat.Matched
		report.Catalog = cat
	}

	if conv, err := s.CheckConverter(); err != nil {
		report.Converter = fail(err)
	} else {
		report.Healthy = report.Healthy && conv.Available
		report.Converter = conv
	}

	if arc, err := s.CheckArchive(ctx); err != nil {
		report.Archive = fail(err)
	} else {
		report.Healthy = report.Healthy && arc.Status == "ok"
		report.Archive = arc
	}

	s.logger.Info("Integrity checks completed", zap.Bool("healthy", report.Healthy))
	return report
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}
