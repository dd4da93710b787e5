package cmd

import (
	"fmt"

	"print-exporter/core/archive"
	"print-exporter/core/config"
	"print-exporter/core/converter"
	"print-exporter/core/database"
	"print-exporter/core/logger"
	"print-exporter/core/records"
	"print-exporter/core/storage"
	"print-exporter/core/workspace"
	"print-exporter/feature/export"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the collaborators shared by the commands.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     *records.GormStore
	client    storage.Client
	archive   archive.Archive
	converter *converter.Process
	workspace *workspace.Workspace
}

// newRuntime loads the configuration and connects the catalog database.
// The storage client is created when withStorage is set or when the archive
// or publishing need it.
func newRuntime(withStorage bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect catalog database: %w", err)
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logg,
		db:     db,
		store:  records.NewStore(db, cfg.Records.IndexTTL()),
	}

	if withStorage || cfg.Archive.Source == archive.SourceBucket || cfg.Export.Publish {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.client = client
	}

	return rt, nil
}

// withPipeline wires the archive, the converter and the workspace.
func (rt *runtime) withPipeline() error {
	osFs := afero.NewOsFs()

	switch rt.cfg.Archive.Source {
	case archive.SourceDir:
		rt.archive = archive.NewDirArchive(osFs, rt.cfg.Archive.Root)
	case archive.SourceBucket:
		rt.archive = archive.NewBucketArchive(rt.client, rt.cfg.Storage.Bucket, rt.cfg.Archive.Prefix)
	default:
		return fmt.Errorf("unknown archive source %q", rt.cfg.Archive.Source)
	}

	conv, err := converter.NewProcess(rt.cfg.Converter, osFs, converter.ExecRunner, rt.logger)
	if err != nil {
		return fmt.Errorf("failed to configure converter: %w", err)
	}
	rt.converter = conv
	rt.workspace = workspace.New(osFs, rt.cfg.Workspace.Dir, rt.cfg.Workspace.ExportDir)
	return nil
}

// exportService builds the pipeline service; withPipeline must run first.
func (rt *runtime) exportService() (*export.Service, error) {
	return export.NewService(
		rt.cfg.Export,
		rt.store,
		rt.archive,
		rt.converter,
		rt.workspace,
		rt.client,
		rt.cfg.Storage.Bucket,
		rt.logger,
	)
}
