package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"print-exporter/core/archive"
	"print-exporter/core/converter"
	"print-exporter/core/logger"
	"print-exporter/core/meshio"
	"print-exporter/core/metrics"
	"print-exporter/core/records"
	"print-exporter/core/scene"
	"print-exporter/core/storage"
	"print-exporter/core/workspace"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrBatchTooLarge is returned when a batch exceeds BatchMaxItems.
var ErrBatchTooLarge = errors.New("batch too large")

// Result statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Options tweak a single export.
type Options struct {
	// Orientation overrides the configured preset when set.
	Orientation string
}

// Diagnostics describes how an export was produced.
type Diagnostics struct {
	Selected    *GeometryCandidate  `json:"selected,omitempty"`
	Candidates  []GeometryCandidate `json:"candidates,omitempty"`
	Resolution  *Resolution         `json:"resolution,omitempty"`
	Assembly    AssemblyDiagnostics `json:"assembly"`
	Dedup       []Decision          `json:"dedup,omitempty"`
	Orientation string              `json:"orientation,omitempty"`
	Vertices    int                 `json:"vertices"`
	Faces       int                 `json:"faces"`
	Published   []string            `json:"published,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
}

// Result is the outcome of one export.
type Result struct {
	JobID          string      `json:"job_id"`
	RecordID       string      `json:"record_id"`
	Name           string      `json:"name,omitempty"`
	Status         string      `json:"status"`
	MergedMeshPath string      `json:"merged_mesh_path,omitempty"`
	PreviewPath    string      `json:"preview_path,omitempty"`
	ErrorKind      Kind        `json:"error_kind,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	Diagnostics    Diagnostics `json:"diagnostics"`
}

// Service runs the export pipeline.
type Service struct {
	cfg       Config
	store     records.Store
	archive   archive.Archive
	converter converter.Converter
	workspace *workspace.Workspace
	client    storage.Client
	bucket    string
	logger    *zap.Logger

	selector *Selector
	resolver *Resolver
	dedup    *Deduplicator
	assemble *Assembler
}

// NewService wires the pipeline. client may be nil when publishing is disabled.
func NewService(cfg Config, store records.Store, src archive.Archive, conv converter.Converter, ws *workspace.Workspace, client storage.Client, bucket string, logger *zap.Logger) (*Service, error) {
	if _, err := OrientationMatrix(cfg.Orientation); err != nil {
		return nil, err
	}
	dedup, err := NewDeduplicator(cfg.Dedup)
	if err != nil {
		return nil, err
	}
	if cfg.Publish && client == nil {
		return nil, errors.New("publishing needs a storage client")
	}

	selector := NewSelector(cfg.Selector)
	resolver := NewResolver(src, logger)
	return &Service{
		cfg:       cfg,
		store:     store,
		archive:   src,
		converter: conv,
		workspace: ws,
		client:    client,
		bucket:    bucket,
		logger:    logger,
		selector:  selector,
		resolver:  resolver,
		dedup:     dedup,
		assemble:  NewAssembler(cfg.Assembly, store, selector, resolver, src, logger),
	}, nil
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Config returns the pipeline configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// ExportItem produces the merged print mesh of one record. The returned Result
// is never nil; on failure it carries the error kind and the returned error is
// an *Error.
func (s *Service) ExportItem(ctx context.Context, id string, opts Options) (*Result, error) {
	timer := metrics.NewTimer()
	res := &Result{JobID: uuid.New().String(), RecordID: id}
	l := logger.WithJob(s.logger, res.JobID, id)

	err := s.run(ctx, l, res, opts)
	res.Diagnostics.DurationMS = timer.Duration().Milliseconds()
	if err != nil {
		res.Status = StatusFailed
		res.ErrorKind = KindOf(err)
		res.ErrorMessage = err.Error()
		metrics.RecordExport(StatusFailed, string(res.ErrorKind), timer.Duration())
		l.Error("Export failed", zap.String("kind", string(res.ErrorKind)), zap.Error(err))

		var e *Error
		if !errors.As(err, &e) {
			err = newError(KindInternal, err, "export of %s failed", id)
		}
		return res, err
	}

	res.Status = StatusOK
	metrics.RecordExport(StatusOK, "", timer.Duration())
	l.Info("Export finished",
		zap.String("path", res.MergedMeshPath),
		zap.Int("vertices", res.Diagnostics.Vertices),
		zap.Int("faces", res.Diagnostics.Faces),
		zap.Int64("duration_ms", res.Diagnostics.DurationMS),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, l *zap.Logger, res *Result, opts Options) error {
	orientation := s.cfg.Orientation
	if opts.Orientation != "" {
		orientation = opts.Orientation
	}
	if _, err := OrientationMatrix(orientation); err != nil {
		return newError(KindInternal, err, "invalid options")
	}
	res.Diagnostics.Orientation = orientation

	item, err := s.store.GetByID(ctx, res.RecordID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return newError(KindRecordNotFound, err, "record %s does not exist", res.RecordID)
		}
		return fmt.Errorf("failed to load record: %w", err)
	}
	res.Name = item.Name

	cands, err := s.store.ResolveGeometryCandidates(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to load geometry candidates: %w", err)
	}
	best, ranked, err := s.selector.Select(cands)
	if err != nil {
		return err
	}
	res.Diagnostics.Selected = &best
	res.Diagnostics.Candidates = ranked
	l.Info("Selected geometry", zap.String("path", best.Path), zap.String("tag", best.Tag), zap.Int("score", best.Score))

	resolution, err := s.resolver.Resolve(ctx, best.Path)
	if err != nil {
		return err
	}
	res.Diagnostics.Resolution = &resolution
	if len(resolution.Steps) > 0 {
		l.Info("Resolved geometry", zap.String("path", resolution.Path), zap.Strings("steps", resolution.Steps))
	}

	sc, err := s.loadScene(ctx, item.ID, resolution.Path)
	if err != nil {
		if resolution.DeadEnd {
			var e *Error
			if errors.As(err, &e) && e.Kind == KindConversionFailed {
				e.Message += fmt.Sprintf(" (%s: skeleton without mesh)", KindResolutionDeadEnd)
			}
		}
		return err
	}

	res.Diagnostics.Assembly, err = s.assemble.Assemble(ctx, item, sc, PartLoaderFunc(func(ctx context.Context, p string) ([]scene.MeshFragment, error) {
		part, err := s.loadScene(ctx, item.ID, p)
		if err != nil {
			return nil, err
		}
		return part.Flatten(), nil
	}))
	if err != nil {
		return err
	}

	frags := sc.Flatten()
	kept, decisions := s.dedup.Deduplicate(frags)
	res.Diagnostics.Dedup = decisions
	for _, d := range decisions {
		metrics.RecordDedup(d.Reason)
		l.Debug("Dedup decision",
			zap.String("fragment", d.Name),
			zap.Int("vertices", d.Vertices),
			zap.Bool("kept", d.Kept),
			zap.String("reason", d.Reason),
		)
	}
	if len(kept) == 0 {
		return newError(KindEmptyAssemblyResult, nil, "scene of %s holds no geometry", resolution.Path)
	}
	l.Info("Deduplicated fragments", zap.Int("in", len(frags)), zap.Int("kept", len(kept)))

	mesh, err := Normalize(item.Name, kept, orientation)
	if err != nil {
		return err
	}
	res.Diagnostics.Vertices = len(mesh.Vertices)
	res.Diagnostics.Faces = len(mesh.Faces)

	return s.write(ctx, l, res, item, mesh)
}

// loadScene extracts, converts and loads one geometry reference.
func (s *Service) loadScene(ctx context.Context, id, geometryPath string) (*scene.Scene, error) {
	local, err := s.workspace.Extract(ctx, s.archive, id, geometryPath)
	if err != nil {
		return nil, newError(KindConversionFailed, err, "failed to extract %s", geometryPath)
	}

	artifact, err := s.converter.Convert(ctx, local, filepath.Dir(local))
	if err != nil {
		if errors.Is(err, converter.ErrTimeout) {
			return nil, newError(KindConversionTimeout, err, "conversion of %s timed out", geometryPath)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, newError(KindConversionFailed, err, "failed to convert %s", geometryPath)
	}

	sc, err := scene.Load(s.workspace.Fs(), artifact)
	if err != nil {
		return nil, newError(KindConversionFailed, err, "failed to load converted %s", geometryPath)
	}
	return sc, nil
}

type upload struct {
	local string
	data  []byte
	ctype string
}

// write stores the OBJ and the optional GLB preview, then publishes them.
func (s *Service) write(ctx context.Context, l *zap.Logger, res *Result, item *records.Item, mesh *meshio.Mesh) error {
	var obj bytes.Buffer
	if err := meshio.WriteOBJ(&obj, mesh); err != nil {
		return fmt.Errorf("failed to encode OBJ: %w", err)
	}
	objPath := s.workspace.ExportPath(item.ID, item.Name, ".obj")
	objData := meshio.StripMaterialRefs(obj.Bytes())
	if err := s.workspace.WriteFile(objPath, objData, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", objPath, err)
	}
	res.MergedMeshPath = objPath

	var glb bytes.Buffer
	if s.cfg.Preview {
		if err := meshio.WriteGLB(&glb, mesh); err != nil {
			return fmt.Errorf("failed to encode preview: %w", err)
		}
		glbPath := s.workspace.ExportPath(item.ID, item.Name, ".glb")
		if err := s.workspace.WriteFile(glbPath, glb.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", glbPath, err)
		}
		res.PreviewPath = glbPath
	}

	if !s.cfg.Publish {
		return nil
	}
	uploads := []upload{{objPath, objData, "model/obj"}}
	if res.PreviewPath != "" {
		uploads = append(uploads, upload{res.PreviewPath, glb.Bytes(), "model/gltf-binary"})
	}
	for _, u := range uploads {
		key := path.Join(s.cfg.PublishPrefix, filepath.Base(u.local))
		same, err := storage.ObjectMatches(ctx, s.client, s.bucket, key, u.data)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", key, err)
		}
		if same {
			res.Diagnostics.Published = append(res.Diagnostics.Published, key)
			l.Debug("Export already published", zap.String("bucket", s.bucket), zap.String("key", key))
			continue
		}
		_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(u.data), int64(len(u.data)), minio.PutObjectOptions{ContentType: u.ctype})
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", key, err)
		}
		res.Diagnostics.Published = append(res.Diagnostics.Published, key)
		l.Info("Published export", zap.String("bucket", s.bucket), zap.String("key", key))
	}
	return nil
}

// ExportBatch exports ids with at most BatchWorkers running at once.
// Results keep the order of ids.
func (s *Service) ExportBatch(ctx context.Context, ids []string, opts Options) ([]*Result, error) {
	if limit := s.cfg.BatchMaxItems; limit > 0 && len(ids) > limit {
		return nil, fmt.Errorf("%w: %d ids, limit is %d", ErrBatchTooLarge, len(ids), limit)
	}

	results := make([]*Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	workers := s.cfg.BatchWorkers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	start := time.Now()
	for i, id := range ids {
		g.Go(func() error {
			// Per-item failures live in the result.
			results[i], _ = s.ExportItem(gctx, id, opts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Status != StatusOK {
			failed++
		}
	}
	s.logger.Info("Batch export finished",
		zap.Int("items", len(ids)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, ctx.Err()
}
