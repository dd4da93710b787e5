package export

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"print-exporter/core/archive"
	"print-exporter/core/converter"
	"print-exporter/core/property"
	"print-exporter/core/records"
	"print-exporter/core/storage/mocks"
	"print-exporter/core/workspace"

	"github.com/minio/minio-go/v7"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errNoSuchKey = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}

type glbNode struct {
	name   string
	parent int
	at     [3]float64
	mesh   string
	verts  [][3]float32
}

// diagonal returns n points from min to min+size along the box diagonal.
func diagonal(n int, min [3]float32, size float32) [][3]float32 {
	out := make([][3]float32, n)
	for i := range out {
		t := float32(i) / float32(n-1) * size
		out[i] = [3]float32{min[0] + t, min[1] + t, min[2] + t}
	}
	return out
}

func buildGLB(t *testing.T, nodes []glbNode) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	for i, n := range nodes {
		gn := &gltf.Node{
			Name:        n.name,
			Translation: n.at,
			Rotation:    [4]float64{0, 0, 0, 1},
			Scale:       [3]float64{1, 1, 1},
		}
		if len(n.verts) > 0 {
			indices := make([]uint32, len(n.verts)/3*3)
			for j := range indices {
				indices[j] = uint32(j)
			}
			pos := modeler.WritePosition(doc, n.verts)
			idx := modeler.WriteIndices(doc, indices)
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{
				Name: n.mesh,
				Primitives: []*gltf.Primitive{{
					Indices:    gltf.Index(idx),
					Attributes: map[string]uint32{gltf.POSITION: pos},
				}},
			})
			gn.Mesh = gltf.Index(uint32(len(doc.Meshes) - 1))
		}
		doc.Nodes = append(doc.Nodes, gn)
		if n.parent < 0 {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(i))
		} else {
			doc.Nodes[n.parent].Children = append(doc.Nodes[n.parent].Children, uint32(i))
		}
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

// fakeConverter writes canned scenes keyed by lowercase input file name.
type fakeConverter struct {
	fs      afero.Fs
	scenes  map[string][]byte
	timeout map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeConverter) Convert(_ context.Context, input, outDir string) (string, error) {
	base := strings.ToLower(filepath.Base(input))
	f.mu.Lock()
	f.calls = append(f.calls, base)
	f.mu.Unlock()

	if f.timeout[base] {
		return "", converter.ErrTimeout
	}
	data, ok := f.scenes[base]
	if !ok {
		return "", &converter.Error{Input: input, Stderr: "unsupported chunk", Err: errors.New("exit status 1")}
	}
	out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))+".glb")
	if err := afero.WriteFile(f.fs, out, data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

type fixture struct {
	fs        afero.Fs
	store     *memStore
	converter *fakeConverter
	client    *mocks.Client
	cfg       Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"Data/Objects/Ship/ship.cga":        "ship",
		"Data/Objects/Ship/ship.mtl":        "mtl",
		"Data/Objects/Ship/gear.cga":        "gear",
		"Data/Objects/Weapons/behr_gun.cga": "gun",
		"Data/Objects/Broken/broken.cgf":    "broken",
		"Data/Objects/Slow/slow.cgf":        "slow",
		"Data/Objects/Empty/empty.cgf":      "empty",
		"Data/Objects/Rig/rig.chr":          "chr",
	}
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/p4k", p), []byte(body), 0o644))
	}

	store := &memStore{}
	store.add(&records.Item{ID: "s1", Name: "Ship", Properties: property.Keyed("",
		"Components", property.List(loadoutComponent(loadoutEntry("hardpoint_gun", "BEHR_Gun"))),
	)}, records.Candidate{Tag: "vehicle", Path: "Data/Objects/Ship/ship.cga"})
	store.add(&records.Item{ID: "s2", Name: "Ship_LandingSystem", Properties: property.Keyed("",
		"gears", property.List(
			property.Keyed("", "bone", "gear_front", "geometry", property.Keyed("", "path", "Data/Objects/Ship/gear.cga")),
		),
	)})
	store.add(&records.Item{ID: "w1", Name: "BEHR_Gun"},
		records.Candidate{Tag: "heldEntity", Path: "Data/Objects/Weapons/behr_gun.cga"})
	store.add(&records.Item{ID: "n1", Name: "Nothing"})
	store.add(&records.Item{ID: "b1", Name: "Broken"},
		records.Candidate{Path: "Data/Objects/Broken/broken.cgf"})
	store.add(&records.Item{ID: "t1", Name: "Slow"},
		records.Candidate{Path: "Data/Objects/Slow/slow.cgf"})
	store.add(&records.Item{ID: "e1", Name: "Empty"},
		records.Candidate{Path: "Data/Objects/Empty/empty.cgf"})
	store.add(&records.Item{ID: "r1", Name: "Rig"},
		records.Candidate{Path: "Data/Objects/Rig/rig.chr"})

	conv := &fakeConverter{
		fs: fs,
		scenes: map[string][]byte{
			"ship.cga": buildGLB(t, []glbNode{
				{name: "Ship", parent: -1, mesh: "hull", verts: diagonal(24, [3]float32{-5, -1, -5}, 10)},
				{name: "lod", parent: 0, mesh: "hull_lod1", verts: diagonal(12, [3]float32{-5, -1, -5}, 10)},
				{name: "gear_front", parent: 0, at: [3]float64{0, -4, 2}},
				{name: "hardpoint_gun", parent: 0, at: [3]float64{6, 0, 0}},
			}),
			"gear.cga":     buildGLB(t, []glbNode{{name: "gear", parent: -1, mesh: "gear", verts: diagonal(12, [3]float32{0, 0, 0}, 1)}}),
			"behr_gun.cga": buildGLB(t, []glbNode{{name: "gun", parent: -1, mesh: "gun", verts: diagonal(15, [3]float32{0, 0, 0}, 2)}}),
			"empty.cgf":    buildGLB(t, []glbNode{{name: "root", parent: -1}}),
		},
		timeout: map[string]bool{"slow.cgf": true},
	}

	return &fixture{fs: fs, store: store, converter: conv, client: new(mocks.Client), cfg: DefaultConfig()}
}

func (f *fixture) service(t *testing.T) *Service {
	t.Helper()
	src := archive.NewDirArchive(f.fs, "/p4k")
	ws := workspace.New(f.fs, "/work", "/exports")
	svc, err := NewService(f.cfg, f.store, src, f.converter, ws, f.client, "prints", zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestExportItem_Assembled(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t)

	res, err := svc.ExportItem(context.Background(), "s1", Options{})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.NotEmpty(t, res.JobID)
	assert.Equal(t, filepath.Join("/exports", "Ship_s1.obj"), res.MergedMeshPath)
	assert.Equal(t, filepath.Join("/exports", "Ship_s1.glb"), res.PreviewPath)
	assert.Empty(t, res.ErrorKind)

	d := res.Diagnostics
	assert.Equal(t, "Data/Objects/Ship/ship.cga", d.Selected.Path)
	assert.Equal(t, 2, d.Assembly.Attached)
	assert.Equal(t, OrientationAssembled, d.Orientation)
	assert.Equal(t, 24+12+15, d.Vertices)

	reasons := map[string]string{}
	for _, dec := range d.Dedup {
		reasons[dec.Name] = dec.Reason
	}
	assert.Equal(t, map[string]string{
		"hull":      ReasonKept,
		"hull_lod1": ReasonDropName,
		"gear":      ReasonKept,
		"gun":       ReasonKept,
	}, reasons)

	obj, err := afero.ReadFile(f.fs, res.MergedMeshPath)
	require.NoError(t, err)
	assert.NotContains(t, string(obj), "mtllib")
	assert.NotContains(t, string(obj), "usemtl")
	assert.Equal(t, 24+12+15, strings.Count(string(obj), "\nv "))

	exists, err := afero.Exists(f.fs, res.PreviewPath)
	require.NoError(t, err)
	assert.True(t, exists)

	// Materials next to the geometry were extracted too.
	exists, _ = afero.Exists(f.fs, filepath.Join("/work", "s1", "Data", "Objects", "Ship", "ship.mtl"))
	assert.True(t, exists)
}

func TestExportItem_DirectOrientationOverride(t *testing.T) {
	f := newFixture(t)
	f.cfg.Preview = false
	svc := f.service(t)

	res, err := svc.ExportItem(context.Background(), "s1", Options{Orientation: OrientationDirect})
	require.NoError(t, err)
	assert.Equal(t, OrientationDirect, res.Diagnostics.Orientation)
	assert.Empty(t, res.PreviewPath)

	_, err = svc.ExportItem(context.Background(), "s1", Options{Orientation: "upside-down"})
	assert.Error(t, err)
}

func TestExportItem_Failures(t *testing.T) {
	tests := []struct {
		id      string
		kind    Kind
		message string
	}{
		{"missing", KindRecordNotFound, "does not exist"},
		{"n1", KindNoGeometryFound, "no geometry"},
		{"b1", KindConversionFailed, "unsupported chunk"},
		{"t1", KindConversionTimeout, "timed out"},
		{"e1", KindEmptyAssemblyResult, "holds no geometry"},
		{"r1", KindConversionFailed, string(KindResolutionDeadEnd)},
	}

	f := newFixture(t)
	svc := f.service(t)
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			res, err := svc.ExportItem(context.Background(), tt.id, Options{})
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))

			require.NotNil(t, res)
			assert.Equal(t, StatusFailed, res.Status)
			assert.Equal(t, tt.kind, res.ErrorKind)
			assert.Contains(t, res.ErrorMessage, tt.message)
			assert.Empty(t, res.MergedMeshPath)
		})
	}
}

func TestExportItem_Publish(t *testing.T) {
	f := newFixture(t)
	f.cfg.Publish = true
	f.client.On("StatObject", mock.Anything, "prints", mock.Anything, mock.Anything).Return(nil, errNoSuchKey)
	f.client.On("PutObject", mock.Anything, "prints", "exports/Ship_s1.obj", mock.Anything, mock.Anything,
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "model/obj" }),
	).Return(minio.UploadInfo{}, nil).Once()
	f.client.On("PutObject", mock.Anything, "prints", "exports/Ship_s1.glb", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	svc := f.service(t)

	res, err := svc.ExportItem(context.Background(), "s1", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/Ship_s1.obj", "exports/Ship_s1.glb"}, res.Diagnostics.Published)
	f.client.AssertExpectations(t)
}

func TestExportItem_PublishFailure(t *testing.T) {
	f := newFixture(t)
	f.cfg.Publish = true
	f.client.On("StatObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errNoSuchKey)
	f.client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("bucket gone"))
	svc := f.service(t)

	res, err := svc.ExportItem(context.Background(), "s1", Options{})
	require.Error(t, err)
	assert.Equal(t, KindInternal, res.ErrorKind)
}

func TestExportItem_PublishSkipsUnchanged(t *testing.T) {
	f := newFixture(t)
	f.cfg.Publish = true
	f.client.On("StatObject", mock.Anything, "prints", mock.Anything, mock.Anything).Return(nil, errNoSuchKey).Twice()
	f.client.On("PutObject", mock.Anything, "prints", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Twice()
	svc := f.service(t)

	first, err := svc.ExportItem(context.Background(), "s1", Options{})
	require.NoError(t, err)

	stored := func(p string) minio.ObjectInfo {
		data, err := afero.ReadFile(f.fs, p)
		require.NoError(t, err)
		sum := md5.Sum(data)
		return minio.ObjectInfo{Size: int64(len(data)), ETag: `"` + hex.EncodeToString(sum[:]) + `"`}
	}
	f.client.On("StatObject", mock.Anything, "prints", "exports/Ship_s1.obj", mock.Anything).
		Return(stored(first.MergedMeshPath), nil).Once()
	f.client.On("StatObject", mock.Anything, "prints", "exports/Ship_s1.glb", mock.Anything).
		Return(stored(first.PreviewPath), nil).Once()

	second, err := svc.ExportItem(context.Background(), "s1", Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Diagnostics.Published, second.Diagnostics.Published)
	f.client.AssertNumberOfCalls(t, "PutObject", 2)
	f.client.AssertNumberOfCalls(t, "StatObject", 4)
}

func TestNewService_Validation(t *testing.T) {
	f := newFixture(t)
	src := archive.NewDirArchive(f.fs, "/p4k")
	ws := workspace.New(f.fs, "/work", "/exports")

	cfg := DefaultConfig()
	cfg.Publish = true
	_, err := NewService(cfg, f.store, src, f.converter, ws, nil, "prints", zap.NewNop())
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Orientation = "sideways"
	_, err = NewService(cfg, f.store, src, f.converter, ws, nil, "prints", zap.NewNop())
	assert.Error(t, err)
}

func TestExportBatch(t *testing.T) {
	f := newFixture(t)
	f.cfg.BatchWorkers = 2
	f.cfg.BatchMaxItems = 3
	svc := f.service(t)

	results, err := svc.ExportBatch(context.Background(), []string{"s1", "missing", "w1"}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, KindRecordNotFound, results[1].ErrorKind)
	assert.Equal(t, StatusOK, results[2].Status)
	assert.Equal(t, "s1", results[0].RecordID)

	_, err = svc.ExportBatch(context.Background(), []string{"a", "b", "c", "d"}, Options{})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}
