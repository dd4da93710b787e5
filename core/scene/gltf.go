package scene

import (
	"bytes"
	"fmt"

	"print-exporter/core/geom"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/spatial/r3"
)

// Load reads a binary glTF scene from fs.
// Buffers must be embedded, which is how the converter writes them.
func Load(fs afero.Fs, path string) (*Scene, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene %s: %w", path, err)
	}
	s, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// FromDocument converts a decoded glTF document into a Scene.
// Only triangle primitives are kept; each primitive becomes one fragment.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	s := New()
	meshes := make([][]MeshFragment, len(doc.Meshes))
	for i, m := range doc.Meshes {
		frags, err := readMesh(doc, m)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		meshes[i] = frags
	}

	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = NoParent
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(parents) {
				parents[c] = i
			}
		}
	}

	// glTF node indexes map one to one onto the arena.
	for i, n := range doc.Nodes {
		var frags []MeshFragment
		if n.Mesh != nil && int(*n.Mesh) < len(meshes) {
			for _, f := range meshes[*n.Mesh] {
				f.Vertices = append([]r3.Vec(nil), f.Vertices...)
				if f.Name == "" {
					f.Name = n.Name
				}
				frags = append(frags, f)
			}
		}
		s.AddNode(n.Name, parents[i], nodeTransform(n), frags...)
	}
	return s, nil
}

func nodeTransform(n *gltf.Node) geom.Mat4 {
	if n.Matrix != [16]float64{} {
		if m := geom.FromColumnMajor(n.Matrix); !m.IsIdentity() {
			return m
		}
	}
	rot := n.Rotation
	if rot == [4]float64{} {
		rot = [4]float64{0, 0, 0, 1}
	}
	scale := n.Scale
	if scale == [3]float64{} {
		scale = [3]float64{1, 1, 1}
	}
	return geom.FromTRS(n.Translation, rot, scale)
}

func readMesh(doc *gltf.Document, m *gltf.Mesh) ([]MeshFragment, error) {
	var out []MeshFragment
	for pi, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok || int(posIdx) >= len(doc.Accessors) {
			continue
		}
		pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}

		var indices []uint32
		if p.Indices != nil && int(*p.Indices) < len(doc.Accessors) {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("primitive %d indices: %w", pi, err)
			}
		} else {
			indices = make([]uint32, len(pos))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		verts := make([]r3.Vec, len(pos))
		for i, v := range pos {
			verts[i] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
		faces := make([][3]int, 0, len(indices)/3)
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(verts) || b >= len(verts) || c >= len(verts) {
				return nil, fmt.Errorf("primitive %d: index out of range", pi)
			}
			faces = append(faces, [3]int{a, b, c})
		}

		name := m.Name
		if len(m.Primitives) > 1 && name != "" {
			name = fmt.Sprintf("%s_%d", name, pi)
		}
		out = append(out, NewFragment(name, verts, faces))
	}
	return out, nil
}
