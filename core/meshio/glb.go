package meshio

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Document builds a single-node glTF document holding m.
func Document(m *Mesh) (*gltf.Document, error) {
	positions := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	indices := make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		for _, i := range f {
			if i < 0 || i >= len(m.Vertices) {
				return nil, fmt.Errorf("face %v references a missing vertex", f)
			}
			indices = append(indices, uint32(i))
		}
	}

	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{gltf.POSITION: modeler.WritePosition(doc, positions)},
		Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
	}
	if m.hasColor() {
		doc.Materials = []*gltf.Material{{
			Name: "flat",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{
					float64(m.Color.R) / 255,
					float64(m.Color.G) / 255,
					float64(m.Color.B) / 255,
					float64(m.Color.A) / 255,
				},
			},
		}}
		prim.Material = gltf.Index(0)
	}
	doc.Meshes = []*gltf.Mesh{{Name: m.Name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// WriteGLB writes m as binary glTF.
func WriteGLB(w io.Writer, m *Mesh) error {
	doc, err := Document(m)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode glb: %w", err)
	}
	return nil
}
