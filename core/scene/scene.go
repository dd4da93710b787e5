package scene

import (
	"strings"

	"print-exporter/core/geom"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoParent marks a root node.
const NoParent = -1

// MeshFragment is one geometric piece of a scene.
type MeshFragment struct {
	Name     string
	Vertices []r3.Vec
	// Faces are vertex index triples.
	Faces [][3]int
	// Transform places the fragment in world space. Flatten sets it; fragments
	// held by a node are in that node's local space and carry identity.
	Transform geom.Mat4
}

// VertexCount returns the number of vertices.
func (f *MeshFragment) VertexCount() int {
	return len(f.Vertices)
}

// IsEmpty reports whether the fragment carries no vertices.
func (f *MeshFragment) IsEmpty() bool {
	return len(f.Vertices) == 0
}

// placement returns Transform, reading the zero matrix as identity.
func (f *MeshFragment) placement() geom.Mat4 {
	if f.Transform == (geom.Mat4{}) {
		return geom.Identity()
	}
	return f.Transform
}

// WorldVertices returns the vertices with Transform applied.
// The result aliases Vertices when the transform is the identity.
func (f *MeshFragment) WorldVertices() []r3.Vec {
	m := f.placement()
	if m.IsIdentity() {
		return f.Vertices
	}
	out := make([]r3.Vec, len(f.Vertices))
	for i, v := range f.Vertices {
		out[i] = m.MulPoint(v)
	}
	return out
}

// Bake returns a copy with Transform applied to the vertices and reset to identity.
func (f MeshFragment) Bake() MeshFragment {
	m := f.placement()
	verts := make([]r3.Vec, len(f.Vertices))
	for i, v := range f.Vertices {
		verts[i] = m.MulPoint(v)
	}
	return MeshFragment{
		Name:      f.Name,
		Vertices:  verts,
		Faces:     append([][3]int(nil), f.Faces...),
		Transform: geom.Identity(),
	}
}

// Bounds returns the world-space bounding box.
func (f *MeshFragment) Bounds() r3.Box {
	return geom.Bounds(f.WorldVertices())
}

// NewFragment builds an identity-placed fragment.
func NewFragment(name string, vertices []r3.Vec, faces [][3]int) MeshFragment {
	return MeshFragment{Name: name, Vertices: vertices, Faces: faces, Transform: geom.Identity()}
}

// Concatenate merges fragments into one, baking each transform.
// Face indices are offset so every face keeps addressing its own vertices.
func Concatenate(name string, frags []MeshFragment) MeshFragment {
	out := NewFragment(name, nil, nil)
	for _, f := range frags {
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, f.WorldVertices()...)
		for _, face := range f.Faces {
			out.Faces = append(out.Faces, [3]int{face[0] + base, face[1] + base, face[2] + base})
		}
	}
	return out
}

// Node is one element of the scene hierarchy.
type Node struct {
	Name string
	// Local is the transform relative to the parent.
	Local geom.Mat4
	// Parent indexes Scene.Nodes, or NoParent.
	Parent    int
	Fragments []MeshFragment
}

// Scene is a node hierarchy held in an arena; nodes refer to each other by index.
type Scene struct {
	Nodes []Node
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddNode appends a node and returns its index.
func (s *Scene) AddNode(name string, parent int, local geom.Mat4, frags ...MeshFragment) int {
	s.Nodes = append(s.Nodes, Node{Name: name, Local: local, Parent: parent, Fragments: frags})
	return len(s.Nodes) - 1
}

// AddChild appends a node under parent with the given local transform.
func (s *Scene) AddChild(parent int, name string, local geom.Mat4, frags ...MeshFragment) int {
	return s.AddNode(name, parent, local, frags...)
}

// FindNode returns the first node named name. An exact match wins over a
// case-insensitive one.
func (s *Scene) FindNode(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	fold := -1
	for i := range s.Nodes {
		if s.Nodes[i].Name == name {
			return i, true
		}
		if fold < 0 && strings.EqualFold(s.Nodes[i].Name, name) {
			fold = i
		}
	}
	return fold, fold >= 0
}

// WorldTransform composes the local transforms from the root down to node i.
func (s *Scene) WorldTransform(i int) geom.Mat4 {
	m := geom.Identity()
	for guard := 0; i != NoParent && guard <= len(s.Nodes); guard++ {
		m = geom.Mul(s.Nodes[i].Local, m)
		i = s.Nodes[i].Parent
	}
	return m
}

// Flatten returns every fragment of the scene with its world transform,
// in node order. Empty fragments are dropped.
func (s *Scene) Flatten() []MeshFragment {
	var out []MeshFragment
	for i := range s.Nodes {
		world := s.WorldTransform(i)
		for _, f := range s.Nodes[i].Fragments {
			if f.IsEmpty() {
				continue
			}
			f.Transform = geom.Mul(world, f.placement())
			if f.Name == "" {
				f.Name = s.Nodes[i].Name
			}
			out = append(out, f)
		}
	}
	return out
}

// FragmentCount returns the number of non-empty fragments.
func (s *Scene) FragmentCount() int {
	n := 0
	for i := range s.Nodes {
		for j := range s.Nodes[i].Fragments {
			if !s.Nodes[i].Fragments[j].IsEmpty() {
				n++
			}
		}
	}
	return n
}
