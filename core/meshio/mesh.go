package meshio

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a single merged triangle mesh ready to be written.
type Mesh struct {
	Name     string
	Vertices []r3.Vec
	// Faces are zero-based vertex index triples.
	Faces [][3]int
	// Color is the flat colour of the whole mesh; the zero value means none.
	Color color.RGBA
}

func (m *Mesh) hasColor() bool {
	return m.Color != color.RGBA{}
}
