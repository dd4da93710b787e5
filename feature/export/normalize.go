package export

import (
	"fmt"
	"image/color"

	"print-exporter/core/geom"
	"print-exporter/core/meshio"
	"print-exporter/core/scene"

	"gonum.org/v1/gonum/spatial/r3"
)

// Orientation presets.
const (
	// OrientationAssembled turns +90° about X, then 180° about Y.
	OrientationAssembled = "assembled"
	// OrientationDirect turns −90° about X.
	OrientationDirect = "direct"
)

// FlatColor is the neutral colour every export is painted with.
var FlatColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// OrientationMatrix returns the fixed rotation of a preset.
func OrientationMatrix(preset string) (geom.Mat4, error) {
	switch preset {
	case OrientationAssembled, "":
		return geom.Mul(
			geom.Rotation(geom.Deg2Rad(180), axisY),
			geom.Rotation(geom.Deg2Rad(90), axisX),
		), nil
	case OrientationDirect:
		return geom.Rotation(geom.Deg2Rad(-90), axisX), nil
	default:
		return geom.Mat4{}, fmt.Errorf("unknown orientation %q", preset)
	}
}

// Normalize merges frags into one mesh centered on the origin, rotated by the
// preset and painted FlatColor.
func Normalize(name string, frags []scene.MeshFragment, preset string) (*meshio.Mesh, error) {
	rot, err := OrientationMatrix(preset)
	if err != nil {
		return nil, err
	}
	merged := scene.Concatenate(name, frags)
	if merged.IsEmpty() {
		return nil, newError(KindEmptyAssemblyResult, nil, "nothing to normalize")
	}

	center := geom.Center(geom.Bounds(merged.Vertices))
	xf := geom.Mul(rot, geom.Translation(r3.Scale(-1, center)))
	verts := make([]r3.Vec, len(merged.Vertices))
	for i, v := range merged.Vertices {
		verts[i] = xf.MulPoint(v)
	}

	// Rounding in the rotation can leave the box a hair off the origin.
	if c := geom.Center(geom.Bounds(verts)); c != (r3.Vec{}) {
		for i := range verts {
			verts[i] = r3.Sub(verts[i], c)
		}
	}

	return &meshio.Mesh{
		Name:     name,
		Vertices: verts,
		Faces:    merged.Faces,
		Color:    FlatColor,
	}, nil
}
