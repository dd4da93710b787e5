package export

import (
	"testing"

	"print-exporter/core/geom"
	"print-exporter/core/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVec(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

// cross is centered on the origin so orientation can be read off directly.
func cross() scene.MeshFragment {
	return scene.NewFragment("cross", []r3.Vec{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 2}, {Z: -2},
	}, [][3]int{{0, 2, 4}, {1, 3, 5}})
}

func TestNormalize_Orientation(t *testing.T) {
	m, err := Normalize("cross", []scene.MeshFragment{cross()}, OrientationDirect)
	require.NoError(t, err)
	assertVec(t, r3.Vec{X: 1}, m.Vertices[0])
	assertVec(t, r3.Vec{Z: -1}, m.Vertices[2])
	assertVec(t, r3.Vec{Y: 2}, m.Vertices[4])

	m, err = Normalize("cross", []scene.MeshFragment{cross()}, OrientationAssembled)
	require.NoError(t, err)
	assertVec(t, r3.Vec{X: -1}, m.Vertices[0])
	assertVec(t, r3.Vec{Z: -1}, m.Vertices[2])
	assertVec(t, r3.Vec{Y: -2}, m.Vertices[4])
	assert.Equal(t, FlatColor, m.Color)
}

func TestNormalize_CentersOnOrigin(t *testing.T) {
	a := cross()
	a.Transform = geom.Translation(r3.Vec{X: 40, Y: -7, Z: 3})
	b := boxFragment("fin", 12, r3.Vec{X: 50, Y: 2, Z: 1}, 3)

	for _, preset := range []string{OrientationAssembled, OrientationDirect} {
		m, err := Normalize("ship", []scene.MeshFragment{a, b}, preset)
		require.NoError(t, err)
		assertVec(t, r3.Vec{}, geom.Center(geom.Bounds(m.Vertices)))
		assert.Len(t, m.Vertices, 18)
		assert.Len(t, m.Faces, 6)
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize("x", nil, OrientationAssembled)
	assert.Equal(t, KindEmptyAssemblyResult, KindOf(err))

	_, err = Normalize("x", []scene.MeshFragment{cross()}, "sideways")
	assert.Error(t, err)
}
