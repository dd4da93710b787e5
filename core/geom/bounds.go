package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds returns the axis-aligned bounding box of points.
// The zero Box is returned for an empty slice.
func Bounds(points []r3.Vec) r3.Box {
	if len(points) == 0 {
		return r3.Box{}
	}
	min := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range points {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return r3.Box{Min: min, Max: max}
}

// Center returns the midpoint of the box.
func Center(b r3.Box) r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Extents returns the edge lengths of the box.
func Extents(b r3.Box) r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// CharacteristicSize is the length of the box diagonal.
func CharacteristicSize(b r3.Box) float64 {
	return r3.Norm(Extents(b))
}
