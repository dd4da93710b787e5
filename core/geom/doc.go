// Package geom holds the small amount of 3D math the exporter needs:
// row-major affine transforms and bounding-box measures over gonum's r3.Vec.
package geom
