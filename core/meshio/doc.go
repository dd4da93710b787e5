// Package meshio writes the pipeline's merged mesh to disk formats.
//
// WriteOBJ emits a material-free Wavefront OBJ for slicers and WriteGLB a
// binary glTF preview with one flat material. StripMaterialRefs cleans OBJ
// text produced by other tools the same way.
package meshio
