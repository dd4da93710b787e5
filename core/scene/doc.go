// Package scene holds the in-memory scene graph the export pipeline assembles.
//
// Nodes live in an arena slice owned by Scene and point at their parent by
// index, so grafting a sub-part is an append and nothing holds pointers into
// the slice. Each node carries a local transform and zero or more
// MeshFragments in node-local space; Flatten walks the arena and returns
// fragments placed in world space.
//
// Load reads the binary glTF files produced by the converter (qmuntal/gltf).
package scene
