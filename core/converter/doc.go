// Package converter runs the external tool that turns native game geometry
// into glTF scenes the pipeline can load.
//
// Each run is bounded by a timeout; a run that exceeds it is killed and
// reported as ErrTimeout with no partial output kept. A run that exits
// without writing its artifact is reported as *Error carrying stderr.
// Artifacts already on disk are reused, and concurrent requests for the same
// input are collapsed with singleflight.
package converter
