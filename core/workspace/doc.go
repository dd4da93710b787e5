// Package workspace manages the local scratch area of the export pipeline.
//
// Archive files are extracted under <root>/<item key>/<archive path> and
// finished exports are written to the export directory. Writes go through a
// temp file and a rename so a crashed export never leaves a truncated file
// that a later run would mistake for a cached artifact.
package workspace
