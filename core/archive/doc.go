// Package archive provides read access to the packaged game data the export
// pipeline pulls geometry from.
//
// Two sources are supported:
//
//   - DirArchive: an extracted archive on a filesystem (afero, so tests use an
//     in-memory tree).
//   - BucketArchive: the same tree uploaded to the storage bucket under a prefix.
//
// Archive references in records use inconsistent letter case and either slash
// direction. Paths are normalized with Clean and matched case-insensitively;
// glob patterns are compiled with gobwas/glob using "/" as the separator.
package archive
