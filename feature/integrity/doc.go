// Package integrity checks that the infrastructure the exporter depends on is in place.
//
// # Checks Provided
//
//   - Structure: the storage bucket holds the archive and exports folders.
//   - Catalog: the record tables carry every column of the gorm models.
//   - Converter: the external mesh converter binary can be found.
//   - Archive: the game archive answers a glob search for mesh files.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks, 503 when any fails.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/catalog : Runs catalog schema check.
//   - GET /integrity/converter : Probes the converter.
//   - GET /integrity/archive : Probes the archive.
package integrity
