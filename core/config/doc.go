// Package config provides configuration management for the print exporter.
//
// Settings come from environment variables, optionally seeded from a .env
// file. Every key has a default declared with a `default:` struct tag on the
// owning package's Config type; nested keys map to upper-case env names with
// dots replaced by underscores (export.dedup.min_vertices becomes
// EXPORT_DEDUP_MIN_VERTICES). List settings accept comma separated values.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, body limit, export timeout
//   - Storage: S3/MinIO credentials and bucket
//   - Log: level and format
//   - Database: catalog connection (mysql or sqlite)
//   - Records: name index cache lifetime
//   - Archive: game archive source (dir or bucket)
//   - Converter: external converter binary, flags and timeout
//   - Workspace: extraction and export directories (~ is expanded)
//   - Export: selector weights, dedup thresholds, assembly names, orientation, publishing, batch limits
//   - Catalog: search limit and filters
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Export.Dedup.MinVertices)
package config
