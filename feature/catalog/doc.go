// Package catalog lets clients find printable records.
//
// Search hides technical record types (audio, particles, loadouts...), NPC
// records and colour or skin variants, unless the query itself names the
// variant suffix. Listing by path prefix collapses numbered and lettered
// copies (_01, _a) onto one entry per base name.
//
// # HTTP Endpoints
//
//   - GET /catalog/search?q= : Searches record names and paths.
//   - GET /catalog/list?path= : Lists records under a path prefix.
package catalog
