// Package export turns a catalog record into a single print-ready mesh.
//
// # Pipeline
//
//  1. Selector ranks the record's geometry candidates by tag and path heuristics.
//  2. Resolver follows definition (.cdf) and skeleton (.chr) containers and
//     upgrades static meshes to their detailed siblings.
//  3. The geometry directory is extracted into the workspace and converted
//     into a glTF scene by the external converter.
//  4. Assembler grafts auxiliary parts (landing gear) and default loadout items
//     onto their named attachment nodes.
//  5. The scene is flattened with world transforms and Deduplicator drops
//     co-located level-of-detail copies.
//  6. Normalize centers, orients and paints the merged mesh, which is written
//     as OBJ with an optional GLB preview and optionally published to the bucket.
//
// # Errors
//
// Failures are *Error values carrying a Kind. ResolutionDeadEnd and
// AttachmentSkipped never abort an export; they show up in Diagnostics.
//
// # HTTP Endpoints
//
//   - GET /export/:id : Exports one record (supports ?orientation=assembled|direct).
//   - POST /export/batch : Exports several records, {"ids": [...]}.
package export
