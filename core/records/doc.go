// Package records provides the catalog of item records exported by the
// pipeline.
//
// Records come from an external extractor as a JSON-lines dump and are stored
// with gorm in two tables: records (identity, type tag, path and the nested
// property tree as a JSON column) and record_geometries (the record's tagged
// geometry references, kept in input order through an ord column).
//
// The export pipeline depends only on the Store interface. GormStore also
// offers Scan and ScanPrefix for catalog listings and Import for loading dumps.
//
// # Name lookups
//
// FindByName goes through a NameIndex: a TTL cache of lower-cased names to ids
// whose rebuilds are collapsed with singleflight so a burst of loadout lookups
// triggers one query.
package records
