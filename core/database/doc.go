// Package database handles catalog database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// based on the application's configuration. SQLite is the default so a single
// workstation can run the exporter against a local catalog file.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the integrity check that verifies the
// record catalog tables exist with the columns the record store expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "records", []string{"id", "name"})
package database
