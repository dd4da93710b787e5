// Package loader registers self-contained features on the HTTP router.
//
// A Feature owns a route group and decides itself whether it can run:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers export, catalog and integrity with a Manager and
// calls LoadAll; disabled features (for instance catalog without a scanner)
// are skipped rather than loaded half-wired.
package loader
