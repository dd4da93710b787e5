package checks

import (
	"context"

	"print-exporter/core/archive"
)

// ConverterReport tells whether the external converter can be started.
type ConverterReport struct {
	Path      string `json:"path"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// CheckConverter runs the availability probe of the converter at path.
func CheckConverter(path string, probe func() error) ConverterReport {
	report := ConverterReport{Path: path, Available: true}
	if err := probe(); err != nil {
		report.Available = false
		report.Error = err.Error()
	}
	return report
}

// ArchiveReport tells whether the game archive answers searches.
type ArchiveReport struct {
	Pattern string `json:"pattern"`
	Matches int    `json:"matches"`
	Status  string `json:"status"` // "ok", "empty", "error"
	Error   string `json:"error,omitempty"`
}

// CheckArchive searches the archive with pattern and reports what it found.
func CheckArchive(ctx context.Context, src archive.Archive, pattern string) ArchiveReport {
	report := ArchiveReport{Pattern: pattern, Status: "ok"}
	matches, err := src.SearchByGlob(ctx, pattern)
	switch {
	case err != nil:
		report.Status = "error"
		report.Error = err.Error()
	case len(matches) == 0:
		report.Status = "empty"
	}
	report.Matches = len(matches)
	return report
}
