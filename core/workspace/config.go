package workspace

// Config holds the on-disk locations of the workspace.
type Config struct {
	// Dir receives files extracted from the archive and converter output.
	Dir string `mapstructure:"dir" default:"~/.print-exporter/work"`
	// ExportDir receives the finished meshes.
	ExportDir string `mapstructure:"export_dir" default:"~/.print-exporter/exports"`
}
