package converter

import "time"

// Config holds settings for the external geometry converter.
type Config struct {
	// Path is the converter binary, looked up on PATH when not absolute.
	Path string `mapstructure:"path" default:"cgf-converter"`
	// Flags are extra arguments, shell-quoted.
	Flags string `mapstructure:"flags" default:"-glb"`
	// OutputFlag names the output directory argument; empty writes next to the input.
	OutputFlag string `mapstructure:"output_flag" default:"-outputdir"`
	// ArtifactExt is the extension of the produced scene file.
	ArtifactExt string `mapstructure:"artifact_ext" default:".glb"`
	// TimeoutSeconds bounds one converter run.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
}

// Timeout returns the run time budget, defaulting to five minutes.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
