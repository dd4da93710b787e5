package archive

// Config selects where game archive files are read from.
type Config struct {
	// Source is the archive backend (dir, bucket).
	Source string `mapstructure:"source" default:"dir"`
	// Root is the unpacked archive directory when Source is dir.
	Root string `mapstructure:"root" default:"~/p4k"`
	// Prefix is the object key prefix of the mirrored archive when Source is bucket.
	Prefix string `mapstructure:"prefix" default:"archive"`
}

const (
	SourceDir    = "dir"
	SourceBucket = "bucket"
)
