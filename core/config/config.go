package config

import (
	"fmt"
	"reflect"
	"strings"

	"print-exporter/core/archive"
	"print-exporter/core/converter"
	"print-exporter/core/database"
	"print-exporter/core/logger"
	"print-exporter/core/records"
	"print-exporter/core/server"
	"print-exporter/core/storage"
	"print-exporter/core/workspace"
	"print-exporter/feature/catalog"
	"print-exporter/feature/export"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the catalog database connection.
	Database database.Config `mapstructure:"database"`
	// Records holds record store caching settings.
	Records records.Config `mapstructure:"records"`
	// Archive selects the game archive backend.
	Archive archive.Config `mapstructure:"archive"`
	// Converter configures the external mesh converter.
	Converter converter.Config `mapstructure:"converter"`
	// Workspace holds the extraction and export directories.
	Workspace workspace.Config `mapstructure:"workspace"`
	// Export holds the pipeline tunables.
	Export export.Config `mapstructure:"export"`
	// Catalog holds record listing filters.
	Catalog catalog.Config `mapstructure:"catalog"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. EXPORT_DEDUP_MIN_VERTICES -> export.dedup.min_vertices)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := expandPaths(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// expandPaths resolves a leading ~ in directory settings.
func expandPaths(c *Config) error {
	for _, p := range []*string{&c.Archive.Root, &c.Workspace.Dir, &c.Workspace.ExportDir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	if c.Database.Driver == "sqlite" {
		expanded, err := homedir.Expand(c.Database.Name)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", c.Database.Name, err)
		}
		c.Database.Name = expanded
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
