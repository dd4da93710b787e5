package integrity

import (
	"print-exporter/core/archive"
	"print-exporter/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new integrity feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, src archive.Archive, converter Prober, converterPath string) *Feature {
	service := NewService(client, bucket, logger, db, src, converter, converterPath)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the underlying service for the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
