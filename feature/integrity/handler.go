package integrity

import (
	"print-exporter/core/logger"
	"print-exporter/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.CatalogReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/catalog", h.HandleCatalogCheck)
	group.Get("/converter", h.HandleConverterCheck)
	group.Get("/archive", h.HandleArchiveCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the structure, catalog, converter and archive checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Failure 503 {object} Report "At least one check failed"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.RunAll(c.Context())
	if !report.Healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks if the required folder structure exists in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleCatalogCheck checks the catalog schema.
// @Summary Check Catalog Schema
// @Description Checks that the record tables hold every column the exporter reads.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.CatalogReport "Catalog Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/catalog [get]
func (h *Handler) HandleCatalogCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckCatalog()
	if err != nil {
		l.Error("Catalog check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Catalog schema mismatch", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleConverterCheck checks the converter binary.
// @Summary Check Converter
// @Description Checks that the external mesh converter can be started.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ConverterReport "Converter Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/converter [get]
func (h *Handler) HandleConverterCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckConverter()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleArchiveCheck checks the game archive.
// @Summary Check Archive
// @Description Searches the game archive for mesh files.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckArchive(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Status == "error" {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Archive check failed", zap.String("error", report.Error))
	}
	return c.JSON(report)
}
