package export

import (
	"errors"

	"print-exporter/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for exports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the export routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/export")
	group.Post("/batch", h.HandleExportBatch)
	group.Get("/:id", h.HandleExportItem)
}

// BatchRequest is the body of POST /export/batch.
type BatchRequest struct {
	IDs         []string `json:"ids"`
	Orientation string   `json:"orientation"`
}

// HandleExportItem exports one record.
// @Summary Export Item
// @Description Produces the merged print-ready mesh of a record and returns where it was written.
// @Tags export
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param orientation query string false "Orientation preset (assembled, direct)"
// @Success 200 {object} export.Result "Export result"
// @Failure 400 {object} map[string]string "Unknown orientation"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 422 {object} map[string]string "No usable geometry"
// @Failure 500 {object} map[string]string "Conversion failed"
// @Failure 504 {object} map[string]string "Conversion timed out"
// @Router /export/{id} [get]
func (h *Handler) HandleExportItem(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Export requested", zap.String("record", id))

	orientation := c.Query("orientation")
	if _, err := OrientationMatrix(orientation); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"kind": "BadRequest", "message": err.Error()})
	}

	res, err := h.service.ExportItem(c.UserContext(), id, Options{Orientation: orientation})
	if err != nil {
		kind := KindOf(err)
		return c.Status(kind.HTTPStatus()).JSON(fiber.Map{
			"kind":    kind,
			"message": res.ErrorMessage,
			"job_id":  res.JobID,
		})
	}
	return c.JSON(res)
}

// HandleExportBatch exports several records.
// @Summary Export Batch
// @Description Exports several records with bounded concurrency. Per-item failures are reported in the results.
// @Tags export
// @Accept json
// @Produce json
// @Param request body export.BatchRequest true "Record IDs"
// @Success 200 {array} export.Result "Export results"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /export/batch [post]
func (h *Handler) HandleExportBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"kind": "BadRequest", "message": err.Error()})
	}
	if len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"kind": "BadRequest", "message": "ids is required"})
	}
	if _, err := OrientationMatrix(req.Orientation); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"kind": "BadRequest", "message": err.Error()})
	}

	l.Info("Batch export requested", zap.Int("items", len(req.IDs)))
	results, err := h.service.ExportBatch(c.UserContext(), req.IDs, Options{Orientation: req.Orientation})
	if err != nil {
		if errors.Is(err, ErrBatchTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"kind": "BadRequest", "message": err.Error()})
		}
		l.Error("Batch export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"kind": KindInternal, "message": err.Error()})
	}
	return c.JSON(results)
}
