package catalog

import (
	"errors"

	"print-exporter/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/search", h.HandleSearch)
	group.Get("/list", h.HandleList)
}

// HandleSearch searches printable records.
// @Summary Search Records
// @Description Case-insensitive search over record names and paths. Technical records and colour variants are hidden unless the query names the variant.
// @Tags catalog
// @Accept json
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} map[string]interface{} "Search results"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	results, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Catalog search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"results": results})
}

// HandleList lists records under a path prefix.
// @Summary List Records
// @Description Lists records stored under a path prefix, one per base name.
// @Tags catalog
// @Accept json
// @Produce json
// @Param path query string false "Record path prefix"
// @Success 200 {object} map[string]interface{} "Listing"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/list [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	items, err := h.service.List(c.UserContext(), c.Query("path"))
	if err != nil {
		l.Error("Catalog listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"items": items})
}
