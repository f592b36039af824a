package sync

import (
	"catalog-sync/core/lifecycle"
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sync engine.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/runs", h.HandleStartRun)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/entities", h.HandleListEntities)
}

// HandleStartRun executes a full synchronization run and returns its report.
// The run is synchronous; slow sources are bounded by their client timeouts.
func (h *Handler) HandleStartRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Sync run requested")

	report := h.service.Run(c.Context())

	status := fiber.StatusCreated
	if !report.Success {
		// The run completed but some parts failed; the report says which.
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(report)
}

// HandleGetRun returns the report of an earlier run.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	report, ok := h.service.GetRun(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}
	return c.JSON(report)
}

// HandleListEntities returns mirror records filtered by type, scope and
// propagation status.
func (h *Handler) HandleListEntities(c *fiber.Ctx) error {
	entityType := c.Query("type")
	scope := c.Query("scope")
	propagation := lifecycle.PropagationStatus(c.Query("propagation"))

	if entityType == "" || scope == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type and scope query parameters are required",
		})
	}
	if propagation != "" && !propagation.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown propagation status",
		})
	}

	records, err := h.service.ListEntities(c.Context(), entityType, scope, propagation)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Entity listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":    len(records),
		"entities": records,
	})
}
