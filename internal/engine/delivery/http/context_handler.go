package http

import (
	"net/http"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/service"
	"golang-stock-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ContextHandler handles HTTP requests for market context enrichment.
type ContextHandler struct {
	enrichmentService service.EnrichmentService
	logger            *logger.Logger
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(enrichmentService service.EnrichmentService, logger *logger.Logger) *ContextHandler {
	return &ContextHandler{enrichmentService: enrichmentService, logger: logger}
}

// RegisterRoutes registers the context routes to the Echo group.
func (h *ContextHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/context", h.Enrich)
}

// Enrich attaches cited market context to a signal. Requests arriving over
// the API count as explicit user actions unless the payload says otherwise.
func (h *ContextHandler) Enrich(c echo.Context) error {
	var req dto.EnrichmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.enrichmentService.Enrich(c.Request().Context(), req)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}
