package http

import (
	"net/http"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/service"
	"golang-stock-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for the analysis watchlist.
type WatchlistHandler struct {
	watchlistService service.WatchlistService
	logger           *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService service.WatchlistService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.GetAll)
	g.DELETE("/:ticker", h.Delete)
}

// Create adds a ticker to the watchlist.
func (h *WatchlistHandler) Create(c echo.Context) error {
	var req dto.CreateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	item, err := h.watchlistService.Create(c.Request().Context(), &req)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, item)
}

// GetAll returns every watchlist item.
func (h *WatchlistHandler) GetAll(c echo.Context) error {
	items, err := h.watchlistService.GetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// Delete removes a ticker from the watchlist.
func (h *WatchlistHandler) Delete(c echo.Context) error {
	if err := h.watchlistService.Delete(c.Request().Context(), c.Param("ticker")); err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
