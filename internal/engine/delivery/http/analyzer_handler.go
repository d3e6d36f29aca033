package http

import (
	"net/http"
	"strings"

	"golang-stock-insight/internal/engine/dto"
	"golang-stock-insight/internal/engine/repository"
	"golang-stock-insight/internal/engine/service"
	"golang-stock-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzerHandler handles HTTP requests for signal analysis.
type AnalyzerHandler struct {
	analyzerService service.AnalyzerService
	stockSignalRepo repository.StockSignalRepository
	logger          *logger.Logger
}

// NewAnalyzerHandler creates a new AnalyzerHandler.
func NewAnalyzerHandler(analyzerService service.AnalyzerService, stockSignalRepo repository.StockSignalRepository, logger *logger.Logger) *AnalyzerHandler {
	return &AnalyzerHandler{analyzerService: analyzerService, stockSignalRepo: stockSignalRepo, logger: logger}
}

// RegisterRoutes registers the analyzer routes to the Echo group.
func (h *AnalyzerHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/analyze", h.Analyze)
	g.GET("/signals/:ticker", h.GetLatestSignal)
}

// Analyze runs a synchronous analysis of the submitted indicator snapshot.
func (h *AnalyzerHandler) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.analyzerService.Analyze(c.Request().Context(), req)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetLatestSignal returns the most recent stored signal for a ticker.
func (h *AnalyzerHandler) GetLatestSignal(c echo.Context) error {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ticker is required"})
	}

	sig, err := h.stockSignalRepo.GetLatest(c.Request().Context(), ticker)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if sig == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No signal found for ticker"})
	}

	return c.JSON(http.StatusOK, sig)
}

func isValidationError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "invalid ") ||
		strings.Contains(msg, "out of range") ||
		strings.Contains(msg, "must be")
}
