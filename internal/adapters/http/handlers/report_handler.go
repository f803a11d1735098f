package handlers

import (
	"mfi-backoffice/internal/core/services"
	"mfi-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Applications builds the application report
// @Summary Application report
// @Description Status breakdown, approval rates, trailing 12-month trend and processing time
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "YYYY-MM-DD or RFC 3339"
// @Param endDate query string false "YYYY-MM-DD (inclusive) or RFC 3339"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/applications [get]
func (h *ReportHandler) Applications(c *fiber.Ctx) error {
	r, err := services.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to generate report")
	}

	report, err := h.reportService.ApplicationReport(c.Context(), r)
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to generate application report")
	}

	return response.Success(c, "Application report generated", fiber.Map{
		"dateRange": r,
		"report":    report,
	})
}

// Financial builds the financial report
// @Summary Financial report
// @Description Disbursed volume, portfolio stats, size buckets and trailing 12-month disbursement
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "YYYY-MM-DD or RFC 3339"
// @Param endDate query string false "YYYY-MM-DD (inclusive) or RFC 3339"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/financial [get]
func (h *ReportHandler) Financial(c *fiber.Ctx) error {
	r, err := services.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to generate report")
	}

	report, err := h.reportService.FinancialReport(c.Context(), r)
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to generate financial report")
	}

	return response.Success(c, "Financial report generated", fiber.Map{
		"dateRange": r,
		"report":    report,
	})
}

// Stats returns the dashboard counters
// @Summary Dashboard stats
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /stats [get]
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reportService.Stats(c.Context())
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to fetch stats")
	}

	return response.Success(c, "Stats retrieved successfully", stats)
}
