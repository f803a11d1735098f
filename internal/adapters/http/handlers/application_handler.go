package handlers

import (
	"strconv"

	"mfi-backoffice/internal/adapters/http/middleware"
	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/services"
	"mfi-backoffice/internal/pkg/pagination"
	"mfi-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Submit submits a loan application
// @Summary Submit loan application
// @Description Submit a loan application. Open to applicants; an Idempotency-Key header makes retries safe.
// @Tags Applications
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client idempotency key"
// @Param body body services.SubmitApplicationInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var input services.SubmitApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Submit(c.Context(), &input, middleware.CurrentSession(c), getClientIP(c))
	if err != nil {
		return response.FromError(c, err, "Loan product not found", "Failed to submit application")
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// List lists loan applications
// @Summary List loan applications
// @Description List applications newest first. Without limit every match is returned.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Under Review, Approved or Rejected"
// @Param search query string false "Name, email, phone or ID number"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.FromQuery(c, 0)

	apps, total, err := h.applicationService.List(c.Context(), services.ListApplicationsInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return response.FromError(c, err, "Application not found", "Failed to fetch applications")
	}

	return response.Success(c, "Applications retrieved successfully", fiber.Map{
		"applications": toApplicationResponses(apps),
		"pagination":   pagination.GetMeta(params, total),
	})
}

// GetByID gets a loan application
// @Summary Get loan application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Application not found", "Failed to fetch application")
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Update edits a loan application or changes its status
// @Summary Update loan application
// @Description A body with only status is a status change; any other field makes it a field edit.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.UpdateApplicationInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [put]
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.UpdateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Update(c.Context(), id, &input, middleware.CurrentSession(c), getClientIP(c))
	if err != nil {
		return response.FromError(c, err, "Application not found", "Failed to update application")
	}

	return response.Success(c, "Application updated successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Delete deletes a loan application
// @Summary Delete loan application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	if err := h.applicationService.Delete(c.Context(), id); err != nil {
		return response.FromError(c, err, "Application not found", "Failed to delete application")
	}

	return response.Success(c, "Application deleted successfully", nil)
}

// History lists the audit trail of an application
// @Summary Application history
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	entries, err := h.applicationService.History(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Application not found", "Failed to fetch application history")
	}

	return response.Success(c, "History retrieved successfully", fiber.Map{
		"history": entries,
	})
}

// PaymentSummary amortizes an application
// @Summary Payment summary
// @Description Monthly installment of an application at rate, or at the product's minimum interest
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param rate query number false "Annual interest rate in percent"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/payment-summary [get]
func (h *ApplicationHandler) PaymentSummary(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	var rate *float64
	if raw := c.Query("rate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return response.BadRequest(c, "rate must be a non-negative number")
		}
		rate = &v
	}

	summary, err := h.applicationService.PaymentSummary(c.Context(), id, rate)
	if err != nil {
		return response.FromError(c, err, "Application not found", "Failed to calculate payment summary")
	}

	return response.Success(c, "Payment summary calculated", summary)
}

// Calculate amortizes arbitrary inputs
// @Summary Loan calculator
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CalculatorInput true "Principal, annual rate and months"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /calculator [post]
func (h *ApplicationHandler) Calculate(c *fiber.Ctx) error {
	var input services.CalculatorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	quote, err := h.applicationService.Calculate(&input)
	if err != nil {
		return response.FromError(c, err, "Not found", "Failed to calculate payment")
	}

	return response.Success(c, "Payment calculated", quote)
}

func toApplicationResponses(apps []*models.LoanApplication) []*models.LoanApplicationResponse {
	out := make([]*models.LoanApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = app.ToResponse()
	}
	return out
}
