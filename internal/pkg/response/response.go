package response

import (
	"errors"
	"log"

	"mfi-backoffice/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Detail  string              `json:"detail,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// MultiStatus sends a 207 response for batches with mixed outcomes
func MultiStatus(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusMultiStatus).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Validation sends a 400 response describing invalid input
func Validation(c *fiber.Ctx, err *domain.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success: false,
		Error:   err.Message,
		Detail:  err.Detail,
		Fields:  err.Fields,
	})
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// FromError maps a service error onto the matching status class.
// notFound is used as the 404 message, fallback as the 500 message.
func FromError(c *fiber.Ctx, err error, notFound, fallback string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return Validation(c, ve)
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, notFound)
	case errors.Is(err, domain.ErrUnauthorized):
		return Unauthorized(c, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrConflict):
		return Conflict(c, err.Error())
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	if summary, ok := domain.StorageSummary(err); ok {
		return InternalServerError(c, summary)
	}
	return InternalServerError(c, fallback)
}
