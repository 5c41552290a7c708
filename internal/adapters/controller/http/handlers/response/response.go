package response

import (
	"errors"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/gofiber/fiber/v2"
)

// HandleSuccess sends the success envelope.
func HandleSuccess(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"error":   nil,
		"data":    data,
	})
}

// HandleError sends the error envelope. field is set for validation errors.
func HandleError(c *fiber.Ctx, statusCode int, message string, err error) error {
	body := fiber.Map{
		"status":  "error",
		"message": message,
		"error":   nil,
		"data":    nil,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	var verr *errorz.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	return c.Status(statusCode).JSON(body)
}

// Status maps a service error to its HTTP status.
func Status(err error) int {
	var verr *errorz.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, errorz.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errorz.Unauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, errorz.Forbidden):
		return fiber.StatusForbidden
	case errors.Is(err, errorz.ErrAlreadyRegistered),
		errors.Is(err, errorz.ErrRegistrationInProgress),
		errors.Is(err, errorz.ErrNotRegistered),
		errors.Is(err, errorz.ErrDuplicate),
		errors.Is(err, errorz.ErrEventNotPast):
		return fiber.StatusConflict
	case errors.Is(err, errorz.ErrEmailRequired):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, errorz.ErrTagModelUnavailable),
		errors.Is(err, errorz.ErrStorageNotConfigured):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// Error writes err with its mapped status. Validation errors carry their own
// message; internal errors get fallback.
func Error(c *fiber.Ctx, err error, fallback string) error {
	status := Status(err)
	var verr *errorz.ValidationError
	switch {
	case errors.As(err, &verr):
		return HandleError(c, status, verr.Message, err)
	case status == fiber.StatusInternalServerError:
		return HandleError(c, status, fallback, err)
	}
	return HandleError(c, status, err.Error(), err)
}
