package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/urbo/internal/planning"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// ValidationError is rendered as 422 with one entry per invalid field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func newValidationError(err error) *ValidationError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &ValidationError{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "len":
		return fmt.Sprintf("must have exactly %s items", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "excludes":
		return fmt.Sprintf("must not contain %q", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ErrorHandler renders every handler error as {"error": true, "detail": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, detail := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}
	return c.Status(status).JSON(fiber.Map{
		"error":  true,
		"detail": detail,
	})
}

func classify(err error) (int, any) {
	var (
		validationErr *ValidationError
		notFound      *planning.NotFoundError
		authErr       *planning.AuthError
		upstream      *planning.UpstreamError
		notConfigured *planning.NotConfiguredError
		fiberErr      *fiber.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusUnprocessableEntity, validationErr.Fields
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Detail
	case errors.As(err, &authErr):
		return fiber.StatusInternalServerError, "Token not found"
	case errors.As(err, &upstream):
		if upstream.Status == 0 {
			return fiber.StatusBadGateway, upstream.Detail
		}
		return upstream.Status, upstream.Detail
	case errors.As(err, &notConfigured):
		return fiber.StatusInternalServerError, notConfigured.Detail
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
