package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
)

// statusFor maps domain errors to HTTP status codes. Anything unmapped is a
// 500 and logged.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAuthenticationFailed):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrVoucherNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrControllerNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrVoucherAlreadyUsed),
		errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrSessionNotActive),
		errors.Is(err, domain.ErrPlanInUse):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrVoucherExpired),
		errors.Is(err, domain.ErrPaymentNotCompleted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrGenerationExhausted):
		return fiber.StatusInsufficientStorage
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusFor(err)

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
