package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[models.ErrorKind]int{
	models.KindNotAuthenticated:      fiber.StatusUnauthorized,
	models.KindPermissionDenied:      fiber.StatusForbidden,
	models.KindOwnershipDenied:       fiber.StatusForbidden,
	models.KindNotFound:              fiber.StatusNotFound,
	models.KindPasswordMismatch:      fiber.StatusBadRequest,
	models.KindInvalidOrExpiredToken: fiber.StatusBadRequest,
	models.KindPaymentFailed:         fiber.StatusPaymentRequired,
	models.KindPaymentTimeout:        fiber.StatusGatewayTimeout,
	models.KindPersistence:           fiber.StatusInternalServerError,
	models.KindInvalidCredentials:    fiber.StatusUnauthorized,
	models.KindValidation:            fiber.StatusBadRequest,
	models.KindConflict:              fiber.StatusConflict,
	models.KindCheckoutInProgress:    fiber.StatusConflict,
	models.KindEmptyCart:             fiber.StatusBadRequest,
	models.KindUnreconciledCharge:    fiber.StatusInternalServerError,
}

// respondError writes err as {code, message}. It is the only place an
// error kind is turned into an HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    models.KindPersistence,
			"message": "internal server error",
		})
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("code", string(appErr.Kind)),
			slog.String("charge_id", appErr.ChargeID),
			slog.String("error", err.Error()),
		)
	}

	body := fiber.Map{
		"code":    appErr.Kind,
		"message": appErr.Message,
	}
	if appErr.ChargeID != "" {
		body["charge_id"] = appErr.ChargeID
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    models.KindValidation,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed reports each failed field the way the validator names it.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badBody(c, err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    models.KindValidation,
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// bind parses the body into dst and validates it, writing the error
// response itself. The returned bool reports whether dst is usable.
func bind(c *fiber.Ctx, v *validator.Validate, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badBody(c, err)
	}
	if err := v.Struct(dst); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}
