package serverutils

import (
	"errors"

	"td-generator-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders errors returned by handlers as the JSON
// envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	status := apperror.HTTPStatus(err)

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Kind == apperror.KindBackend && appErr.Err != nil {
			msg = appErr.Message + ": " + appErr.Err.Error()
		}
		return ctx.Status(status).JSON(ErrorResponse(status, msg, appErr.Fields...))
	}

	if status == fiber.StatusInternalServerError {
		return ctx.Status(status).JSON(ErrorResponse(status, "internal server error"))
	}
	return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
}
