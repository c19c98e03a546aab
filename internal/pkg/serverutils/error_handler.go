package serverutils

import (
	"errors"

	"ai-coding-assistant-be/internal/constant"
	"ai-coding-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders any error returned down the chain as the
// error envelope. *fiber.Error keeps its status and message; anything else is
// logged and answered with a generic 500 so store or driver text never leaks.
// log may be nil.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		if log != nil {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		code := fiber.StatusInternalServerError
		return ctx.Status(code).JSON(ErrorResponse(code, constant.ErrMsgInternal))
	}
}
