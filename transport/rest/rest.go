package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Locals set by the request authorizer for downstream handlers.
const (
	sessionLocalsKey = "session"
	userLocalsKey    = "user"
)

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func RequestLog(ctx *fiber.Ctx) *logrus.Entry {
	headers := &ctx.Request().Header
	return logrus.WithFields(logrus.Fields{
		"remote_addr":      ctx.Context().RemoteAddr(),
		"path":             ctx.Path(),
		"z_referer":        string(headers.Peek("Referer")),
		"z_user_agent":     string(headers.Peek("User-Agent")),
		"z_x_forwared_for": string(headers.Peek("X-Forwarded-For")),
	})
}

// ErrorHandler renders fiber errors as-is. Anything else is logged and
// masked, internal failure details never reach the client.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(&ErrorResponse{ErrorMessage: fe.Message})
	}
	RequestLog(ctx).WithError(err).Errorln("Internal server error.")
	return ctx.
		Status(fiber.ErrInternalServerError.Code).
		JSON(&ErrorResponse{ErrorMessage: fiber.ErrInternalServerError.Message})
}

func NotFoundHandler(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound)
}

func LogHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		RequestLog(ctx).Infoln("Handling request.")
		return ctx.Next()
	}
}

func combineHandlers(handlers ...fiber.Handler) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		for _, handler := range handlers {
			if err := handler(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
