package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"task-manager/internal/apperror"
	"task-manager/pkg/logger"
)

// RequestLogger recovers panics, renders errors through the app's error
// handler and writes one access log line per request. Responses with status
// 400 and above go to the error logger together with the error message.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				err = apperror.Unexpected(fmt.Errorf("recovered from panic: %v", r))
			}
			// Render here so the logged status is the one the client sees.
			var message string
			if err != nil {
				message = err.Error()
				if herr := c.App().ErrorHandler(c, err); herr != nil {
					_ = c.SendStatus(fiber.StatusInternalServerError)
				}
				err = nil
			}

			status := c.Response().StatusCode()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			if status >= fiber.StatusBadRequest {
				logger.ErrorLogger.Error("Request failed", append(fields, zap.String("message", message))...)
				return
			}
			logger.RequestLogger.Info("Request handled", fields...)
		}()

		return c.Next()
	}
}

// ErrorHandler is the app-wide fiber error handler. Every error body is
// {status, message}; status is "fail" for 4xx and "error" for 5xx.
// Unexpected errors hide their detail unless verbose is set.
func ErrorHandler(verbose bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			appErr   *apperror.Error
			fiberErr *fiber.Error
		)
		switch {
		case errors.As(err, &appErr) && appErr.Kind != apperror.KindUnexpected:
			return c.Status(appErr.Status()).JSON(fiber.Map{
				"status":  "fail",
				"message": appErr.Message,
			})
		case errors.As(err, &fiberErr):
			status := "fail"
			if fiberErr.Code >= fiber.StatusInternalServerError {
				status = "error"
			}
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"status":  status,
				"message": fiberErr.Message,
			})
		}

		logger.ErrorLogger.Error("Unhandled error",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.String("stack", apperror.Stack(err)),
			zap.Error(err),
		)

		body := fiber.Map{
			"status":  "error",
			"message": "Something went wrong!",
		}
		if verbose {
			body["message"] = err.Error()
			body["error"] = fmt.Sprintf("%T", err)
			body["stack"] = apperror.Stack(err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
