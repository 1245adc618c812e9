package http

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/visage-campus/visage-backend/internal/config"
	"github.com/visage-campus/visage-backend/internal/observability"
	apperrors "github.com/visage-campus/visage-backend/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger sits outside the error middleware so it sees the rendered status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, cfg config.AppConfig) {
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + observability.RequestIDHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestID(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toHTTPError(err)
				metrics.RecordError(routeOf(c), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
					logger.Error("request failed",
						zap.String("request_id", observability.RequestID(c)),
						zap.String("code", domainErr.Code),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				err = c.JSON(errorBody(domainErr))
			}
		}()
		return c.Next()
	}
}

// toHTTPError maps framework errors by status and everything else through the domain table.
func toHTTPError(err error) *apperrors.DomainError {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message := fe.Message
		if fe.Code == fiber.StatusNotFound {
			message = "Route not found"
		}
		code := strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_"))
		if code == "" {
			code = "HTTP_ERROR"
		}
		return apperrors.NewDomainError(code, message, fe.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func errorBody(de *apperrors.DomainError) fiber.Map {
	body := fiber.Map{
		"success": false,
		"error":   de.Message,
		"code":    de.Code,
	}
	if len(de.Details) > 0 {
		body["details"] = de.Details
	}
	return body
}

func routeOf(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return c.Path()
}
