package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// roleMiddleware only lets listed roles through.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// writeMiddleware blocks read-only scopes (parents) from mutating endpoints.
func writeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			scope, err := getContextScope(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context scope")
			}
			if !scope.CanWrite() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
