package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionHeader stamps every response with the console build version
func VersionHeader(version string) echo.MiddlewareFunc {
	if version == "" {
		version = "dev"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Console-Version", version)
			return next(c)
		}
	}
}
