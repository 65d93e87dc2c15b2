package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const apiKeyHeader = "X-API-Key"

// APIKey returns Echo middleware that guards routes with a shared key in the
// X-API-Key header. An empty configured key disables the guard, which fits
// development setups; production deployments set api.key in the config.
func APIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key == "" {
				return next(c)
			}

			got := c.Request().Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid or missing api key",
				})
			}

			return next(c)
		}
	}
}
