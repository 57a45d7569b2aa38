package echoapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
)

var errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: missing or invalid token")

// tokenAuthMiddleware compares the raw Authorization header against the
// configured course token. No scheme parsing; the whole header value must
// match exactly.
func tokenAuthMiddleware(conf *core.Config) echo.MiddlewareFunc {
	token := []byte(conf.AuthToken)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || subtle.ConstantTimeCompare([]byte(header), token) != 1 {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}
