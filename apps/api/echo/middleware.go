package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// corsMiddleware lets browsers call the API from any origin.
// Preflight requests are answered by the routes themselves with a 200.
func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		h := ctx.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
		return next(ctx)
	}
}

// recoverInternal turns a panic in a handler into the webhook's catch-all 500.
func recoverInternal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if r == http.ErrAbortHandler {
					panic(r)
				}
				e, ok := r.(error)
				if !ok {
					e = fmt.Errorf("%v", r)
				}
				err = internalError(e)
			}
		}()
		return next(ctx)
	}
}
