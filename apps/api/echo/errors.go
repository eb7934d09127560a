package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
)

const internalErrorMsg = "Internal server error"

var errMethodNotAllowed = echo.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")

// internalError is the catch-all 500 of the webhook: a generic message plus the caught one.
func internalError(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
		"error":   internalErrorMsg,
		"details": errors.Cause(err).Error(),
	}).SetInternal(err)
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Every error body is a JSON object with at least an "error" field.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == echo.ErrMethodNotAllowed {
				origErr = errMethodNotAllowed
			}
			code = origErr.Code
			message = origErr.Message
			if code >= http.StatusInternalServerError {
				logger.Error(http.StatusText(code), err, ctx.Request())
			}
		case validator.ValidationErrors:
			verr := core.TranslateValidationErrors(origErr, translator, "Invalid input").(*core.ValidationError)
			code = http.StatusBadRequest
			message = validationBody(verr)
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = validationBody(origErr)
		case *core.DependencyError:
			code = http.StatusInternalServerError
			message = origErr.Msg
			logger.Error(origErr.Msg, err, ctx.Request())
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = internalErrorMsg
			logger.Error(internalErrorMsg, err, ctx.Request())

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}
		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			if m, ok := message.(echo.Map); ok {
				if _, set := m["details"]; !set {
					m["details"] = err.Error()
				}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func validationBody(err *core.ValidationError) echo.Map {
	body := echo.Map{"error": err.Error()}
	if len(err.Fields) > 0 {
		body["issues"] = err.Fields
	}
	return body
}
