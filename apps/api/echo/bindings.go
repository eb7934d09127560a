package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
)

// bindJSON decodes the request body into v whatever its Content-Type.
// A body that is not a JSON object fails with a *core.ValidationError carrying msg.
func bindJSON(ctx echo.Context, v interface{}, msg string) error {
	req := ctx.Request()
	if req.Body == nil || req.Body == http.NoBody {
		return core.NewValidationError(errors.New(msg), core.FieldError{Field: "body", Error: "body is required"})
	}

	err := ctx.Echo().JSONSerializer.Deserialize(ctx, v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fld := typeErr.Field
		return core.NewValidationError(
			errors.New(msg),
			core.FieldError{Field: fld, Error: fld + " must be a " + jsonTypeName(typeErr.Type.Kind().String())},
		)
	}
	return core.NewValidationError(errors.New(msg), core.FieldError{Field: "body", Error: "body must be a JSON object"})
}

func jsonTypeName(kind string) string {
	switch kind {
	case "struct", "map":
		return "object"
	case "slice", "array":
		return "list"
	case "float32", "float64", "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "number"
	case "bool":
		return "boolean"
	default:
		return kind
	}
}
