package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/student"
)

type studentApi struct {
	service StudentService
	logger  core.Logger
}

func registerStudentAPI(g *echo.Group, path string, svc StudentService, logger core.Logger) {
	api := studentApi{service: svc, logger: logger}

	g.OPTIONS(path, func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "ok")
	})
	g.POST(path, api.register)
}

func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	// invalid JSON is a 400, never the catch-all 500; a null body decodes to an empty student and fails validation
	if err := bindJSON(ctx, &data, "Invalid input"); err != nil {
		return err
	}

	stu, err := api.service.Register(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case student.ErrInvalidAccessPassword:
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case student.ErrEmailExists:
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return err
	}

	api.logger.Info("student registered", map[string]interface{}{"id": stu.ID, "roll_no": stu.RollNo})
	return ctx.JSON(http.StatusOK, echo.Map{"student": stu})
}
