package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerExamAPI(g *echo.Group, path string, svc ExamService) {
	g.GET(path, func(ctx echo.Context) error {
		exams, err := svc.List(ctx.Request().Context())
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, exams)
	})
}
