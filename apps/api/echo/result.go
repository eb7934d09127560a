package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/result"
	"github.com/scwportal/backend/core/student"
)

const resultSavedMsg = "Result saved successfully"

type resultApi struct {
	service ResultService
	logger  core.Logger
}

func registerResultAPI(g *echo.Group, path string, svc ResultService, logger core.Logger) {
	api := resultApi{service: svc, logger: logger}

	g.OPTIONS(path, preflight)
	g.POST(path, api.ingest, recoverInternal)
}

func (api *resultApi) ingest(ctx echo.Context) error {
	var data result.Submission
	// invalid JSON is a 400, never the catch-all 500; a null body decodes to an empty submission and fails validation
	if err := bindJSON(ctx, &data, "Invalid JSON body"); err != nil {
		return err
	}
	data.Clean()
	api.logger.Info("result submission", map[string]interface{}{
		"exam_id":        data.ExamID,
		"student":        data.Identifier(),
		"marks_obtained": data.MarksObtained,
		"total_marks":    data.TotalMarks,
	})

	rcpt, err := api.service.Ingest(ctx.Request().Context(), data)
	if err != nil {
		return api.ingestError(err, data)
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      resultSavedMsg,
		"result_id":    rcpt.Result.ID,
		"student_name": rcpt.StudentName,
		"exam_title":   rcpt.ExamTitle,
		"percentage":   rcpt.Result.Percentage,
	})
}

func (api *resultApi) ingestError(err error, data result.Submission) error {
	switch origErr := errors.Cause(err).(type) {
	case *core.ValidationError:
		return origErr
	case *core.DependencyError:
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
			"error":   origErr.Msg,
			"details": origErr.Details(),
		}).SetInternal(err)
	}

	switch errors.Cause(err) {
	case student.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, echo.Map{
			"error":      "Student not found",
			"identifier": data.Identifier(),
		})
	case exam.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, echo.Map{
			"error":   "Exam not found",
			"exam_id": data.ExamID,
		})
	}
	return internalError(err)
}

func registerResultQueryAPI(g *echo.Group, path string, svc ResultService) {
	g.GET(path, func(ctx echo.Context) error {
		entries, err := svc.List(ctx.Request().Context(), ctx.QueryParam("student_id"))
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, entries)
	})
}

func preflight(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}
