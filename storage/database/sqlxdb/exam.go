package sqlxdb

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
)

var examColumns = []string{
	"id", "title", "course", "instructions", "google_form_url", "status", "exam_date", "created_at", "updated_at",
}

type examRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Course       string      `db:"course"`
	Instructions null.String `db:"instructions"`
	FormURL      null.String `db:"google_form_url"`
	Status       string      `db:"status"`
	ExamDate     null.Time   `db:"exam_date"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (r examRow) unpack() exam.Exam {
	return exam.Exam{
		ID:           r.ID,
		Title:        r.Title,
		Course:       r.Course,
		Instructions: r.Instructions,
		FormURL:      r.FormURL,
		Status:       exam.NormalizeStatus(r.Status),
		ExamDate:     r.ExamDate,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type examRepository struct {
	exec core.DBExecutor
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(exec core.DBExecutor) exam.Repository {
	return &examRepository{exec: exec}
}

func (repo *examRepository) GetExamByID(ctx context.Context, id string) (exam.Exam, error) {
	q, args, err := psql.Select(examColumns...).From("exams").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return exam.Exam{}, errors.Wrap(err, "building exam query")
	}
	var row examRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return exam.Exam{}, trapNoRowsErr(err, exam.ErrNotFound, "selecting exam")
	}
	return row.unpack(), nil
}

func (repo *examRepository) CreateExam(ctx context.Context, ex exam.Exam) (exam.Exam, error) {
	q, args, err := psql.Insert("exams").
		Columns(examColumns...).
		Values(
			ex.ID, ex.Title, ex.Course, ex.Instructions, ex.FormURL, string(ex.Status), ex.ExamDate,
			ex.CreatedAt, ex.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(examColumns, ", ")).
		ToSql()
	if err != nil {
		return exam.Exam{}, errors.Wrap(err, "building exam insert")
	}
	var row examRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return exam.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return row.unpack(), nil
}

func (repo *examRepository) ListExams(ctx context.Context) ([]exam.Exam, error) {
	q, args, err := psql.Select(examColumns...).From("exams").OrderBy("exam_date DESC", "created_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building exams query")
	}
	var rows []examRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting exams")
	}
	exams := make([]exam.Exam, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, row.unpack())
	}
	return exams, nil
}
