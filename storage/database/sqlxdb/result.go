package sqlxdb

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/result"
)

var resultColumns = []string{
	"id", "student_id", "exam_id", "marks_obtained", "total_marks", "percentage", "grade", "remarks", "created_at",
}

type resultRow struct {
	ID            string      `db:"id"`
	StudentID     string      `db:"student_id"`
	ExamID        string      `db:"exam_id"`
	MarksObtained int         `db:"marks_obtained"`
	TotalMarks    int         `db:"total_marks"`
	Percentage    null.Int    `db:"percentage"`
	Grade         null.String `db:"grade"`
	Remarks       null.String `db:"remarks"`
	CreatedAt     time.Time   `db:"created_at"`
}

func (r resultRow) unpack() result.Result {
	return result.Result{
		ID:            r.ID,
		StudentID:     r.StudentID,
		ExamID:        r.ExamID,
		MarksObtained: r.MarksObtained,
		TotalMarks:    r.TotalMarks,
		Percentage:    r.Percentage.Int,
		Grade:         r.Grade,
		Remarks:       r.Remarks,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

// resultEntryRow is a resultRow joined with its exam and student; both joins are LEFT.
type resultEntryRow struct {
	resultRow
	ExamTitle     null.String `db:"exam_title"`
	ExamCourse    null.String `db:"exam_course"`
	StudentName   null.String `db:"student_name"`
	StudentRollNo null.String `db:"student_roll_no"`
}

func (r resultEntryRow) unpack() result.Entry {
	entry := result.Entry{Result: r.resultRow.unpack()}
	if r.ExamTitle.Valid {
		entry.Exam = &result.ExamSummary{Title: r.ExamTitle.String, Course: r.ExamCourse.String}
	}
	if r.StudentName.Valid {
		entry.Student = &result.StudentSummary{Name: r.StudentName.String, RollNo: r.StudentRollNo.String}
	}
	return entry
}

type resultRepository struct {
	exec core.DBExecutor
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(exec core.DBExecutor) result.Repository {
	return &resultRepository{exec: exec}
}

func (repo *resultRepository) GetResult(ctx context.Context, studentID, examID string) (result.Result, error) {
	q, args, err := psql.Select(resultColumns...).
		From("results").
		Where(sq.Eq{"student_id": studentID, "exam_id": examID}).
		ToSql()
	if err != nil {
		return result.Result{}, errors.Wrap(err, "building result query")
	}
	var row resultRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return result.Result{}, trapNoRowsErr(err, result.ErrNotFound, "selecting result")
	}
	return row.unpack(), nil
}

func (repo *resultRepository) CreateResult(ctx context.Context, res result.Result) (result.Result, error) {
	q, args, err := psql.Insert("results").
		Columns(resultColumns...).
		Values(
			res.ID, res.StudentID, res.ExamID, res.MarksObtained, res.TotalMarks, res.Percentage,
			res.Grade, res.Remarks, res.CreatedAt,
		).
		Suffix("RETURNING " + strings.Join(resultColumns, ", ")).
		ToSql()
	if err != nil {
		return result.Result{}, errors.Wrap(err, "building result insert")
	}
	var row resultRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == resultsStudentExamKey {
			return result.Result{}, result.ErrResultExists
		}
		return result.Result{}, errors.Wrap(err, "inserting result")
	}
	return row.unpack(), nil
}

func (repo *resultRepository) UpdateResult(ctx context.Context, res result.Result) (result.Result, error) {
	q, args, err := psql.Update("results").
		SetMap(map[string]interface{}{
			"marks_obtained": res.MarksObtained,
			"total_marks":    res.TotalMarks,
			"percentage":     res.Percentage,
			"grade":          res.Grade,
			"remarks":        res.Remarks,
		}).
		Where(sq.Eq{"id": res.ID}).
		Suffix("RETURNING " + strings.Join(resultColumns, ", ")).
		ToSql()
	if err != nil {
		return result.Result{}, errors.Wrap(err, "building result update")
	}
	var row resultRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return result.Result{}, trapNoRowsErr(err, result.ErrNotFound, "updating result")
	}
	return row.unpack(), nil
}

func (repo *resultRepository) ListResults(ctx context.Context, studentID string) ([]result.Entry, error) {
	columns := make([]string, 0, len(resultColumns)+4)
	for _, col := range resultColumns {
		columns = append(columns, "r."+col)
	}
	columns = append(columns,
		"e.title AS exam_title", "e.course AS exam_course", "s.name AS student_name", "s.roll_no AS student_roll_no",
	)

	query := psql.Select(columns...).
		From("results r").
		LeftJoin("exams e ON e.id = r.exam_id").
		LeftJoin("students s ON s.id = r.student_id").
		OrderBy("r.created_at DESC")
	if studentID != "" {
		// student ids are uuids: anything else matches nothing
		if _, err := uuid.Parse(studentID); err != nil {
			return []result.Entry{}, nil
		}
		query = query.Where(sq.Eq{"r.student_id": studentID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building results query")
	}
	var rows []resultEntryRow
	if err = repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting results")
	}
	entries := make([]result.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.unpack())
	}
	return entries, nil
}
