package sqlxdb

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/student"
)

var studentColumns = []string{
	"id", "name", "email", "course", "phone", "roll_no", "semester",
	"access_password", "is_active", "created_at", "updated_at",
}

type studentRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	Email          string      `db:"email"`
	Course         string      `db:"course"`
	Phone          null.String `db:"phone"`
	RollNo         string      `db:"roll_no"`
	Semester       null.String `db:"semester"`
	AccessPassword null.String `db:"access_password"`
	IsActive       bool        `db:"is_active"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r studentRow) unpack() student.Student {
	return student.Student{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Course:         r.Course,
		Phone:          r.Phone,
		RollNo:         r.RollNo,
		Semester:       r.Semester,
		AccessPassword: r.AccessPassword,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) student.Repository {
	return &studentRepository{exec: exec}
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	var where sq.Eq
	switch {
	case filter.ID != "":
		where = sq.Eq{"id": filter.ID}
	case filter.Email != "":
		where = sq.Eq{"email": filter.Email}
	case filter.RollNo != "":
		where = sq.Eq{"roll_no": filter.RollNo}
	default:
		return student.Student{}, student.ErrNotFound
	}

	q, args, err := psql.Select(studentColumns...).From("students").Where(where).Limit(1).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student query")
	}
	var row studentRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "selecting student")
	}
	return row.unpack(), nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	q, args, err := psql.Insert("students").
		Columns(studentColumns...).
		Values(
			stu.ID, stu.Name, stu.Email, stu.Course, stu.Phone, stu.RollNo, stu.Semester,
			stu.AccessPassword, stu.IsActive, stu.CreatedAt, stu.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student insert")
	}

	var row studentRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			switch constraint {
			case studentsEmailKey:
				return student.Student{}, student.ErrEmailExists
			case studentsRollNoKey:
				return student.Student{}, student.ErrRollNoExists
			}
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return row.unpack(), nil
}
