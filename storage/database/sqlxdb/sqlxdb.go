// Package sqlxdb implements the core repositories on PostgreSQL with sqlx;
// queries are built with squirrel.
package sqlxdb

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const uniqueViolation pq.ErrorCode = "23505"

// constraint names declared in migrations
const (
	studentsEmailKey      = "students_email_key"
	studentsRollNoKey     = "students_roll_no_key"
	resultsStudentExamKey = "results_student_id_exam_id_key"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// uniqueConstraint returns the name of the unique constraint err violates, if any.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
