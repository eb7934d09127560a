package result

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/student"
)

var (
	// errors
	ErrNotFound     = errors.New("result not found")
	ErrResultExists = errors.New("a result already exists for this student and exam")
)

type (
	Repository interface {
		// GetResult finds the Result of a student for an exam; ErrNotFound if none.
		GetResult(ctx context.Context, studentID, examID string) (Result, error)
		// CreateResult returns ErrResultExists when (student_id, exam_id) is taken.
		CreateResult(ctx context.Context, res Result) (Result, error)
		// UpdateResult overwrites the marks, percentage, grade and remarks of res.ID.
		UpdateResult(ctx context.Context, res Result) (Result, error)
		// ListResults returns the results of studentID (every student's when empty), newest first.
		ListResults(ctx context.Context, studentID string) ([]Entry, error)
	}

	StudentFinder interface {
		Get(ctx context.Context, filter student.GetFilter) (student.Student, error)
	}

	ExamFinder interface {
		GetByID(ctx context.Context, id string) (exam.Exam, error)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		exams    ExamFinder
		policy   MarksPolicy
	}
)

func NewService(repo Repository, students StudentFinder, exams ExamFinder, policy MarksPolicy) *Service {
	return &Service{
		repo:     repo,
		students: students,
		exams:    exams,
		policy:   policy,
	}
}

// List returns the results of a student, newest first; all results when studentID is empty.
func (svc *Service) List(ctx context.Context, studentID string) ([]Entry, error) {
	entries, err := svc.repo.ListResults(ctx, core.CleanString(studentID))
	if err != nil {
		return nil, core.NewDependencyError("Failed to list results", err)
	}
	return entries, nil
}

// Ingest saves a Submission as the one Result of its (student, exam) pair.
// Sending the same Submission again overwrites that Result instead of adding another.
func (svc *Service) Ingest(ctx context.Context, sub Submission) (Receipt, error) {
	sub.Clean()
	if err := sub.Validate(svc.policy); err != nil {
		return Receipt{}, err
	}

	filter := student.GetFilter{Email: sub.StudentEmail}
	if filter.Email == "" {
		filter.RollNo = sub.StudentRollNo
	}
	stu, err := svc.students.Get(ctx, filter)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Receipt{}, errors.Wrapf(err, "finding student %q", sub.Identifier())
		}
		return Receipt{}, core.NewDependencyError("Failed to find student", err)
	}

	ex, err := svc.exams.GetByID(ctx, sub.ExamID)
	if err != nil {
		// lookup failures (eg. malformed ids) are reported as a missing exam
		return Receipt{}, errors.Wrapf(exam.ErrNotFound, "finding exam %q: %v", sub.ExamID, err)
	}

	res := Result{
		StudentID:     stu.ID,
		ExamID:        ex.ID,
		MarksObtained: sub.MarksObtained.Int(),
		TotalMarks:    sub.TotalMarks.Int(),
		Percentage:    sub.Percentage(),
		Grade:         null.NewString(sub.Grade, sub.Grade != ""),
		Remarks:       null.NewString(sub.Remarks, sub.Remarks != ""),
	}
	saved, created, err := svc.upsert(ctx, res)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "saving result")
	}

	return Receipt{
		Result:      saved,
		Created:     created,
		StudentName: stu.Name,
		ExamTitle:   ex.Title,
	}, nil
}

// upsert updates the existing Result of res' (student, exam) pair or inserts a new one.
func (svc *Service) upsert(ctx context.Context, res Result) (Result, bool, error) {
	existing, err := svc.repo.GetResult(ctx, res.StudentID, res.ExamID)
	switch {
	case err == nil:
		updated, err := svc.overwrite(ctx, existing, res)
		return updated, false, err
	case errors.Cause(err) != ErrNotFound:
		return Result{}, false, errors.Wrap(err, "finding existing result")
	}

	res.ID = uuid.New().String()
	res.CreatedAt = time.Now().UTC()
	created, err := svc.repo.CreateResult(ctx, res)
	if err == nil {
		return created, true, nil
	}
	if errors.Cause(err) != ErrResultExists {
		return Result{}, false, errors.Wrap(err, "inserting result")
	}

	// a concurrent ingestion inserted the row first: overwrite theirs
	existing, err = svc.repo.GetResult(ctx, res.StudentID, res.ExamID)
	if err != nil {
		return Result{}, false, errors.Wrap(err, "finding concurrent result")
	}
	updated, err := svc.overwrite(ctx, existing, res)
	return updated, false, err
}

func (svc *Service) overwrite(ctx context.Context, existing, res Result) (Result, error) {
	res.ID = existing.ID
	res.CreatedAt = existing.CreatedAt
	updated, err := svc.repo.UpdateResult(ctx, res)
	if err != nil {
		return Result{}, errors.Wrap(err, "updating result")
	}
	return updated, nil
}
