package result_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	. "github.com/scwportal/backend/core/result"
	"github.com/scwportal/backend/core/student"
	inmemdb "github.com/scwportal/backend/storage/database/inmem"
	"github.com/scwportal/backend/tests"
)

type studentFinder struct {
	repo student.Repository
	err  error
}

func (f studentFinder) Get(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	if f.err != nil {
		return student.Student{}, f.err
	}
	return f.repo.GetStudent(ctx, filter)
}

type examFinder struct {
	repo exam.Repository
}

func (f examFinder) GetByID(ctx context.Context, id string) (exam.Exam, error) {
	return f.repo.GetExamByID(ctx, id)
}

// racingRepository inserts a competing result right before the first insert, as a concurrent request would.
type racingRepository struct {
	Repository
	once sync.Once
}

func (repo *racingRepository) CreateResult(ctx context.Context, res Result) (Result, error) {
	repo.once.Do(func() {
		competing := res
		competing.ID = "competing"
		competing.MarksObtained = 1
		_, _ = repo.Repository.CreateResult(ctx, competing)
	})
	return repo.Repository.CreateResult(ctx, res)
}

type fixture struct {
	db  *inmemdb.DB
	svc *Service
	stu student.Student
	ex  exam.Exam
}

func setup(t *testing.T, policy MarksPolicy, wrap ...func(Repository) Repository) fixture {
	db := inmemdb.Open()
	stuRepo := inmemdb.NewStudentRepository(db)
	examRepo := inmemdb.NewExamRepository(db)
	resRepo := inmemdb.NewResultRepository(db)
	for _, w := range wrap {
		resRepo = w(resRepo)
	}

	return fixture{
		db:  db,
		svc: NewService(resRepo, studentFinder{repo: stuRepo}, examFinder{repo: examRepo}, policy),
		stu: testutil.CreateStudent(t, stuRepo, "s1", "Asha", "asha@example.com", "SCW001"),
		ex:  testutil.CreateExam(t, examRepo, "E1", "HTML Basics", exam.StatusActive),
	}
}

func submission(examID, rollNo string, obtained, total float64) Submission {
	return Submission{
		ExamID:        examID,
		StudentRollNo: rollNo,
		MarksObtained: NewMarks(obtained),
		TotalMarks:    NewMarks(total),
	}
}

func TestService_Ingest(t *testing.T) {
	f := setup(t, PolicyLenient)
	ctx := context.Background()

	first, err := f.svc.Ingest(ctx, submission("E1", "SCW001", 42, 50))
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, 84, first.Result.Percentage)
	assert.Equal(t, "Asha", first.StudentName)
	assert.Equal(t, "HTML Basics", first.ExamTitle)

	second, err := f.svc.Ingest(ctx, submission(" E1 ", " SCW001 ", 45, 50))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Result.ID, second.Result.ID)
	assert.Equal(t, first.Result.CreatedAt, second.Result.CreatedAt)
	assert.Equal(t, 90, second.Result.Percentage)

	results := f.db.QueryResults(f.stu.ID, f.ex.ID)
	require.Len(t, results, 1)
	assert.Equal(t, 45, results[0].MarksObtained)

	// replaying the exact same submission changes nothing
	third, err := f.svc.Ingest(ctx, submission("E1", "SCW001", 45, 50))
	require.NoError(t, err)
	assert.Equal(t, second.Result, third.Result)
	assert.Len(t, f.db.QueryResults(f.stu.ID, f.ex.ID), 1)
}

func TestService_Ingest_truncatesMarks(t *testing.T) {
	f := setup(t, PolicyLenient)

	rcpt, err := f.svc.Ingest(context.Background(), submission("E1", "SCW001", 42.5, 50))
	require.NoError(t, err)
	assert.Equal(t, 42, rcpt.Result.MarksObtained)
	assert.Equal(t, 85, rcpt.Result.Percentage, "percentage uses the submitted marks")
}

func TestService_Ingest_concurrentInsert(t *testing.T) {
	f := setup(t, PolicyLenient, func(repo Repository) Repository {
		return &racingRepository{Repository: repo}
	})

	rcpt, err := f.svc.Ingest(context.Background(), submission("E1", "SCW001", 42, 50))
	require.NoError(t, err)
	assert.False(t, rcpt.Created)
	assert.Equal(t, "competing", rcpt.Result.ID)

	results := f.db.QueryResults(f.stu.ID, f.ex.ID)
	require.Len(t, results, 1)
	assert.Equal(t, 42, results[0].MarksObtained)
}

func TestService_Ingest_errors(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		name      string
		sub       Submission
		policy    MarksPolicy
		lookupErr error
		check     func(t *testing.T, err error)
	}{
		{
			name: "invalid", sub: Submission{ExamID: "E1"},
			check: func(t *testing.T, err error) {
				_, ok := errors.Cause(err).(*core.ValidationError)
				assert.True(t, ok, "got %T", err)
			},
		},
		{
			name: "strict policy", sub: submission("E1", "SCW001", 60, 50), policy: PolicyStrict,
			check: func(t *testing.T, err error) {
				_, ok := errors.Cause(err).(*core.ValidationError)
				assert.True(t, ok, "got %T", err)
			},
		},
		{
			name: "unknown student", sub: submission("E1", "SCW999", 1, 2),
			check: func(t *testing.T, err error) { assert.Equal(t, student.ErrNotFound, errors.Cause(err)) },
		},
		{
			name: "student lookup failure", sub: submission("E1", "SCW001", 1, 2), lookupErr: dbErr,
			check: func(t *testing.T, err error) {
				var depErr *core.DependencyError
				if assert.True(t, errors.As(err, &depErr)) {
					assert.Equal(t, "Failed to find student", depErr.Msg)
					assert.Equal(t, "connection refused", depErr.Details())
				}
			},
		},
		{
			name: "unknown exam", sub: submission("E9", "SCW001", 1, 2),
			check: func(t *testing.T, err error) { assert.Equal(t, exam.ErrNotFound, errors.Cause(err)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := tt.policy
			if policy == "" {
				policy = PolicyLenient
			}
			f := setup(t, policy)
			svc := f.svc
			if tt.lookupErr != nil {
				svc = NewService(
					inmemdb.NewResultRepository(f.db),
					studentFinder{err: tt.lookupErr},
					examFinder{repo: inmemdb.NewExamRepository(f.db)},
					policy,
				)
			}

			_, err := svc.Ingest(context.Background(), tt.sub)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, f.db.QueryResults(f.stu.ID, f.ex.ID), "nothing must be written")
		})
	}
}

type failingListRepository struct {
	Repository
}

func (failingListRepository) ListResults(context.Context, string) ([]Entry, error) {
	return nil, errors.New("connection refused")
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := setup(t, PolicyLenient)

	rcpt, err := f.svc.Ingest(ctx, submission(f.ex.ID, f.stu.RollNo, 42, 50))
	require.NoError(t, err)

	entries, err := f.svc.List(ctx, " "+f.stu.ID+" ")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rcpt.Result.ID, entries[0].ID)
	assert.Equal(t, &ExamSummary{Title: "HTML Basics", Course: "Web Development"}, entries[0].Exam)
	assert.Equal(t, &StudentSummary{Name: "Asha", RollNo: "SCW001"}, entries[0].Student)

	entries, err = f.svc.List(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, entries)

	broken := setup(t, PolicyLenient, func(repo Repository) Repository { return failingListRepository{repo} })
	_, err = broken.svc.List(ctx, "")
	var derr *core.DependencyError
	require.True(t, errors.As(err, &derr), "got %T: %v", err, err)
	assert.Equal(t, "Failed to list results", derr.Msg)
}
