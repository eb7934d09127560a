package student_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/setting"
	. "github.com/scwportal/backend/core/student"
	inmemdb "github.com/scwportal/backend/storage/database/inmem"
	"github.com/scwportal/backend/tests"
)

var rollNoRe = regexp.MustCompile(`^SCW[0-9A-F]{6}$`)

// failingRepository lets each call fail with a given error; nil falls through to Repository.
type failingRepository struct {
	Repository
	getErr    error
	createErr []error // consumed one per call
	creates   int
}

func (repo *failingRepository) GetStudent(ctx context.Context, filter GetFilter) (Student, error) {
	if repo.getErr != nil {
		return Student{}, repo.getErr
	}
	return repo.Repository.GetStudent(ctx, filter)
}

func (repo *failingRepository) CreateStudent(ctx context.Context, stu Student) (Student, error) {
	repo.creates++
	if len(repo.createErr) > 0 {
		err := repo.createErr[0]
		repo.createErr = repo.createErr[1:]
		if err != nil {
			return Student{}, err
		}
	}
	return repo.Repository.CreateStudent(ctx, stu)
}

type accessChecker struct {
	err error
}

func (c accessChecker) CheckAccessPassword(context.Context, string) (bool, error) {
	return false, c.err
}

func newService(repo Repository, access AccessChecker) *Service {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return NewService(repo, access, validate, translator, "SCW")
}

func newStudent(email, pwd string) NewStudent {
	phone := " 0700 000 000 "
	return NewStudent{
		Name:           " Ravi Kumar ",
		Email:          email,
		Course:         "Web Development",
		Phone:          &phone,
		AccessPassword: pwd,
	}
}

func TestNewRollNo(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		rollNo := NewRollNo("SCW")
		assert.Regexp(t, rollNoRe, rollNo)
		seen[rollNo] = true
	}
	assert.Greater(t, len(seen), 90)
}

func TestService_Register(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewStudentRepository(db)
	settingRepo := inmemdb.NewSettingRepository(db)
	svc := newService(repo, setting.NewService(settingRepo, "123456"))
	ctx := context.Background()

	stu, err := svc.Register(ctx, newStudent("ravi@example.com", " 123456 "))
	require.NoError(t, err)
	assert.NotEmpty(t, stu.ID)
	assert.Equal(t, "Ravi Kumar", stu.Name)
	assert.Equal(t, "ravi@example.com", stu.Email)
	assert.Equal(t, "0700 000 000", stu.Phone.String)
	assert.True(t, stu.IsActive)
	assert.Regexp(t, rollNoRe, stu.RollNo)
	assert.False(t, stu.AccessPassword.Valid)
	assert.Equal(t, time.UTC, stu.CreatedAt.Location())

	found, err := svc.Get(ctx, GetFilter{RollNo: stu.RollNo})
	require.NoError(t, err)
	assert.Equal(t, stu.ID, found.ID)

	tests := []struct {
		name    string
		ns      NewStudent
		wantErr error
	}{
		{name: "email taken", ns: newStudent("ravi@example.com", "123456"), wantErr: ErrEmailExists},
		{name: "wrong password", ns: newStudent("other@example.com", "654321"), wantErr: ErrInvalidAccessPassword},
		{name: "password checked before email", ns: newStudent("ravi@example.com", "lol"), wantErr: ErrInvalidAccessPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.ns)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
		})
	}
	assert.Equal(t, 1, db.CountStudents())

	// emails are matched exactly
	_, err = svc.Register(ctx, newStudent("Ravi@Example.com", "123456"))
	assert.NoError(t, err)
	assert.Equal(t, 2, db.CountStudents())
}

func TestService_Register_invalid(t *testing.T) {
	db := inmemdb.Open()
	svc := newService(inmemdb.NewStudentRepository(db), accessChecker{})

	_, err := svc.Register(context.Background(), NewStudent{Name: "R", Email: "lol"})
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr), "got %T", err)
	assert.Equal(t, "Invalid input", verr.Error())

	msgs := make(map[string]string)
	for _, fld := range verr.Fields {
		msgs[fld.Field] = fld.Error
	}
	assert.Equal(t, map[string]string{
		"name":           "name must be at least 2 characters in length",
		"email":          "email must be a valid email address",
		"course":         "course is required",
		"accessPassword": "accessPassword is required",
	}, msgs)
	assert.Equal(t, 0, db.CountStudents())
}

func TestService_Register_dependencyErrors(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		name    string
		repo    *failingRepository
		access  AccessChecker
		wantMsg string
	}{
		{
			name:    "settings unavailable",
			repo:    &failingRepository{},
			access:  accessChecker{err: core.NewDependencyError("Failed to read settings", dbErr)},
			wantMsg: "Failed to read settings",
		},
		{
			name:    "email check failure",
			repo:    &failingRepository{getErr: dbErr},
			wantMsg: "Failed to check existing student",
		},
		{
			name:    "insert failure",
			repo:    &failingRepository{createErr: []error{dbErr}},
			wantMsg: "connection refused",
		},
		{
			name:    "roll numbers exhausted",
			repo:    &failingRepository{createErr: []error{ErrRollNoExists, ErrRollNoExists, ErrRollNoExists}},
			wantMsg: ErrRollNoExists.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := inmemdb.Open()
			tt.repo.Repository = inmemdb.NewStudentRepository(db)
			access := tt.access
			if access == nil {
				access = setting.NewService(inmemdb.NewSettingRepository(db), "123456")
			}

			_, err := newService(tt.repo, access).Register(context.Background(), newStudent("ravi@example.com", "123456"))
			var depErr *core.DependencyError
			require.True(t, errors.As(err, &depErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantMsg, depErr.Msg)
			assert.Equal(t, 0, db.CountStudents())
		})
	}
}

func TestService_Register_rollNoCollision(t *testing.T) {
	db := inmemdb.Open()
	repo := &failingRepository{
		Repository: inmemdb.NewStudentRepository(db),
		createErr:  []error{ErrRollNoExists, ErrRollNoExists},
	}
	svc := newService(repo, setting.NewService(inmemdb.NewSettingRepository(db), "123456"))

	_, err := svc.Register(context.Background(), newStudent("ravi@example.com", "123456"))
	require.NoError(t, err)
	assert.Equal(t, 3, repo.creates)
	assert.Equal(t, 1, db.CountStudents())
}

func TestService_Register_existingRollNo(t *testing.T) {
	db := inmemdb.Open()
	repo := inmemdb.NewStudentRepository(db)
	testutil.CreateStudent(t, repo, "s1", "Asha", "asha@example.com", "SCW001")
	svc := newService(repo, setting.NewService(inmemdb.NewSettingRepository(db), "123456"))

	stu, err := svc.Register(context.Background(), newStudent("ravi@example.com", "123456"))
	require.NoError(t, err)
	assert.NotEqual(t, "SCW001", stu.RollNo)
}
