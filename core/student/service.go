package student

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
)

const maxRollNoAttempts = 3

var (
	// errors
	ErrNotFound              = errors.New("student not found")
	ErrEmailExists           = errors.New("Email already registered")
	ErrRollNoExists          = errors.New("roll number already taken")
	ErrInvalidAccessPassword = errors.New("Invalid access password")
)

type (
	Repository interface {
		// GetStudent returns ErrNotFound when nothing matches filter.
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		// CreateStudent returns ErrEmailExists or ErrRollNoExists on unique violations.
		CreateStudent(ctx context.Context, stu Student) (Student, error)
	}

	// AccessChecker verifies the shared access password; see setting.Service.
	AccessChecker interface {
		CheckAccessPassword(ctx context.Context, pwd string) (bool, error)
	}

	Service struct {
		repo         Repository
		access       AccessChecker
		validate     *validator.Validate
		translator   ut.Translator
		rollNoPrefix string
	}
)

func NewService(
	repo Repository,
	access AccessChecker,
	validate *validator.Validate,
	translator ut.Translator,
	rollNoPrefix string,
) *Service {
	return &Service{
		repo:         repo,
		access:       access,
		validate:     validate,
		translator:   translator,
		rollNoPrefix: rollNoPrefix,
	}
}

func (svc *Service) Get(ctx context.Context, filter GetFilter) (Student, error) {
	if filter.IsEmpty() {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudent(ctx, filter)
}

// Register creates a new active Student after checking the shared access password
// and the email uniqueness. It is not idempotent: registering an email twice fails with ErrEmailExists.
func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, core.TranslateValidationErrors(err, svc.translator, "Invalid input")
	}

	ok, err := svc.access.CheckAccessPassword(ctx, ns.AccessPassword)
	if err != nil {
		return Student{}, err
	}
	if !ok {
		return Student{}, ErrInvalidAccessPassword
	}

	if _, err = svc.repo.GetStudent(ctx, GetFilter{Email: ns.Email}); err == nil {
		return Student{}, ErrEmailExists
	} else if errors.Cause(err) != ErrNotFound {
		return Student{}, core.NewDependencyError("Failed to check existing student", err)
	}

	now := time.Now().UTC()
	stu := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		Course:    ns.Course,
		Phone:     null.StringFromPtr(ns.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// the unique constraints on email and roll_no are the real guards; the lookup above only
	// gives a friendly error in the common case.
	for attempt := 1; ; attempt++ {
		stu.ID = uuid.New().String()
		stu.RollNo = NewRollNo(svc.rollNoPrefix)

		created, err := svc.repo.CreateStudent(ctx, stu)
		if err == nil {
			return created, nil
		}
		switch errors.Cause(err) {
		case ErrEmailExists:
			return Student{}, ErrEmailExists
		case ErrRollNoExists:
			if attempt < maxRollNoAttempts {
				continue
			}
		}
		return Student{}, core.NewDependencyError(errors.Cause(err).Error(), err)
	}
}
