package exam

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

var ErrNotFound = errors.New("exam not found")

type (
	Repository interface {
		GetExamByID(ctx context.Context, id string) (Exam, error)
		CreateExam(ctx context.Context, ex Exam) (Exam, error)
		// ListExams orders by exam_date, latest first; undated exams come first.
		ListExams(ctx context.Context) ([]Exam, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Exam, error) {
	return svc.repo.GetExamByID(ctx, core.CleanString(id))
}

func (svc *Service) List(ctx context.Context) ([]Exam, error) {
	exams, err := svc.repo.ListExams(ctx)
	if err != nil {
		return nil, core.NewDependencyError("Failed to list exams", err)
	}
	return exams, nil
}

func (svc *Service) Create(ctx context.Context, ne NewExam) (Exam, error) {
	ne.Clean()
	if err := svc.validate.Struct(ne); err != nil {
		return Exam{}, core.TranslateValidationErrors(err, svc.translator, "invalid exam")
	}

	status := StatusUpcoming
	if ne.Status != "" {
		st, err := ParseStatus(ne.Status)
		if err != nil {
			return Exam{}, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
		}
		status = st
	}

	now := time.Now().UTC()
	ex := Exam{
		ID:           uuid.New().String(),
		Title:        ne.Title,
		Course:       ne.Course,
		Instructions: null.StringFromPtr(ne.Instructions),
		FormURL:      null.StringFromPtr(ne.FormURL),
		Status:       status,
		ExamDate:     null.TimeFromPtr(ne.ExamDate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ex, err := svc.repo.CreateExam(ctx, ex)
	if err != nil {
		return Exam{}, errors.Wrap(err, "creating exam")
	}
	return ex, nil
}
