package exam_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scwportal/backend/core"
	. "github.com/scwportal/backend/core/exam"
	inmemdb "github.com/scwportal/backend/storage/database/inmem"
)

func newService() *Service {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return NewService(inmemdb.NewExamRepository(inmemdb.Open()), validate, translator)
}

func TestService_Create(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	sPtr := func(s string) *string { return &s }
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ne         NewExam
		wantStatus Status
		wantFields []string
	}{
		{name: "defaults", ne: NewExam{Title: " HTML Basics ", Course: "Web"}, wantStatus: StatusUpcoming},
		{
			name: "full", wantStatus: StatusActive,
			ne: NewExam{
				Title: "CSS", Course: "Web", Status: "available", ExamDate: &date,
				FormURL: sPtr("https://forms.example.com/css"), Instructions: sPtr("No notes."),
			},
		},
		{name: "missing fields", ne: NewExam{}, wantFields: []string{"title", "course"}},
		{name: "bad form url", ne: NewExam{Title: "JS", Course: "Web", FormURL: sPtr("ftp://lol")}, wantFields: []string{"google_form_url"}},
		{name: "bad status", ne: NewExam{Title: "JS", Course: "Web", Status: "cancelled"}, wantFields: []string{"status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := svc.Create(ctx, tt.ne)
			if len(tt.wantFields) > 0 {
				var verr *core.ValidationError
				require.True(t, errors.As(err, &verr), "got %T: %v", err, err)
				fields := make([]string, 0, len(verr.Fields))
				for _, fld := range verr.Fields {
					fields = append(fields, fld.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, ex.ID)
			assert.Equal(t, tt.wantStatus, ex.Status)

			found, err := svc.GetByID(ctx, " "+ex.ID+" ")
			require.NoError(t, err)
			assert.Equal(t, ex, found)
		})
	}

	_, err := svc.GetByID(ctx, "lol")
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestService_List(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	exams, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, exams)

	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	dated, err := svc.Create(ctx, NewExam{Title: "CSS", Course: "Web", ExamDate: &date})
	require.NoError(t, err)
	undated, err := svc.Create(ctx, NewExam{Title: "HTML", Course: "Web"})
	require.NoError(t, err)

	exams, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Exam{undated, dated}, exams)
}
