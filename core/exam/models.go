package exam

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
)

// Status is the closed set of exam states.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidStatus = errors.New("invalid exam status")

	Statuses = []Status{StatusUpcoming, StatusActive, StatusCompleted}

	// legacy values written by older admin tooling
	statusSynonyms = map[string]Status{
		"available": StatusActive,
		"submitted": StatusCompleted,
	}
)

// ParseStatus maps s (case-insensitive, legacy synonyms included) to a Status.
func ParseStatus(s string) (Status, error) {
	s = core.CleanString(s, true /* lower */)
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	if st, ok := statusSynonyms[s]; ok {
		return st, nil
	}
	return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
}

// NormalizeStatus is ParseStatus for stored rows: unknown values read back as StatusUpcoming.
func NormalizeStatus(s string) Status {
	st, err := ParseStatus(s)
	if err != nil {
		return StatusUpcoming
	}
	return st
}

type Exam struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Course       string      `json:"course"`
	Instructions null.String `json:"instructions"`
	FormURL      null.String `json:"google_form_url"`
	Status       Status      `json:"status"`
	ExamDate     null.Time   `json:"exam_date"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
}

// NewExam contains information needed to create a new Exam.
type NewExam struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Course       string     `json:"course" validate:"required,max=80"`
	Instructions *string    `json:"instructions" validate:"omitempty,max=5000"`
	FormURL      *string    `json:"google_form_url" validate:"omitempty,max=2048,httpurl"`
	Status       string     `json:"status"`
	ExamDate     *time.Time `json:"exam_date"`
}

func (ne *NewExam) Clean() {
	ne.Title = core.CleanString(ne.Title)
	ne.Course = core.CleanString(ne.Course)
	ne.Instructions = core.CleanStringPtr(ne.Instructions)
	ne.FormURL = core.CleanStringPtr(ne.FormURL)
	ne.Status = core.CleanString(ne.Status, true /* lower */)
}
