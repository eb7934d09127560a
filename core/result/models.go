package result

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
)

var (
	errExamIDRequired     = errors.New("exam_id is required")
	errIdentifierRequired = errors.New("Either student_email or student_roll_no is required")
	errMarksRequired      = errors.New("marks_obtained and total_marks are required")
	errMarksNotNumbers    = errors.New("marks_obtained and total_marks must be numbers")
)

type Result struct {
	ID            string      `json:"id"`
	StudentID     string      `json:"student_id"`
	ExamID        string      `json:"exam_id"`
	MarksObtained int         `json:"marks_obtained"`
	TotalMarks    int         `json:"total_marks"`
	Percentage    int         `json:"percentage"`
	Grade         null.String `json:"grade"`
	Remarks       null.String `json:"remarks"`
	CreatedAt     time.Time   `json:"created_at"` // UTC
}

// Marks is a mark sent by a webhook caller: a JSON number or a numeric string.
type Marks struct {
	Set   bool // the field was present in the payload, even as null
	Valid bool // the value is a finite number
	Value float64
}

func NewMarks(v float64) Marks {
	return Marks{Set: true, Valid: true, Value: v}
}

func (m *Marks) UnmarshalJSON(data []byte) error {
	*m = Marks{Set: true}

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	m.Valid = true
	m.Value = v
	return nil
}

func (m Marks) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Int truncates the mark towards zero, the way integer columns receive it.
func (m Marks) Int() int {
	return int(m.Value)
}

// Percentage is round(obtained/total*100), rounding halves up; 0 when total is not positive.
func Percentage(obtained, total float64) int {
	return int(roundPercentage(obtained, total))
}

func roundPercentage(obtained, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Floor(obtained/total*100 + .5)
}

// inColumnRange reports whether v fits the INTEGER columns marks and percentages are stored in.
func inColumnRange(v float64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// Submission is an exam result pushed by an external grading automation.
type Submission struct {
	ExamID        string `json:"exam_id"`
	StudentEmail  string `json:"student_email"`
	StudentRollNo string `json:"student_roll_no"`
	MarksObtained Marks  `json:"marks_obtained"`
	TotalMarks    Marks  `json:"total_marks"`
	Grade         string `json:"grade"`
	Remarks       string `json:"remarks"`
}

func (s *Submission) Clean() {
	s.ExamID = core.CleanString(s.ExamID)
	s.StudentEmail = core.CleanString(s.StudentEmail)
	s.StudentRollNo = core.CleanString(s.StudentRollNo)
	s.Grade = core.CleanString(s.Grade)
	s.Remarks = core.CleanString(s.Remarks)
}

// Identifier is the value used to find the student: the email when given, else the roll number.
func (s Submission) Identifier() string {
	if s.StudentEmail != "" {
		return s.StudentEmail
	}
	return s.StudentRollNo
}

// Validate checks the required fields in order, then applies policy to the marks.
func (s Submission) Validate(policy MarksPolicy) error {
	if s.ExamID == "" {
		return core.NewValidationError(errExamIDRequired)
	}
	if s.StudentEmail == "" && s.StudentRollNo == "" {
		return core.NewValidationError(errIdentifierRequired)
	}
	if !s.MarksObtained.Set || !s.TotalMarks.Set {
		return core.NewValidationError(errMarksRequired)
	}
	if !s.MarksObtained.Valid || !s.TotalMarks.Valid {
		return core.NewValidationError(errMarksNotNumbers)
	}
	obtained, total := s.MarksObtained.Value, s.TotalMarks.Value
	if !inColumnRange(obtained) || !inColumnRange(total) || !inColumnRange(roundPercentage(obtained, total)) {
		return core.NewValidationError(errMarksNotNumbers)
	}
	return policy.Check(obtained, total)
}

// Percentage of the submitted marks, computed before integer truncation.
func (s Submission) Percentage() int {
	return Percentage(s.MarksObtained.Value, s.TotalMarks.Value)
}

// Entry is a Result listed with the exam and student it belongs to.
// The JSON keys of the embedded records follow the table names.
type Entry struct {
	Result
	Exam    *ExamSummary    `json:"exams"`
	Student *StudentSummary `json:"students"`
}

type ExamSummary struct {
	Title  string `json:"title"`
	Course string `json:"course"`
}

type StudentSummary struct {
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
}

// Receipt describes a saved Result.
type Receipt struct {
	Result      Result
	Created     bool // false when an existing Result was overwritten
	StudentName string
	ExamTitle   string
}
