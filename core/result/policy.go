package result

import (
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
)

// MarksPolicy decides which numeric marks are accepted.
type MarksPolicy string

const (
	// PolicyLenient accepts any number, negative or inverted marks included.
	PolicyLenient MarksPolicy = "lenient"
	// PolicyStrict rejects negative marks and marks_obtained > total_marks.
	PolicyStrict MarksPolicy = "strict"
)

var (
	ErrInvalidPolicy = errors.New("invalid marks policy")

	errNegativeMarks = errors.New("marks_obtained and total_marks cannot be negative")
	errMarksExceed   = errors.New("marks_obtained cannot exceed total_marks")
)

func ParseMarksPolicy(s string) (MarksPolicy, error) {
	switch p := MarksPolicy(core.CleanString(s, true /* lower */)); p {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return p, nil
	default:
		return "", errors.Wrapf(ErrInvalidPolicy, "%q", s)
	}
}

func (p MarksPolicy) Check(obtained, total float64) error {
	if p != PolicyStrict {
		return nil
	}
	if obtained < 0 || total < 0 {
		return core.NewValidationError(errNegativeMarks)
	}
	if obtained > total {
		return core.NewValidationError(errMarksExceed)
	}
	return nil
}
