package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core"
)

type Student struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Course   string      `json:"course"`
	Phone    null.String `json:"phone"`
	RollNo   string      `json:"roll_no"`
	Semester null.String `json:"semester"`
	// AccessPassword is a legacy per-student secret superseded by the shared access password.
	AccessPassword null.String `json:"-"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at"` // UTC
}

// NewStudent contains information needed to self-register a Student.
type NewStudent struct {
	Name           string  `json:"name" validate:"min=2,max=100"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	Course         string  `json:"course" validate:"required,max=80"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	AccessPassword string  `json:"accessPassword" validate:"required,max=64"`
}

// Clean trims every field. Emails keep their case: lookups are exact matches.
func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email)
	ns.Course = core.CleanString(ns.Course)
	ns.Phone = core.CleanStringPtr(ns.Phone)
	ns.AccessPassword = core.CleanString(ns.AccessPassword)
}

// GetFilter selects a single Student; the first non-empty field wins, in declaration order.
type GetFilter struct {
	ID     string
	Email  string
	RollNo string
}

func (f GetFilter) IsEmpty() bool {
	return f.ID == "" && f.Email == "" && f.RollNo == ""
}

// Identifier is the value the filter matches on.
func (f GetFilter) Identifier() string {
	switch {
	case f.ID != "":
		return f.ID
	case f.Email != "":
		return f.Email
	default:
		return f.RollNo
	}
}
