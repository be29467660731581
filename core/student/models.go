package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

type Student struct {
	ID          string      `json:"id" db:"id"`
	CenterID    string      `json:"center_id" db:"center_id"`
	Name        string      `json:"name" db:"name"`
	Grade       string      `json:"grade" db:"grade"`
	Subject     null.String `json:"subject" db:"subject"`
	ParentID    null.String `json:"parent_id" db:"parent_id"` // user id of the parent account
	ParentPhone null.String `json:"parent_phone" db:"parent_phone"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
// CenterID is only honored for admin scopes; center users always create
// students in their own center.
type NewStudent struct {
	CenterID    string `json:"center_id"`
	Name        string `json:"name" validate:"required"`
	Grade       string `json:"grade" validate:"required"`
	Subject     string `json:"subject"`
	ParentID    string `json:"parent_id"`
	ParentPhone string `json:"parent_phone"`
}

func (ns *NewStudent) Validate(scope core.TenantScope, validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Grade = core.CleanString(ns.Grade)
	ns.Subject = core.CleanString(ns.Subject)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)

	if !scope.AllCenters() {
		ns.CenterID = scope.CenterID
	}
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if ns.CenterID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "center_id", Error: "this field is required"})
	}
	return nil
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name        string  `json:"name"`
	Grade       string  `json:"grade"`
	Subject     *string `json:"subject"`
	ParentID    *string `json:"parent_id"`
	ParentPhone *string `json:"parent_phone"`
	IsActive    *bool   `json:"is_active"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	if us.Name == "" {
		us.Name = orig.Name
	}
	us.Grade = core.CleanString(us.Grade)
	if us.Grade == "" {
		us.Grade = orig.Grade
	}
	return validate.Struct(us)
}

type QueryFilter struct {
	Search   string `query:"search"`
	CenterID string `query:"center_id"`
	Grade    string `query:"grade"`
	Subject  string `query:"subject"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Grade = core.CleanString(qf.Grade)
	qf.Subject = core.CleanString(qf.Subject)
}
