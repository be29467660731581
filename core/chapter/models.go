package chapter

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Chapter is one syllabus chapter tracked per center, subject and grade.
type Chapter struct {
	ID          string    `json:"id" db:"id"`
	CenterID    string    `json:"center_id" db:"center_id"`
	Subject     string    `json:"subject" db:"subject"`
	Grade       string    `json:"grade" db:"grade"`
	Name        string    `json:"name" db:"name"`
	Sequence    int       `json:"sequence" db:"sequence"`
	Completed   bool      `json:"completed" db:"completed"`
	CompletedOn null.Time `json:"completed_on" db:"completed_on"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewChapter contains information needed to create a new Chapter.
// CenterID is only honored for admin scopes.
type NewChapter struct {
	CenterID string `json:"center_id"`
	Subject  string `json:"subject" validate:"required"`
	Grade    string `json:"grade" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Sequence int    `json:"sequence" validate:"gte=0"`
}

func (nc *NewChapter) Validate(scope core.TenantScope, validate *validator.Validate) error {
	nc.Subject = core.CleanString(nc.Subject)
	nc.Grade = core.CleanString(nc.Grade)
	nc.Name = core.CleanString(nc.Name)

	if !scope.AllCenters() {
		nc.CenterID = scope.CenterID
	}
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if nc.CenterID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "center_id", Error: "this field is required"})
	}
	return nil
}

// UpdateChapter defines what information may be provided to modify an
// existing Chapter.
type UpdateChapter struct {
	Subject   string `json:"subject"`
	Grade     string `json:"grade"`
	Name      string `json:"name"`
	Sequence  *int   `json:"sequence" validate:"omitempty,gte=0"`
	Completed *bool  `json:"completed"`
}

func (uc *UpdateChapter) Validate(orig Chapter, validate *validator.Validate) error {
	uc.Subject = core.CleanString(uc.Subject)
	if uc.Subject == "" {
		uc.Subject = orig.Subject
	}
	uc.Grade = core.CleanString(uc.Grade)
	if uc.Grade == "" {
		uc.Grade = orig.Grade
	}
	uc.Name = core.CleanString(uc.Name)
	if uc.Name == "" {
		uc.Name = orig.Name
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	CenterID  string `query:"center_id"`
	Subject   string `query:"subject"`
	Grade     string `query:"grade"`
	Completed *bool  `query:"completed"`
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
	qf.Grade = core.CleanString(qf.Grade)
}
