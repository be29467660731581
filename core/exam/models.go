package exam

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Test is a dated test held by a center.
type Test struct {
	ID        string      `json:"id" db:"id"`
	CenterID  string      `json:"center_id" db:"center_id"`
	Name      string      `json:"name" db:"name"`
	Subject   string      `json:"subject" db:"subject"`
	Grade     null.String `json:"grade" db:"grade"`
	Date      time.Time   `json:"date" db:"date"` // day precision, UTC
	MaxMarks  float64     `json:"max_marks" db:"max_marks"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// Result is one student's marks for one test; (test_id, student_id) is
// unique at the store level and a duplicate insert surfaces as a
// distinguishable conflict, never a generic failure.
type Result struct {
	ID            string      `json:"id" db:"id"`
	TestID        string      `json:"test_id" db:"test_id"`
	StudentID     string      `json:"student_id" db:"student_id"`
	MarksObtained float64     `json:"marks_obtained" db:"marks_obtained"`
	DateTaken     time.Time   `json:"date_taken" db:"date_taken"` // day precision, UTC
	Notes         null.String `json:"notes" db:"notes"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"` // UTC
}

// NewTest contains information needed to create a new Test. CenterID is
// only honored for admin scopes.
type NewTest struct {
	CenterID string  `json:"center_id"`
	Name     string  `json:"name" validate:"required"`
	Subject  string  `json:"subject" validate:"required"`
	Grade    string  `json:"grade"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	MaxMarks float64 `json:"max_marks" validate:"required,gt=0"`
}

func (nt *NewTest) Validate(scope core.TenantScope, validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Subject = core.CleanString(nt.Subject)
	nt.Grade = core.CleanString(nt.Grade)

	if !scope.AllCenters() {
		nt.CenterID = scope.CenterID
	}
	if err := validate.Struct(nt); err != nil {
		return err
	}
	if nt.CenterID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "center_id", Error: "this field is required"})
	}
	return nil
}

// UpdateTest defines what information may be provided to modify an
// existing Test.
type UpdateTest struct {
	Name     string  `json:"name"`
	Subject  string  `json:"subject"`
	Grade    *string `json:"grade"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	MaxMarks float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

func (ut *UpdateTest) Validate(orig Test, validate *validator.Validate) error {
	ut.Name = core.CleanString(ut.Name)
	if ut.Name == "" {
		ut.Name = orig.Name
	}
	ut.Subject = core.CleanString(ut.Subject)
	if ut.Subject == "" {
		ut.Subject = orig.Subject
	}
	return validate.Struct(ut)
}

// NewResult records one student's marks for a test.
type NewResult struct {
	StudentID     string  `json:"student_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	DateTaken     string  `json:"date_taken" validate:"required,datetime=2006-01-02"`
	Notes         string  `json:"notes"`
}

func (nr *NewResult) Validate(validate *validator.Validate) error {
	nr.Notes = core.CleanString(nr.Notes)
	return validate.Struct(nr)
}

type QueryFilter struct {
	CenterID string `query:"center_id"`
	Subject  string `query:"subject"`
	Grade    string `query:"grade"`
	Search   string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Subject = core.CleanString(qf.Subject)
	qf.Grade = core.CleanString(qf.Grade)
}
