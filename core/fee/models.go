package fee

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusUnpaid  PaymentStatus = "Unpaid"
	StatusPending PaymentStatus = "Pending"
)

// Record is one student's fee for one month; (student_id, month) is
// unique and writes go through an upsert keyed on that pair.
type Record struct {
	ID            string        `json:"id" db:"id"`
	StudentID     string        `json:"student_id" db:"student_id"`
	Month         string        `json:"month" db:"month"` // "YYYY-MM"
	Amount        float64       `json:"amount" db:"amount"`
	DueDate       time.Time     `json:"due_date" db:"due_date"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	PaidDate      null.Time     `json:"paid_date" db:"paid_date"`
	Remarks       null.String   `json:"remarks" db:"remarks"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"` // UTC
}

// SetFee creates or replaces a student's fee row for a month.
type SetFee struct {
	StudentID     string  `json:"student_id" validate:"required"`
	Month         string  `json:"month" validate:"required,yearmonth"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	DueDate       string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	PaymentStatus string  `json:"payment_status" validate:"required,oneof=Paid Unpaid Pending"`
	PaidDate      string  `json:"paid_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks       string  `json:"remarks"`
}

func (sf *SetFee) Validate(validate *validator.Validate) error {
	sf.Month = core.CleanString(sf.Month)
	sf.Remarks = core.CleanString(sf.Remarks)
	return validate.Struct(sf)
}

// MarkPaid settles an existing fee row.
type MarkPaid struct {
	PaidDate string `json:"paid_date" validate:"omitempty,datetime=2006-01-02"`
	Remarks  string `json:"remarks"`
}

func (mp *MarkPaid) Validate(validate *validator.Validate) error {
	mp.Remarks = core.CleanString(mp.Remarks)
	return validate.Struct(mp)
}

type QueryFilter struct {
	StudentID     string        `query:"student_id"`
	Month         string        `query:"month"`
	PaymentStatus PaymentStatus `query:"payment_status"`
}
