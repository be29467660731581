package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// DateFormat is the day-precision format attendance dates travel in.
const DateFormat = "2006-01-02"

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Record is one student's attendance for one date; (student_id, date)
// is unique.
type Record struct {
	ID        string      `json:"id" db:"id"`
	StudentID string      `json:"student_id" db:"student_id"`
	Date      time.Time   `json:"date" db:"date"` // day precision, UTC
	Status    Status      `json:"status" db:"status"`
	TimeIn    null.String `json:"time_in" db:"time_in"`
	TimeOut   null.String `json:"time_out" db:"time_out"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// DayEntry is one student's row in a "set attendance for date" call.
type DayEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    Status `json:"status" validate:"required,oneof=Present Absent"`
	TimeIn    string `json:"time_in"`
	TimeOut   string `json:"time_out"`
}

// SetDay replaces the attendance of a whole date in one shot.
type SetDay struct {
	Date    string     `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []DayEntry `json:"entries" validate:"required,min=1,dive"`
}

func (sd *SetDay) Validate(validate *validator.Validate) error {
	sd.Date = core.CleanString(sd.Date)
	return validate.Struct(sd)
}

func (sd SetDay) day() time.Time {
	t, _ := time.Parse(DateFormat, sd.Date) // validated upstream
	return t.UTC()
}

type QueryFilter struct {
	StudentID string    `query:"student_id"`
	From      time.Time `query:"from"`
	To        time.Time `query:"to"`
	Status    Status    `query:"status"`
}
