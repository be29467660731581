package center

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Center is the tenant: every student, attendance, fee, test and chapter
// row belongs to exactly one center.
type Center struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Address   null.String `json:"address" db:"address"`
	Phone     null.String `json:"phone" db:"phone"`
	IsActive  bool        `json:"is_active" db:"is_active"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewCenter contains information needed to create a new Center.
type NewCenter struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (nc *NewCenter) Validate(validate *validator.Validate, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Address = core.CleanString(nc.Address)
	nc.Phone = core.CleanString(nc.Phone)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(nc.Name)
}

// UpdateCenter defines what information may be provided to modify an existing Center.
type UpdateCenter struct {
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

func (uc *UpdateCenter) Validate(orig Center, validate *validator.Validate, svc *Service) error {
	uc.Name = core.CleanString(uc.Name)
	if uc.Name == "" {
		uc.Name = orig.Name
	}
	if err := validate.Struct(uc); err != nil {
		return err
	}
	return svc.checkUniqueness(uc.Name, orig)
}
