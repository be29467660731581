package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Roles lists the assignable roles, for the admin UI.
var Roles = []Role{
	{Name: "Administrator", Value: core.RoleAdmin},
	{Name: "Center", Value: core.RoleCenter},
	{Name: "Parent", Value: core.RoleParent},
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Username     string      `json:"username" db:"username"`
	Email        string      `json:"email" db:"email"`
	Role         string      `json:"role" db:"role"`
	CenterID     null.String `json:"center_id" db:"center_id"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	PasswordHash []byte      `json:"-" db:"password_hash"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    null.Time   `json:"last_login" db:"last_login"` // UTC
}

// SetPassword hashes pwd with a freshly generated salt; the previous
// hash contributes nothing to the new one.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool  { return u.Role == core.RoleAdmin }
func (u *User) IsCenter() bool { return u.Role == core.RoleCenter }
func (u *User) IsParent() bool { return u.Role == core.RoleParent }

// Scope derives the tenant scope this user queries with.
func (u *User) Scope() core.TenantScope {
	return core.TenantScope{
		Role:     u.Role,
		CenterID: u.CenterID.String,
		UserID:   u.ID,
	}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,min=4,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"required,oneof=admin center parent"`
	CenterID        string `json:"center_id" validate:"required_unless=Role admin"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string  `json:"name"`
	Username        string  `json:"username" validate:"omitempty,min=4,alphanum_"`
	Email           string  `json:"email" validate:"omitempty,email"`
	Role            string  `json:"role" validate:"omitempty,oneof=admin center parent"`
	CenterID        *string `json:"center_id"`
	IsActive        *bool   `json:"is_active"`
	Password        string  `json:"password" validate:"omitempty"`
	PasswordConfirm string  `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc *Service) error {
	uu.Name = core.CleanString(uu.Name)
	if uu.Name == "" {
		uu.Name = origUsr.Name
	}
	uu.Username = core.CleanString(uu.Username, true /* lower */)
	if uu.Username == "" {
		uu.Username = origUsr.Username
	}
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	if uu.Email == "" {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.checkUniqueness(uu.Username, uu.Email, origUsr)
}

// ChangePassword rotates the authenticated user's own credential.
type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (cp ChangePassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Role        string    `query:"role"`
	CenterID    string    `query:"center_id"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
