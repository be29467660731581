package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrEmailExists    = errors.New("a user with this email already exists")

	// ErrAuthenticationFailed is the single error returned for an unknown
	// username, a wrong password or an inactive account; callers must not
	// be able to tell these cases apart.
	ErrAuthenticationFailed = errors.New("invalid credentials")
)

type (
	// GetFilter selects a single user; the first non-empty field wins.
	GetFilter struct {
		ID              string
		Username        string
		Email           string
		UsernameOrEmail string
	}

	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name, Username or Email.
		FilterUsers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		SetLastLogin(ctx context.Context, id string, t time.Time) error
		SetPasswordHash(ctx context.Context, id string, hash []byte) error
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
		logger:  logger,
	}
}

func (svc *Service) checkUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.CenterID != "" {
		usr.CenterID.SetValid(nu.CenterID)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: core.CleanString(uname, true /* lower */)})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.FilterUsers(ctx, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Username:  uu.Username,
		Email:     uu.Email,
		Role:      uu.Role,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.CenterID != nil {
		usr.CenterID.SetValid(*uu.CenterID)
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

// Authenticate verifies a username/password pair against the stored
// credential. An unknown username, a wrong password and a deactivated
// account all come back as the same ErrAuthenticationFailed; the
// differentiated cause is only logged server-side. A successful login
// stamps last_login best-effort: a failed stamp never blocks the login.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			svc.logger.Info(fmt.Sprintf("login failed: unknown user %q", uname))
			return User{}, ErrAuthenticationFailed
		}
		return User{}, errors.Wrap(err, "finding user by username or email")
	}
	if !usr.IsActive {
		svc.logger.Info(fmt.Sprintf("login failed: user %q is deactivated", usr.Username))
		return User{}, ErrAuthenticationFailed
	}
	if err = usr.CheckPassword(pwd); err != nil {
		svc.logger.Info(fmt.Sprintf("login failed: wrong password for user %q", usr.Username))
		return User{}, ErrAuthenticationFailed
	}

	now := time.Now().UTC()
	if err = svc.repo.SetLastLogin(ctx, usr.ID, now); err != nil {
		svc.logger.Warn(fmt.Sprintf("setting last_login for user %q: %v", usr.Username, err))
	} else {
		usr.LastLogin.SetValid(now)
	}
	return usr, nil
}

// ChangePassword rotates usr's credential: the current password is verified
// with the same routine login uses, then a fresh hash of the new password
// (fresh salt, never derived from the old hash) overwrites the stored one.
func (svc *Service) ChangePassword(ctx context.Context, usr User, cp ChangePassword) error {
	if err := usr.CheckPassword(cp.CurrentPassword); err != nil {
		return ErrAuthenticationFailed
	}
	if err := usr.SetPassword(cp.NewPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetPasswordHash(ctx, usr.ID, usr.PasswordHash)
}

// RequestPasswordReset emails a signed, timestamped reset token to the
// account owning the address, if one exists and is active.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}

	token, err := MakeToken(usr, svc.conf)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}

	url := fmt.Sprintf("%s/password-reset?uid=%s&token=%s", svc.conf.FrontendBaseURL, EncodeUID(usr), token)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password reset",
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nYou requested a password reset on %s. Follow the link below to set a new password:\n\n%s\n\n"+
				"If you did not request this, you can safely ignore this email.\n", usr.Name, svc.conf.AppName, url),
	})
	return nil
}

// ResetPassword validates a reset token and sets the new password.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	id, err := DecodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = VerifyToken(usr, rp.Token, svc.conf); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetPasswordHash(ctx, usr.ID, usr.PasswordHash)
}
