package user

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// stubRepository backs the service tests with a single in-memory user.
type stubRepository struct {
	Repository // unimplemented methods panic

	usr          *User
	lastLoginErr error
}

func (r *stubRepository) GetUser(ctx context.Context, filter GetFilter) (User, error) {
	if r.usr == nil {
		return User{}, ErrNotFound
	}
	switch {
	case filter.ID == r.usr.ID,
		filter.Username == r.usr.Username,
		filter.Email == r.usr.Email,
		filter.UsernameOrEmail == r.usr.Username,
		filter.UsernameOrEmail == r.usr.Email:
		return *r.usr, nil
	}
	return User{}, ErrNotFound
}

func (r *stubRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	r.usr.LastLogin.SetValid(t)
	return nil
}

func (r *stubRepository) SetPasswordHash(ctx context.Context, id string, hash []byte) error {
	r.usr.PasswordHash = hash
	return nil
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type nopMailService struct{}

func (nopMailService) SendMessages(...*core.EmailMessage) {}

func newStubService(usr *User) (*Service, *stubRepository) {
	repo := &stubRepository{usr: usr}
	conf := &core.Config{SecretKey: []byte("secret"), PasswordResetTimeoutDelta: 24 * time.Hour}
	return NewService(repo, nopMailService{}, conf, nopLogger{}), repo
}

func newTestUser(t *testing.T, pwd string, active bool) *User {
	t.Helper()
	usr := &User{
		ID:       "5e51761c-8b86-4b9f-a2b0-b1a533ae2f3c",
		Name:     "Jane Doe",
		Username: "jdoe",
		Email:    "jdoe@test.cd",
		Role:     core.RoleCenter,
		IsActive: active,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	return usr
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		usr     *User
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "unknown user", usr: newTestUser(t, "LePassw0rd", true), uname: "nobody", pwd: "LePassw0rd", wantErr: ErrAuthenticationFailed},
		{name: "wrong password", usr: newTestUser(t, "LePassw0rd", true), uname: "jdoe", pwd: "LePassword", wantErr: ErrAuthenticationFailed},
		{name: "inactive user", usr: newTestUser(t, "LePassw0rd", false), uname: "jdoe", pwd: "LePassw0rd", wantErr: ErrAuthenticationFailed},
		{name: "by username", usr: newTestUser(t, "LePassw0rd", true), uname: "jdoe", pwd: "LePassw0rd"},
		{name: "by email", usr: newTestUser(t, "LePassw0rd", true), uname: "jdoe@test.cd", pwd: "LePassw0rd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newStubService(tt.usr)

			usr, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !usr.LastLogin.Valid {
				t.Error("last_login not stamped")
			}
		})
	}
}

func TestService_Authenticate_lastLoginBestEffort(t *testing.T) {
	usr := newTestUser(t, "LePassw0rd", true)
	svc, repo := newStubService(usr)
	repo.lastLoginErr = errors.New("db gone")

	got, err := svc.Authenticate(context.Background(), "jdoe", "LePassw0rd")
	if err != nil {
		t.Fatalf("Authenticate() failed on a last_login error: %v", err)
	}
	if got.LastLogin.Valid {
		t.Error("last_login claims validity despite the failed stamp")
	}
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	usr := newTestUser(t, "LePassw0rd", true)
	origHash := make([]byte, len(usr.PasswordHash))
	copy(origHash, usr.PasswordHash)
	svc, repo := newStubService(usr)

	if err := svc.ChangePassword(ctx, *usr, ChangePassword{CurrentPassword: "LePassword", NewPassword: "An0therPass!"}); err != ErrAuthenticationFailed {
		t.Fatalf("ChangePassword() error = %v, want %v", err, ErrAuthenticationFailed)
	}
	if !bytes.Equal(repo.usr.PasswordHash, origHash) {
		t.Fatal("stored hash changed on a failed attempt")
	}

	if err := svc.ChangePassword(ctx, *usr, ChangePassword{CurrentPassword: "LePassw0rd", NewPassword: "An0therPass!"}); err != nil {
		t.Fatalf("ChangePassword() failed: %v", err)
	}
	if bytes.Equal(repo.usr.PasswordHash, origHash) {
		t.Fatal("stored hash did not change")
	}
	if err := repo.usr.CheckPassword("An0therPass!"); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
	if err := repo.usr.CheckPassword("LePassw0rd"); err == nil {
		t.Error("old password still verifies")
	}
}
