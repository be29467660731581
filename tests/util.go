package testutil

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/center"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
)

// NewLogger returns a core.Logger writing to stderr; Fatal still exits.
func NewLogger() core.Logger {
	return stdLogger{std: log.New(os.Stderr, "TEST : ", log.LstdFlags|log.Lshortfile)}
}

type stdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*stdLogger)(nil)

func (l stdLogger) Enable(bool) {}
func (l stdLogger) log(lvl, msg string, args []interface{}) {
	l.std.Println(lvl + ": " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}
func (l stdLogger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l stdLogger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l stdLogger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l stdLogger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l stdLogger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args); os.Exit(1) }

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	role string,
	centerID string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if centerID != "" {
		usr.CenterID.SetValid(centerID)
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCenter(t *testing.T, repo center.Repository, name string) center.Center {
	t.Helper()

	now := time.Now().UTC()
	c, err := repo.CreateCenter(context.Background(), center.Center{
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCenter() failed: %v", err)
	}
	return c
}

func CreateStudent(t *testing.T, repo student.Repository, centerID, name, grade string) student.Student {
	t.Helper()

	now := time.Now().UTC()
	s, err := repo.CreateStudent(context.Background(), student.Student{
		CenterID:  centerID,
		Name:      name,
		Grade:     grade,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// CreateChild creates a student linked to a parent account.
func CreateChild(t *testing.T, repo student.Repository, centerID, parentID, name, grade string) student.Student {
	t.Helper()

	now := time.Now().UTC()
	s, err := repo.CreateStudent(context.Background(), student.Student{
		CenterID:  centerID,
		Name:      name,
		Grade:     grade,
		ParentID:  null.StringFrom(parentID),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateChild() failed: %v", err)
	}
	return s
}
