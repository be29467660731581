package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// GetStudentByID fetches a single student; the scope filter is
		// applied in the query itself, a row outside the scope reads as
		// not found.
		GetStudentByID(ctx context.Context, scope core.TenantScope, id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter
		// fields, always inside the scope.
		FilterStudents(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student, isActive *bool) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	s := Student{
		CenterID:  ns.CenterID,
		Name:      ns.Name,
		Grade:     ns.Grade,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ns.Subject != "" {
		s.Subject.SetValid(ns.Subject)
	}
	if ns.ParentID != "" {
		s.ParentID.SetValid(ns.ParentID)
	}
	if ns.ParentPhone != "" {
		s.ParentPhone.SetValid(ns.ParentPhone)
	}
	return svc.repo.CreateStudent(ctx, s)
}

func (svc *Service) GetByID(ctx context.Context, scope core.TenantScope, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, scope, id)
}

func (svc *Service) Query(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, scope, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, scope core.TenantScope, id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, scope, id)
	if err != nil {
		return Student{}, err
	}

	s := Student{
		ID:        orig.ID,
		Name:      us.Name,
		Grade:     us.Grade,
		UpdatedAt: time.Now().UTC(),
	}
	if us.Subject != nil {
		s.Subject.SetValid(*us.Subject)
	} else {
		s.Subject = orig.Subject
	}
	if us.ParentID != nil {
		s.ParentID.SetValid(*us.ParentID)
	} else {
		s.ParentID = orig.ParentID
	}
	if us.ParentPhone != nil {
		s.ParentPhone.SetValid(*us.ParentPhone)
	} else {
		s.ParentPhone = orig.ParentPhone
	}
	return svc.repo.UpdateStudent(ctx, s, us.IsActive)
}

func (svc *Service) Delete(ctx context.Context, scope core.TenantScope, id string) error {
	if _, err := svc.repo.GetStudentByID(ctx, scope, id); err != nil {
		return err
	}
	return svc.repo.DeleteStudentsByID(ctx, id)
}
