package chapter

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("chapter not found")

type (
	Repository interface {
		CreateChapter(ctx context.Context, c Chapter) (Chapter, error)
		GetChapterByID(ctx context.Context, scope core.TenantScope, id string) (Chapter, error)
		// FilterChapters applies AND operation on available QueryFilter
		// fields, always inside the scope.
		FilterChapters(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Chapter, error)
		UpdateChapter(ctx context.Context, c Chapter, completed *bool) (Chapter, error)
		DeleteChaptersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewChapter) (Chapter, error) {
	now := time.Now().UTC()
	c := Chapter{
		CenterID:  nc.CenterID,
		Subject:   nc.Subject,
		Grade:     nc.Grade,
		Name:      nc.Name,
		Sequence:  nc.Sequence,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateChapter(ctx, c)
}

func (svc *Service) GetByID(ctx context.Context, scope core.TenantScope, id string) (Chapter, error) {
	return svc.repo.GetChapterByID(ctx, scope, id)
}

func (svc *Service) Query(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Chapter, error) {
	return svc.repo.FilterChapters(ctx, scope, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, scope core.TenantScope, id string, uc UpdateChapter) (Chapter, error) {
	orig, err := svc.repo.GetChapterByID(ctx, scope, id)
	if err != nil {
		return Chapter{}, err
	}

	c := Chapter{
		ID:        orig.ID,
		Subject:   uc.Subject,
		Grade:     uc.Grade,
		Name:      uc.Name,
		Sequence:  orig.Sequence,
		UpdatedAt: time.Now().UTC(),
	}
	if uc.Sequence != nil {
		c.Sequence = *uc.Sequence
	}
	switch {
	case uc.Completed == nil:
		c.CompletedOn = orig.CompletedOn
	case !*uc.Completed:
		// un-completing clears the stamp so it always matches the flag
	case orig.Completed:
		c.CompletedOn = orig.CompletedOn
	default:
		c.CompletedOn.SetValid(time.Now().UTC())
	}
	return svc.repo.UpdateChapter(ctx, c, uc.Completed)
}

// Completion aggregates the chapters matching filter: the denominator is
// the filtered population (filter first, then count), never the tenant's
// full chapter count.
func (svc *Service) Completion(ctx context.Context, scope core.TenantScope, filter QueryFilter) (Completion, error) {
	filter.Completed = nil // the percentage needs both halves of the population
	chapters, err := svc.repo.FilterChapters(ctx, scope, filter, nil)
	if err != nil {
		return Completion{}, err
	}
	return ComputeCompletion(chapters), nil
}

func (svc *Service) Delete(ctx context.Context, scope core.TenantScope, id string) error {
	if _, err := svc.repo.GetChapterByID(ctx, scope, id); err != nil {
		return err
	}
	return svc.repo.DeleteChaptersByID(ctx, id)
}
