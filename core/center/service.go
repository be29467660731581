package center

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound   = errors.New("center not found")
	ErrNameExists = errors.New("a center with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Center) error
		CreateCenter(ctx context.Context, c Center) (Center, error)
		GetCenterByID(ctx context.Context, id string) (Center, error)
		QueryCenters(ctx context.Context, ordering []core.DBOrdering) ([]Center, error)
		UpdateCenter(ctx context.Context, c Center, isActive *bool) (Center, error)
		DeleteCentersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name string, excl ...Center) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name, excl...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewCenter) (Center, error) {
	now := time.Now().UTC()
	c := Center{
		Name:      nc.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nc.Address != "" {
		c.Address.SetValid(nc.Address)
	}
	if nc.Phone != "" {
		c.Phone.SetValid(nc.Phone)
	}
	return svc.repo.CreateCenter(ctx, c)
}

// GetByID fetches a center visible to scope.
func (svc *Service) GetByID(ctx context.Context, scope core.TenantScope, id string) (Center, error) {
	c, err := svc.repo.GetCenterByID(ctx, id)
	if err != nil {
		return Center{}, err
	}
	if !scope.CanAccessCenter(c.ID) {
		return Center{}, ErrNotFound
	}
	return c, nil
}

// QueryAll lists centers; non-admin scopes only ever see their own.
func (svc *Service) QueryAll(ctx context.Context, scope core.TenantScope, ordering []core.DBOrdering) ([]Center, error) {
	if !scope.AllCenters() {
		c, err := svc.repo.GetCenterByID(ctx, scope.CenterID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return []Center{}, nil
			}
			return nil, err
		}
		return []Center{c}, nil
	}
	return svc.repo.QueryCenters(ctx, ordering)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCenter) (Center, error) {
	c := Center{
		ID:        id,
		Name:      uc.Name,
		UpdatedAt: time.Now().UTC(),
	}
	if uc.Address != nil {
		c.Address.SetValid(*uc.Address)
	}
	if uc.Phone != nil {
		c.Phone.SetValid(*uc.Phone)
	}
	return svc.repo.UpdateCenter(ctx, c, uc.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCentersByID(ctx, ids...)
}
