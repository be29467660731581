package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/center"
)

type centerRepository struct {
	db *centerTable
}

var _ center.Repository = (*centerRepository)(nil) // interface compliance check

func NewCenterRepository(db *DB) center.Repository {
	return &centerRepository{db: db.center}
}

func (repo *centerRepository) query() []center.Center {
	ids := make([]string, 0, len(repo.db.table))
	for id := range repo.db.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	centers := make([]center.Center, 0, len(ids))
	for _, id := range ids {
		centers = append(centers, *repo.db.table[id])
	}
	return centers
}

func (repo *centerRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...center.Center) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.query() {
		var excl bool
		for _, ex := range excluded {
			if ex.ID == c.ID {
				excl = true
				break
			}
		}
		if !excl && strings.EqualFold(c.Name, name) {
			return center.ErrNameExists
		}
	}
	return nil
}

func (repo *centerRepository) CreateCenter(ctx context.Context, c center.Center) (center.Center, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *centerRepository) GetCenterByID(ctx context.Context, id string) (center.Center, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return center.Center{}, center.ErrNotFound
}

func (repo *centerRepository) QueryCenters(ctx context.Context, ordering []core.DBOrdering) ([]center.Center, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *centerRepository) UpdateCenter(ctx context.Context, c center.Center, isActive *bool) (center.Center, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[c.ID]
	if !ok {
		return center.Center{}, center.ErrNotFound
	}

	if c.Name != "" {
		orig.Name = c.Name
	}
	if c.Address.Valid {
		orig.Address = c.Address
	}
	if c.Phone.Valid {
		orig.Phone = c.Phone
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = c.UpdatedAt
	return *orig, nil
}

func (repo *centerRepository) DeleteCentersByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
