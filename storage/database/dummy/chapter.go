package dummydb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chapter"
)

type chapterRepository struct {
	db *chapterTable
}

var _ chapter.Repository = (*chapterRepository)(nil) // interface compliance check

func NewChapterRepository(db *DB) chapter.Repository {
	return &chapterRepository{db: db.chapter}
}

func (repo *chapterRepository) CreateChapter(ctx context.Context, c chapter.Chapter) (chapter.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.table[c.ID] = &c
	repo.db.order = append(repo.db.order, c.ID)
	return c, nil
}

func (repo *chapterRepository) GetChapterByID(ctx context.Context, scope core.TenantScope, id string) (chapter.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	c, ok := repo.db.table[id]
	if !ok || !scope.CanAccessCenter(c.CenterID) {
		return chapter.Chapter{}, chapter.ErrNotFound
	}
	return *c, nil
}

func (repo *chapterRepository) FilterChapters(
	ctx context.Context,
	scope core.TenantScope,
	filter chapter.QueryFilter,
	ordering []core.DBOrdering,
) ([]chapter.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	chapters := make([]chapter.Chapter, 0)
	for _, id := range repo.db.order {
		c, ok := repo.db.table[id]
		if !ok || !scope.CanAccessCenter(c.CenterID) {
			continue
		}
		if filter.CenterID != "" && c.CenterID != filter.CenterID {
			continue
		}
		if filter.Subject != "" && !strings.EqualFold(c.Subject, filter.Subject) {
			continue
		}
		if filter.Grade != "" && !strings.EqualFold(c.Grade, filter.Grade) {
			continue
		}
		if filter.Completed != nil && c.Completed != *filter.Completed {
			continue
		}
		chapters = append(chapters, *c)
	}
	return chapters, nil
}

func (repo *chapterRepository) UpdateChapter(ctx context.Context, c chapter.Chapter, completed *bool) (chapter.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[c.ID]
	if !ok {
		return chapter.Chapter{}, chapter.ErrNotFound
	}

	if c.Subject != "" {
		orig.Subject = c.Subject
	}
	if c.Grade != "" {
		orig.Grade = c.Grade
	}
	if c.Name != "" {
		orig.Name = c.Name
	}
	orig.Sequence = c.Sequence
	orig.CompletedOn = c.CompletedOn
	if completed != nil {
		orig.Completed = *completed
	}
	orig.UpdatedAt = c.UpdatedAt
	return *orig, nil
}

func (repo *chapterRepository) DeleteChaptersByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.table[id]; !ok {
			continue
		}
		delete(repo.db.table, id)
		for i, oid := range repo.db.order {
			if oid == id {
				repo.db.order = append(repo.db.order[:i], repo.db.order[i+1:]...)
				break
			}
		}
	}
	return nil
}
