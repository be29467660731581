package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/exam"
)

type examRepository struct {
	db *examTable
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) queryTests() []exam.Test {
	ids := make([]string, 0, len(repo.db.tests))
	for id := range repo.db.tests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tests := make([]exam.Test, 0, len(ids))
	for _, id := range ids {
		tests = append(tests, *repo.db.tests[id])
	}
	return tests
}

func (repo *examRepository) CreateTest(ctx context.Context, t exam.Test) (exam.Test, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = uuid.New().String()
	repo.db.tests[t.ID] = &t
	return t, nil
}

func (repo *examRepository) GetTestByID(ctx context.Context, scope core.TenantScope, id string) (exam.Test, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	t, ok := repo.db.tests[id]
	if !ok || !scope.CanAccessCenter(t.CenterID) {
		return exam.Test{}, exam.ErrTestNotFound
	}
	return *t, nil
}

func (repo *examRepository) FilterTests(
	ctx context.Context,
	scope core.TenantScope,
	filter exam.QueryFilter,
	ordering []core.DBOrdering,
) ([]exam.Test, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tests := make([]exam.Test, 0)
	for _, t := range repo.queryTests() {
		if !scope.CanAccessCenter(t.CenterID) {
			continue
		}
		if filter.CenterID != "" && t.CenterID != filter.CenterID {
			continue
		}
		if filter.Subject != "" && !strings.EqualFold(t.Subject, filter.Subject) {
			continue
		}
		if filter.Grade != "" && (!t.Grade.Valid || !strings.EqualFold(t.Grade.String, filter.Grade)) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Search)) {
			continue
		}
		tests = append(tests, t)
	}
	return tests, nil
}

func (repo *examRepository) UpdateTest(ctx context.Context, t exam.Test) (exam.Test, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.tests[t.ID]
	if !ok {
		return exam.Test{}, exam.ErrTestNotFound
	}

	if t.Name != "" {
		orig.Name = t.Name
	}
	if t.Subject != "" {
		orig.Subject = t.Subject
	}
	if t.Grade.Valid {
		orig.Grade = t.Grade
	}
	if !t.Date.IsZero() {
		orig.Date = t.Date
	}
	if t.MaxMarks > 0 {
		orig.MaxMarks = t.MaxMarks
	}
	orig.UpdatedAt = t.UpdatedAt
	return *orig, nil
}

func (repo *examRepository) DeleteTestsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.tests, id)

		// results follow their test
		var keep []string
		for _, rid := range repo.db.resOrd {
			if r, ok := repo.db.results[rid]; ok && r.TestID == id {
				delete(repo.db.results, rid)
				continue
			}
			keep = append(keep, rid)
		}
		repo.db.resOrd = keep
	}
	return nil
}

func (repo *examRepository) CreateResult(ctx context.Context, r exam.Result) (exam.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, rid := range repo.db.resOrd {
		if orig, ok := repo.db.results[rid]; ok && orig.TestID == r.TestID && orig.StudentID == r.StudentID {
			return exam.Result{}, exam.ErrResultExists
		}
	}

	r.ID = uuid.New().String()
	repo.db.results[r.ID] = &r
	repo.db.resOrd = append(repo.db.resOrd, r.ID)
	return r, nil
}

func (repo *examRepository) QueryResultsByTest(ctx context.Context, testID string) ([]exam.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]exam.Result, 0)
	for _, rid := range repo.db.resOrd {
		if r, ok := repo.db.results[rid]; ok && r.TestID == testID {
			results = append(results, *r)
		}
	}
	return results, nil
}

func (repo *examRepository) DeleteResultsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		if _, ok := repo.db.results[id]; !ok {
			continue
		}
		delete(repo.db.results, id)
		for i, rid := range repo.db.resOrd {
			if rid == id {
				repo.db.resOrd = append(repo.db.resOrd[:i], repo.db.resOrd[i+1:]...)
				break
			}
		}
	}
	return nil
}
