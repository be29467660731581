package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	ids := make([]string, 0, len(repo.db.table))
	for id := range repo.db.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	students := make([]student.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, *repo.db.table[id])
	}
	return students
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.New().String()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, scope core.TenantScope, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	s, ok := repo.db.table[id]
	if !ok || !scope.CanAccessStudent(s.CenterID, s.ParentID.String) {
		return student.Student{}, student.ErrNotFound
	}
	return *s, nil
}

func (repo *studentRepository) FilterStudents(
	ctx context.Context,
	scope core.TenantScope,
	filter student.QueryFilter,
	ordering []core.DBOrdering,
) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0)
	for _, s := range repo.query() {
		if !scope.CanAccessStudent(s.CenterID, s.ParentID.String) {
			continue
		}
		if filter.CenterID != "" && s.CenterID != filter.CenterID {
			continue
		}
		if filter.Grade != "" && !strings.EqualFold(s.Grade, filter.Grade) {
			continue
		}
		if filter.Subject != "" && (!s.Subject.Valid || !strings.EqualFold(s.Subject.String, filter.Subject)) {
			continue
		}
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			continue
		}
		students = append(students, s)
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student, isActive *bool) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}

	if s.Name != "" {
		orig.Name = s.Name
	}
	if s.Grade != "" {
		orig.Grade = s.Grade
	}
	orig.Subject = s.Subject
	orig.ParentID = s.ParentID
	orig.ParentPhone = s.ParentPhone
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = s.UpdatedAt
	return *orig, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
