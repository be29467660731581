package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
)

type attendanceRepository struct {
	db       *attendanceTable
	students *studentTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance, students: db.student}
}

func dayKey(studentID string, date string) string {
	return studentID + "|" + date
}

// inScope resolves a record's center through its student; orphan records
// read as out of scope.
func (repo *attendanceRepository) inScope(scope core.TenantScope, rec *attendance.Record) bool {
	repo.students.RLock()
	defer repo.students.RUnlock()

	s, ok := repo.students.table[rec.StudentID]
	return ok && scope.CanAccessStudent(s.CenterID, s.ParentID.String)
}

func (repo *attendanceRepository) UpsertDayRecords(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// the whole date lands under one lock, mirroring the single
	// transaction of the SQL implementation
	byKey := make(map[string]string, len(repo.db.table)) // (student_id, date) -> id
	for id, rec := range repo.db.table {
		byKey[dayKey(rec.StudentID, rec.Date.Format(attendance.DateFormat))] = id
	}

	stored := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		key := dayKey(rec.StudentID, rec.Date.Format(attendance.DateFormat))
		if id, ok := byKey[key]; ok {
			orig := repo.db.table[id]
			orig.Status = rec.Status
			orig.TimeIn = rec.TimeIn
			orig.TimeOut = rec.TimeOut
			orig.UpdatedAt = rec.UpdatedAt
			stored = append(stored, *orig)
			continue
		}
		rec := rec
		rec.ID = uuid.New().String()
		repo.db.table[rec.ID] = &rec
		repo.db.order = append(repo.db.order, rec.ID)
		stored = append(stored, rec)
	}
	return stored, nil
}

func (repo *attendanceRepository) FilterRecords(
	ctx context.Context,
	scope core.TenantScope,
	filter attendance.QueryFilter,
	ordering []core.DBOrdering,
) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Record, 0)
	for _, id := range repo.db.order {
		rec, ok := repo.db.table[id]
		if !ok || !repo.inScope(scope, rec) {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if !filter.From.IsZero() && rec.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && rec.Date.After(filter.To) {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, scope core.TenantScope, id string) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rec, ok := repo.db.table[id]
	if !ok || !repo.inScope(scope, rec) {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return *rec, nil
}

func (repo *attendanceRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
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
