package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		// UpsertDayRecords writes all records of a single date in ONE
		// transaction, keyed on (student_id, date): a concurrent reader
		// never observes the date half-written or empty. It returns the
		// stored rows with their ids.
		UpsertDayRecords(ctx context.Context, records []Record) ([]Record, error)
		// FilterRecords applies AND operation on available QueryFilter
		// fields, always inside the scope (records follow their
		// student's center).
		FilterRecords(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error)
		GetRecordByID(ctx context.Context, scope core.TenantScope, id string) (Record, error)
		DeleteRecordsByID(ctx context.Context, ids ...string) error
	}

	// StudentGetter is the slice of student.Service needed to pin entries
	// to the caller's tenant before writing.
	StudentGetter interface {
		GetByID(ctx context.Context, scope core.TenantScope, id string) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentGetter
	}
)

func NewService(repo Repository, students StudentGetter) *Service {
	return &Service{repo: repo, students: students}
}

// SetForDate sets the attendance of every listed student for one date.
// Each entry's student must be visible to scope; the write itself is a
// transactional upsert, so repeating the call with a corrected set is
// idempotent.
func (svc *Service) SetForDate(ctx context.Context, scope core.TenantScope, sd SetDay) ([]Record, error) {
	day := sd.day()
	now := time.Now().UTC()

	records := make([]Record, 0, len(sd.Entries))
	for _, entry := range sd.Entries {
		if _, err := svc.students.GetByID(ctx, scope, entry.StudentID); err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return nil, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: "unknown student: " + entry.StudentID})
			}
			return nil, errors.Wrap(err, "checking student")
		}
		rec := Record{
			StudentID: entry.StudentID,
			Date:      day,
			Status:    entry.Status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if entry.TimeIn != "" {
			rec.TimeIn.SetValid(entry.TimeIn)
		}
		if entry.TimeOut != "" {
			rec.TimeOut.SetValid(entry.TimeOut)
		}
		records = append(records, rec)
	}

	stored, err := svc.repo.UpsertDayRecords(ctx, records)
	if err != nil {
		return nil, errors.Wrap(err, "upserting day records")
	}
	return stored, nil
}

func (svc *Service) Query(ctx context.Context, scope core.TenantScope, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error) {
	return svc.repo.FilterRecords(ctx, scope, filter, ordering)
}

// StatsForStudent aggregates one student's records over a date range.
func (svc *Service) StatsForStudent(ctx context.Context, scope core.TenantScope, studentID string, from, to time.Time) (Stats, error) {
	if _, err := svc.students.GetByID(ctx, scope, studentID); err != nil {
		return Stats{}, err
	}
	records, err := svc.repo.FilterRecords(ctx, scope, QueryFilter{StudentID: studentID, From: from, To: to}, nil)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}

// RankAbsenteesInScope aggregates every scoped student's absence rate
// over a date range and ranks them worst-first.
func (svc *Service) RankAbsenteesInScope(ctx context.Context, scope core.TenantScope, from, to time.Time) ([]StudentAbsence, error) {
	records, err := svc.repo.FilterRecords(ctx, scope, QueryFilter{From: from, To: to}, []core.DBOrdering{{Field: "student_id", Ascending: true}})
	if err != nil {
		return nil, err
	}

	// group per student, preserving first-seen order
	var order []string
	byStudent := make(map[string][]Record)
	for _, rec := range records {
		if _, ok := byStudent[rec.StudentID]; !ok {
			order = append(order, rec.StudentID)
		}
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	entries := make([]StudentAbsence, 0, len(order))
	for _, id := range order {
		stats := ComputeStats(byStudent[id])
		entries = append(entries, StudentAbsence{
			StudentID: id,
			Absent:    stats.Absent,
			Total:     stats.Total,
		})
	}
	return RankAbsentees(entries), nil
}

func (svc *Service) Delete(ctx context.Context, scope core.TenantScope, id string) error {
	if _, err := svc.repo.GetRecordByID(ctx, scope, id); err != nil {
		return err
	}
	return svc.repo.DeleteRecordsByID(ctx, id)
}
