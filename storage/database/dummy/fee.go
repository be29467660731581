package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/fee"
)

type feeRepository struct {
	db       *feeTable
	students *studentTable
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db.fee, students: db.student}
}

func (repo *feeRepository) inScope(scope core.TenantScope, rec *fee.Record) bool {
	repo.students.RLock()
	defer repo.students.RUnlock()

	s, ok := repo.students.table[rec.StudentID]
	return ok && scope.CanAccessStudent(s.CenterID, s.ParentID.String)
}

func (repo *feeRepository) UpsertFee(ctx context.Context, rec fee.Record) (fee.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range repo.db.order {
		orig := repo.db.table[id]
		if orig.StudentID == rec.StudentID && orig.Month == rec.Month {
			orig.Amount = rec.Amount
			orig.DueDate = rec.DueDate
			orig.PaymentStatus = rec.PaymentStatus
			orig.PaidDate = rec.PaidDate
			orig.Remarks = rec.Remarks
			orig.UpdatedAt = rec.UpdatedAt
			return *orig, nil
		}
	}

	rec.ID = uuid.New().String()
	repo.db.table[rec.ID] = &rec
	repo.db.order = append(repo.db.order, rec.ID)
	return rec, nil
}

func (repo *feeRepository) GetFeeByID(ctx context.Context, scope core.TenantScope, id string) (fee.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rec, ok := repo.db.table[id]
	if !ok || !repo.inScope(scope, rec) {
		return fee.Record{}, fee.ErrNotFound
	}
	return *rec, nil
}

func (repo *feeRepository) FilterFees(
	ctx context.Context,
	scope core.TenantScope,
	filter fee.QueryFilter,
	ordering []core.DBOrdering,
) ([]fee.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]fee.Record, 0)
	for _, id := range repo.db.order {
		rec, ok := repo.db.table[id]
		if !ok || !repo.inScope(scope, rec) {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.Month != "" && rec.Month != filter.Month {
			continue
		}
		if filter.PaymentStatus != "" && rec.PaymentStatus != filter.PaymentStatus {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (repo *feeRepository) UpdateFee(ctx context.Context, rec fee.Record) (fee.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[rec.ID]
	if !ok {
		return fee.Record{}, fee.ErrNotFound
	}

	orig.Amount = rec.Amount
	orig.DueDate = rec.DueDate
	orig.PaymentStatus = rec.PaymentStatus
	orig.PaidDate = rec.PaidDate
	orig.Remarks = rec.Remarks
	orig.UpdatedAt = rec.UpdatedAt
	return *orig, nil
}

func (repo *feeRepository) DeleteFeesByID(ctx context.Context, ids ...string) error {
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
