package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/fee"
)

const feeCols = "id, student_id, month, amount, due_date, payment_status, paid_date, remarks, created_at, updated_at"

var feeSortable = sortable("student_id", "month", "amount", "due_date", "payment_status", "paid_date", "created_at")

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) fee.Repository {
	return &feeRepository{db: db}
}

// UpsertFee replaces the (student_id, month) row in a single statement.
func (repo *feeRepository) UpsertFee(ctx context.Context, rec fee.Record) (fee.Record, error) {
	const stmt = `
INSERT INTO fee_records (student_id, month, amount, due_date, payment_status, paid_date, remarks, created_at, updated_at)
VALUES (:student_id, :month, :amount, :due_date, :payment_status, :paid_date, :remarks, :created_at, :updated_at)
ON CONFLICT (student_id, month) DO UPDATE
SET amount = EXCLUDED.amount, due_date = EXCLUDED.due_date, payment_status = EXCLUDED.payment_status,
    paid_date = EXCLUDED.paid_date, remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at
RETURNING ` + feeCols

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, rec)
	if err != nil {
		return fee.Record{}, errors.Wrap(err, "upserting fee record")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.StructScan(&rec); err != nil {
			return fee.Record{}, errors.Wrap(err, "scanning fee record")
		}
	}
	return rec, errors.Wrap(rows.Err(), "upserting fee record")
}

func (repo *feeRepository) GetFeeByID(ctx context.Context, scope core.TenantScope, id string) (fee.Record, error) {
	q := new(query)
	q.where("id = ?", id)
	q.scopeStudents(scope, "student_id")

	var rec fee.Record
	if err := repo.db.GetContext(ctx, &rec, "SELECT "+feeCols+" FROM fee_records"+q.clause(), q.args...); err != nil {
		if isNoRows(err) {
			return fee.Record{}, fee.ErrNotFound
		}
		return fee.Record{}, errors.Wrap(err, "getting fee record")
	}
	return rec, nil
}

func (repo *feeRepository) FilterFees(
	ctx context.Context,
	scope core.TenantScope,
	filter fee.QueryFilter,
	ordering []core.DBOrdering,
) ([]fee.Record, error) {
	q := new(query)
	q.scopeStudents(scope, "student_id")
	if filter.StudentID != "" {
		q.where("student_id = ?", filter.StudentID)
	}
	if filter.Month != "" {
		q.where("month = ?", filter.Month)
	}
	if filter.PaymentStatus != "" {
		q.where("payment_status = ?", filter.PaymentStatus)
	}

	records := make([]fee.Record, 0)
	stmt := "SELECT " + feeCols + " FROM fee_records" + q.clause() + orderBy(ordering, feeSortable, "month, student_id")
	if err := repo.db.SelectContext(ctx, &records, stmt, q.args...); err != nil {
		return nil, errors.Wrap(err, "filtering fee records")
	}
	return records, nil
}

func (repo *feeRepository) UpdateFee(ctx context.Context, rec fee.Record) (fee.Record, error) {
	const stmt = `
UPDATE fee_records
SET amount = :amount, due_date = :due_date, payment_status = :payment_status,
    paid_date = :paid_date, remarks = :remarks, updated_at = :updated_at
WHERE id = :id
RETURNING ` + feeCols

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, rec)
	if err != nil {
		return fee.Record{}, errors.Wrap(err, "updating fee record")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return fee.Record{}, errors.Wrap(err, "updating fee record")
		}
		return fee.Record{}, fee.ErrNotFound
	}
	if err = rows.StructScan(&rec); err != nil {
		return fee.Record{}, errors.Wrap(err, "scanning fee record")
	}
	return rec, nil
}

func (repo *feeRepository) DeleteFeesByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM fee_records WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting fee records")
}
