package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
)

const attendanceCols = "id, student_id, date, status, time_in, time_out, created_at, updated_at"

var attendanceSortable = sortable("student_id", "date", "status", "created_at")

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// UpsertDayRecords writes the whole date in one transaction so readers
// never observe it half-written.
func (repo *attendanceRepository) UpsertDayRecords(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	const stmt = `
INSERT INTO attendance_records (student_id, date, status, time_in, time_out, created_at, updated_at)
VALUES (:student_id, :date, :status, :time_in, :time_out, :created_at, :updated_at)
ON CONFLICT (student_id, date) DO UPDATE
SET status = EXCLUDED.status, time_in = EXCLUDED.time_in, time_out = EXCLUDED.time_out, updated_at = EXCLUDED.updated_at
RETURNING ` + attendanceCols

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stored := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		rows, err := sqlx.NamedQueryContext(ctx, tx, stmt, rec)
		if err != nil {
			return nil, errors.Wrap(err, "upserting attendance record")
		}
		if rows.Next() {
			err = rows.StructScan(&rec)
		}
		if closeErr := rows.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, errors.Wrap(err, "scanning attendance record")
		}
		stored = append(stored, rec)
	}
	return stored, errors.Wrap(tx.Commit(), "committing day records")
}

func (repo *attendanceRepository) FilterRecords(
	ctx context.Context,
	scope core.TenantScope,
	filter attendance.QueryFilter,
	ordering []core.DBOrdering,
) ([]attendance.Record, error) {
	q := new(query)
	q.scopeStudents(scope, "student_id")
	if filter.StudentID != "" {
		q.where("student_id = ?", filter.StudentID)
	}
	if !filter.From.IsZero() {
		q.where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q.where("date <= ?", filter.To)
	}
	if filter.Status != "" {
		q.where("status = ?", filter.Status)
	}

	records := make([]attendance.Record, 0)
	stmt := "SELECT " + attendanceCols + " FROM attendance_records" + q.clause() + orderBy(ordering, attendanceSortable, "date, student_id")
	if err := repo.db.SelectContext(ctx, &records, stmt, q.args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendance records")
	}
	return records, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, scope core.TenantScope, id string) (attendance.Record, error) {
	q := new(query)
	q.where("id = ?", id)
	q.scopeStudents(scope, "student_id")

	var rec attendance.Record
	if err := repo.db.GetContext(ctx, &rec, "SELECT "+attendanceCols+" FROM attendance_records"+q.clause(), q.args...); err != nil {
		if isNoRows(err) {
			return attendance.Record{}, attendance.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM attendance_records WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting attendance records")
}
