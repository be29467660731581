package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/exam"
)

const (
	testCols   = "id, center_id, name, subject, grade, date, max_marks, created_at, updated_at"
	resultCols = "id, test_id, student_id, marks_obtained, date_taken, notes, created_at"
)

var testSortable = sortable("name", "subject", "grade", "date", "max_marks", "created_at")

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sqlx.DB) exam.Repository {
	return &examRepository{db: db}
}

func (repo *examRepository) CreateTest(ctx context.Context, t exam.Test) (exam.Test, error) {
	const stmt = `
INSERT INTO tests (center_id, name, subject, grade, date, max_marks, created_at, updated_at)
VALUES (:center_id, :name, :subject, :grade, :date, :max_marks, :created_at, :updated_at)
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, t)
	if err != nil {
		return exam.Test{}, errors.Wrap(err, "creating test")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.Scan(&t.ID); err != nil {
			return exam.Test{}, errors.Wrap(err, "scanning test id")
		}
	}
	return t, errors.Wrap(rows.Err(), "creating test")
}

func (repo *examRepository) GetTestByID(ctx context.Context, scope core.TenantScope, id string) (exam.Test, error) {
	q := new(query)
	q.where("id = ?", id)
	q.scopeCenters(scope, "center_id")

	var t exam.Test
	if err := repo.db.GetContext(ctx, &t, "SELECT "+testCols+" FROM tests"+q.clause(), q.args...); err != nil {
		if isNoRows(err) {
			return exam.Test{}, exam.ErrTestNotFound
		}
		return exam.Test{}, errors.Wrap(err, "getting test")
	}
	return t, nil
}

func (repo *examRepository) FilterTests(
	ctx context.Context,
	scope core.TenantScope,
	filter exam.QueryFilter,
	ordering []core.DBOrdering,
) ([]exam.Test, error) {
	q := new(query)
	q.scopeCenters(scope, "center_id")
	if filter.CenterID != "" {
		q.where("center_id = ?", filter.CenterID)
	}
	if filter.Subject != "" {
		q.where("LOWER(subject) = LOWER(?)", filter.Subject)
	}
	if filter.Grade != "" {
		q.where("LOWER(grade) = LOWER(?)", filter.Grade)
	}
	if filter.Search != "" {
		q.where("name ILIKE ?", "%"+filter.Search+"%")
	}

	tests := make([]exam.Test, 0)
	stmt := "SELECT " + testCols + " FROM tests" + q.clause() + orderBy(ordering, testSortable, "date DESC, name")
	if err := repo.db.SelectContext(ctx, &tests, stmt, q.args...); err != nil {
		return nil, errors.Wrap(err, "filtering tests")
	}
	return tests, nil
}

func (repo *examRepository) UpdateTest(ctx context.Context, t exam.Test) (exam.Test, error) {
	q := new(query)
	if t.Name != "" {
		q.where("name = ?", t.Name)
	}
	if t.Subject != "" {
		q.where("subject = ?", t.Subject)
	}
	if t.Grade.Valid {
		q.where("grade = ?", t.Grade)
	}
	if !t.Date.IsZero() {
		q.where("date = ?", t.Date)
	}
	if t.MaxMarks > 0 {
		q.where("max_marks = ?", t.MaxMarks)
	}
	q.where("updated_at = ?", t.UpdatedAt)

	sets := q.conds
	q.conds = nil
	q.where("id = ?", t.ID)

	stmt := "UPDATE tests SET " + joinSets(sets) + q.clause() + " RETURNING " + testCols
	var updated exam.Test
	if err := repo.db.GetContext(ctx, &updated, stmt, q.args...); err != nil {
		if isNoRows(err) {
			return exam.Test{}, exam.ErrTestNotFound
		}
		return exam.Test{}, errors.Wrap(err, "updating test")
	}
	return updated, nil
}

func (repo *examRepository) DeleteTestsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM tests WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting tests")
}

// CreateResult inserts one result; the (test_id, student_id) unique
// constraint surfaces as exam.ErrResultExists.
func (repo *examRepository) CreateResult(ctx context.Context, r exam.Result) (exam.Result, error) {
	const stmt = `
INSERT INTO test_results (test_id, student_id, marks_obtained, date_taken, notes, created_at)
VALUES (:test_id, :student_id, :marks_obtained, :date_taken, :notes, :created_at)
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, r)
	if err != nil {
		if isUniqueViolation(err, "test_results_test_id_student_id_key") {
			return exam.Result{}, exam.ErrResultExists
		}
		return exam.Result{}, errors.Wrap(err, "creating test result")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.Scan(&r.ID); err != nil {
			return exam.Result{}, errors.Wrap(err, "scanning result id")
		}
	}
	return r, errors.Wrap(rows.Err(), "creating test result")
}

func (repo *examRepository) QueryResultsByTest(ctx context.Context, testID string) ([]exam.Result, error) {
	results := make([]exam.Result, 0)
	stmt := "SELECT " + resultCols + " FROM test_results WHERE test_id = $1 ORDER BY created_at"
	if err := repo.db.SelectContext(ctx, &results, stmt, testID); err != nil {
		return nil, errors.Wrap(err, "querying test results")
	}
	return results, nil
}

func (repo *examRepository) DeleteResultsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM test_results WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting test results")
}
