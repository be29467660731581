package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/student"
)

const studentCols = "id, center_id, name, grade, subject, parent_id, parent_phone, is_active, created_at, updated_at"

var studentSortable = sortable("name", "grade", "subject", "is_active", "created_at")

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	const stmt = `
INSERT INTO students (center_id, name, grade, subject, parent_id, parent_phone, is_active, created_at, updated_at)
VALUES (:center_id, :name, :grade, :subject, :parent_id, :parent_phone, :is_active, :created_at, :updated_at)
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, s)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.Scan(&s.ID); err != nil {
			return student.Student{}, errors.Wrap(err, "scanning student id")
		}
	}
	return s, errors.Wrap(rows.Err(), "creating student")
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, scope core.TenantScope, id string) (student.Student, error) {
	q := new(query)
	q.where("id = ?", id)
	q.scopeStudentRows(scope)

	var s student.Student
	if err := repo.db.GetContext(ctx, &s, "SELECT "+studentCols+" FROM students"+q.clause(), q.args...); err != nil {
		if isNoRows(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

func (repo *studentRepository) FilterStudents(
	ctx context.Context,
	scope core.TenantScope,
	filter student.QueryFilter,
	ordering []core.DBOrdering,
) ([]student.Student, error) {
	q := new(query)
	q.scopeStudentRows(scope)
	if filter.CenterID != "" {
		q.where("center_id = ?", filter.CenterID)
	}
	if filter.Grade != "" {
		q.where("LOWER(grade) = LOWER(?)", filter.Grade)
	}
	if filter.Subject != "" {
		q.where("LOWER(subject) = LOWER(?)", filter.Subject)
	}
	if filter.IsActive != nil {
		q.where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		q.where("name ILIKE ?", "%"+filter.Search+"%")
	}

	students := make([]student.Student, 0)
	stmt := "SELECT " + studentCols + " FROM students" + q.clause() + orderBy(ordering, studentSortable, "name")
	if err := repo.db.SelectContext(ctx, &students, stmt, q.args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student, isActive *bool) (student.Student, error) {
	q := new(query)
	if s.Name != "" {
		q.where("name = ?", s.Name)
	}
	if s.Grade != "" {
		q.where("grade = ?", s.Grade)
	}
	q.where("subject = ?", s.Subject)
	q.where("parent_id = ?", s.ParentID)
	q.where("parent_phone = ?", s.ParentPhone)
	if isActive != nil {
		q.where("is_active = ?", *isActive)
	}
	q.where("updated_at = ?", s.UpdatedAt)

	sets := q.conds
	q.conds = nil
	q.where("id = ?", s.ID)

	stmt := "UPDATE students SET " + joinSets(sets) + q.clause() + " RETURNING " + studentCols
	var updated student.Student
	if err := repo.db.GetContext(ctx, &updated, stmt, q.args...); err != nil {
		if isNoRows(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return updated, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM students WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting students")
}
