package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chapter"
)

const chapterCols = "id, center_id, subject, grade, name, sequence, completed, completed_on, created_at, updated_at"

var chapterSortable = sortable("subject", "grade", "name", "sequence", "completed", "completed_on", "created_at")

type chapterRepository struct {
	db *sqlx.DB
}

var _ chapter.Repository = (*chapterRepository)(nil) // interface compliance check

func NewChapterRepository(db *sqlx.DB) chapter.Repository {
	return &chapterRepository{db: db}
}

func (repo *chapterRepository) CreateChapter(ctx context.Context, c chapter.Chapter) (chapter.Chapter, error) {
	const stmt = `
INSERT INTO chapters (center_id, subject, grade, name, sequence, completed, completed_on, created_at, updated_at)
VALUES (:center_id, :subject, :grade, :name, :sequence, :completed, :completed_on, :created_at, :updated_at)
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, c)
	if err != nil {
		return chapter.Chapter{}, errors.Wrap(err, "creating chapter")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.Scan(&c.ID); err != nil {
			return chapter.Chapter{}, errors.Wrap(err, "scanning chapter id")
		}
	}
	return c, errors.Wrap(rows.Err(), "creating chapter")
}

func (repo *chapterRepository) GetChapterByID(ctx context.Context, scope core.TenantScope, id string) (chapter.Chapter, error) {
	q := new(query)
	q.where("id = ?", id)
	q.scopeCenters(scope, "center_id")

	var c chapter.Chapter
	if err := repo.db.GetContext(ctx, &c, "SELECT "+chapterCols+" FROM chapters"+q.clause(), q.args...); err != nil {
		if isNoRows(err) {
			return chapter.Chapter{}, chapter.ErrNotFound
		}
		return chapter.Chapter{}, errors.Wrap(err, "getting chapter")
	}
	return c, nil
}

func (repo *chapterRepository) FilterChapters(
	ctx context.Context,
	scope core.TenantScope,
	filter chapter.QueryFilter,
	ordering []core.DBOrdering,
) ([]chapter.Chapter, error) {
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
	if filter.Completed != nil {
		q.where("completed = ?", *filter.Completed)
	}

	chapters := make([]chapter.Chapter, 0)
	stmt := "SELECT " + chapterCols + " FROM chapters" + q.clause() + orderBy(ordering, chapterSortable, "sequence, name")
	if err := repo.db.SelectContext(ctx, &chapters, stmt, q.args...); err != nil {
		return nil, errors.Wrap(err, "filtering chapters")
	}
	return chapters, nil
}

func (repo *chapterRepository) UpdateChapter(ctx context.Context, c chapter.Chapter, completed *bool) (chapter.Chapter, error) {
	q := new(query)
	if c.Subject != "" {
		q.where("subject = ?", c.Subject)
	}
	if c.Grade != "" {
		q.where("grade = ?", c.Grade)
	}
	if c.Name != "" {
		q.where("name = ?", c.Name)
	}
	q.where("sequence = ?", c.Sequence)
	q.where("completed_on = ?", c.CompletedOn)
	if completed != nil {
		q.where("completed = ?", *completed)
	}
	q.where("updated_at = ?", c.UpdatedAt)

	sets := q.conds
	q.conds = nil
	q.where("id = ?", c.ID)

	stmt := "UPDATE chapters SET " + joinSets(sets) + q.clause() + " RETURNING " + chapterCols
	var updated chapter.Chapter
	if err := repo.db.GetContext(ctx, &updated, stmt, q.args...); err != nil {
		if isNoRows(err) {
			return chapter.Chapter{}, chapter.ErrNotFound
		}
		return chapter.Chapter{}, errors.Wrap(err, "updating chapter")
	}
	return updated, nil
}

func (repo *chapterRepository) DeleteChaptersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM chapters WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting chapters")
}
