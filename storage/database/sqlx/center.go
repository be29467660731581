package sqlxdb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/center"
)

const centerCols = "id, name, address, phone, is_active, created_at, updated_at"

var centerSortable = sortable("name", "is_active", "created_at")

type centerRepository struct {
	db *sqlx.DB
}

var _ center.Repository = (*centerRepository)(nil) // interface compliance check

func NewCenterRepository(db *sqlx.DB) center.Repository {
	return &centerRepository{db: db}
}

func (repo *centerRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...center.Center) error {
	q := new(query)
	q.where("LOWER(name) = LOWER(?)", name)
	if len(excluded) > 0 {
		exclIDs := make([]string, 0, len(excluded))
		for _, c := range excluded {
			exclIDs = append(exclIDs, c.ID)
		}
		q.where("NOT (id = ANY(?))", pqStrArray(exclIDs))
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM centers"+q.clause()+")", q.args...); err != nil {
		return errors.Wrap(err, "checking center name uniqueness")
	}
	if exists {
		return center.ErrNameExists
	}
	return nil
}

func (repo *centerRepository) CreateCenter(ctx context.Context, c center.Center) (center.Center, error) {
	const stmt = `
INSERT INTO centers (name, address, phone, is_active, created_at, updated_at)
VALUES (:name, :address, :phone, :is_active, :created_at, :updated_at)
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, c)
	if err != nil {
		if isUniqueViolation(err, "centers_name_idx") {
			return center.Center{}, center.ErrNameExists
		}
		return center.Center{}, errors.Wrap(err, "creating center")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.Scan(&c.ID); err != nil {
			return center.Center{}, errors.Wrap(err, "scanning center id")
		}
	}
	return c, errors.Wrap(rows.Err(), "creating center")
}

func (repo *centerRepository) GetCenterByID(ctx context.Context, id string) (center.Center, error) {
	var c center.Center
	if err := repo.db.GetContext(ctx, &c, "SELECT "+centerCols+" FROM centers WHERE id = $1", id); err != nil {
		if isNoRows(err) {
			return center.Center{}, center.ErrNotFound
		}
		return center.Center{}, errors.Wrap(err, "getting center")
	}
	return c, nil
}

func (repo *centerRepository) QueryCenters(ctx context.Context, ordering []core.DBOrdering) ([]center.Center, error) {
	centers := make([]center.Center, 0)
	stmt := "SELECT " + centerCols + " FROM centers" + orderBy(ordering, centerSortable, "name")
	if err := repo.db.SelectContext(ctx, &centers, stmt); err != nil {
		return nil, errors.Wrap(err, "querying centers")
	}
	return centers, nil
}

func (repo *centerRepository) UpdateCenter(ctx context.Context, c center.Center, isActive *bool) (center.Center, error) {
	q := new(query)
	if c.Name != "" {
		q.where("name = ?", c.Name)
	}
	if c.Address.Valid {
		q.where("address = ?", c.Address)
	}
	if c.Phone.Valid {
		q.where("phone = ?", c.Phone)
	}
	if isActive != nil {
		q.where("is_active = ?", *isActive)
	}
	q.where("updated_at = ?", c.UpdatedAt)

	sets := q.conds
	q.conds = nil
	q.where("id = ?", c.ID)

	stmt := "UPDATE centers SET " + joinSets(sets) + q.clause() + " RETURNING " + centerCols
	var updated center.Center
	if err := repo.db.GetContext(ctx, &updated, stmt, q.args...); err != nil {
		if isNoRows(err) {
			return center.Center{}, center.ErrNotFound
		}
		if isUniqueViolation(err, "centers_name_idx") {
			return center.Center{}, center.ErrNameExists
		}
		return center.Center{}, errors.Wrap(err, "updating center")
	}
	return updated, nil
}

func (repo *centerRepository) DeleteCentersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM centers WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting centers")
}
