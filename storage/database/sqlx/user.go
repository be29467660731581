package sqlxdb

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const userCols = "id, name, username, email, role, center_id, is_active, password_hash, created_at, updated_at, last_login"

var userSortable = sortable("name", "username", "email", "role", "is_active", "created_at", "last_login")

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	check := func(col, val string) (bool, error) {
		q := new(query)
		q.where("LOWER("+col+") = LOWER(?)", val)
		if len(exclIDs) > 0 {
			q.where("NOT (id = ANY(?))", pqStrArray(exclIDs))
		}
		var exists bool
		err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM users"+q.clause()+")", q.args...)
		return exists, errors.Wrap(err, "checking uniqueness")
	}

	if username != "" {
		if exists, err := check("username", username); err != nil {
			return err
		} else if exists {
			return user.ErrUsernameExists
		}
	}
	if email != "" {
		if exists, err := check("email", email); err != nil {
			return err
		} else if exists {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const stmt = `
INSERT INTO users (name, username, email, role, center_id, is_active, password_hash, created_at, updated_at)
VALUES (:name, :username, :email, :role, :center_id, :is_active, :password_hash, :created_at, :updated_at)
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, repo.db, stmt, usr)
	if err != nil {
		if isUniqueViolation(err, "users_username_idx") {
			return user.User{}, user.ErrUsernameExists
		}
		if isUniqueViolation(err, "users_email_idx") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "creating user")
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err = rows.Scan(&usr.ID); err != nil {
			return user.User{}, errors.Wrap(err, "scanning user id")
		}
	}
	return usr, errors.Wrap(rows.Err(), "creating user")
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	q := new(query)
	switch {
	case filter.ID != "":
		q.where("id = ?", filter.ID)
	case filter.Username != "":
		q.where("LOWER(username) = LOWER(?)", filter.Username)
	case filter.Email != "":
		q.where("LOWER(email) = LOWER(?)", filter.Email)
	case filter.UsernameOrEmail != "":
		q.where("(LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?))", filter.UsernameOrEmail, filter.UsernameOrEmail)
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, "SELECT "+userCols+" FROM users"+q.clause(), q.args...); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	q := new(query)
	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		q.where("(name ILIKE ? OR username ILIKE ? OR email ILIKE ?)", pat, pat, pat)
	}
	if filter.Role != "" {
		q.where("role = ?", filter.Role)
	}
	if filter.CenterID != "" {
		q.where("center_id = ?", filter.CenterID)
	}
	if filter.IsActive != nil {
		q.where("is_active = ?", *filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		q.where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		q.where("created_at <= ?", filter.CreatedTo)
	}

	users := make([]user.User, 0)
	stmt := "SELECT " + userCols + " FROM users" + q.clause() + orderBy(ordering, userSortable, "created_at")
	if err := repo.db.SelectContext(ctx, &users, stmt, q.args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	q := new(query)
	set := func(col string, val interface{}) {
		q.where(col+" = ?", val) // conds reused as SET fragments
	}
	if usr.Name != "" {
		set("name", usr.Name)
	}
	if usr.Username != "" {
		set("username", usr.Username)
	}
	if usr.Email != "" {
		set("email", usr.Email)
	}
	if usr.Role != "" {
		set("role", usr.Role)
	}
	if usr.CenterID.Valid {
		set("center_id", usr.CenterID)
	}
	if len(usr.PasswordHash) > 0 {
		set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		set("is_active", *isActive)
	}
	set("updated_at", usr.UpdatedAt)

	sets := q.conds
	q.conds = nil
	q.where("id = ?", usr.ID)

	stmt := "UPDATE users SET " + joinSets(sets) + q.clause() + " RETURNING " + userCols
	var updated user.User
	if err := repo.db.GetContext(ctx, &updated, stmt, q.args...); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		if isUniqueViolation(err, "users_username_idx") {
			return user.User{}, user.ErrUsernameExists
		}
		if isUniqueViolation(err, "users_email_idx") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}

func (repo *userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	_, err := repo.db.ExecContext(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", t, id)
	return errors.Wrap(err, "setting last_login")
}

func (repo *userRepository) SetPasswordHash(ctx context.Context, id string, hash []byte) error {
	res, err := repo.db.ExecContext(ctx, "UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3", hash, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "setting password hash")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, "DELETE FROM users WHERE id = ANY($1)", pqStrArray(ids))
	return errors.Wrap(err, "deleting users")
}
