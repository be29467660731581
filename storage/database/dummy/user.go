package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	ids := make([]string, 0, len(repo.db.table))
	for id := range repo.db.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	users := make([]user.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, *repo.db.table[id])
	}
	return users
}

func isExcluded(usr user.User, excluded []user.User) bool {
	for _, ex := range excluded {
		if ex.ID == usr.ID {
			return true
		}
	}
	return false
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if isExcluded(usr, excludedUsers) {
			continue
		}
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if usr, ok := repo.db.table[filter.ID]; ok {
			return *usr, nil
		}
	case filter.Username != "":
		for _, usr := range repo.query() {
			if usr.Username == filter.Username {
				return usr, nil
			}
		}
	case filter.Email != "":
		for _, usr := range repo.query() {
			if usr.Email == filter.Email {
				return usr, nil
			}
		}
	case filter.UsernameOrEmail != "":
		for _, usr := range repo.query() {
			if usr.Username == filter.UsernameOrEmail || (usr.Email != "" && usr.Email == filter.UsernameOrEmail) {
				return usr, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query()

	if filter.Search != "" {
		var filtered []user.User
		search := strings.ToLower(filter.Search)
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Username), search) ||
				strings.Contains(strings.ToLower(u.Email), search) ||
				strings.Contains(strings.ToLower(u.Name), search) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if filter.Role != "" {
		var filtered []user.User
		for _, u := range users {
			if u.Role == filter.Role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if filter.CenterID != "" {
		var filtered []user.User
		for _, u := range users {
			if u.CenterID.String == filter.CenterID {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if filter.IsActive != nil {
		var filtered []user.User
		for _, u := range users {
			if u.IsActive == *filter.IsActive {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if !filter.CreatedFrom.IsZero() {
		var filtered []user.User
		from := filter.CreatedFrom.UTC()
		for _, u := range users {
			if !u.CreatedAt.Before(from) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if !filter.CreatedTo.IsZero() {
		var filtered []user.User
		to := filter.CreatedTo.UTC()
		for _, u := range users {
			if !u.CreatedAt.After(to) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Role != "" {
		orig.Role = usr.Role
	}
	if usr.CenterID.Valid {
		orig.CenterID = usr.CenterID
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = usr.UpdatedAt
	return *orig, nil
}

func (repo *userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.LastLogin.SetValid(t.UTC())
	return nil
}

func (repo *userRepository) SetPasswordHash(ctx context.Context, id string, hash []byte) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.PasswordHash = hash
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
