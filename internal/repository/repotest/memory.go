// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/repository"
)

// DefaultRoles mirrors the rows seeded by the identity migration.
var DefaultRoles = []domain.Role{
	{ID: 1, Name: domain.RoleAdmin},
	{ID: 2, Name: domain.RoleFaculty},
	{ID: 3, Name: domain.RoleStudent},
}

// Users is a thread-safe UserRepository. Set Err to make every call fail with it.
type Users struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.User
	roles  map[int]domain.RoleName
	Err    error
}

var _ repository.UserRepository = (*Users)(nil)

// NewUsers returns an empty store that knows the default roles.
func NewUsers() *Users {
	roles := make(map[int]domain.RoleName, len(DefaultRoles))
	for _, r := range DefaultRoles {
		roles[r.ID] = r.Name
	}
	return &Users{rows: make(map[int64]domain.User), roles: roles}
}

// Put inserts or replaces a row directly, assigning an ID when missing.
func (u *Users) Put(user domain.User) domain.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	if user.ID == 0 {
		u.nextID++
		user.ID = u.nextID
	} else if user.ID > u.nextID {
		u.nextID = user.ID
	}
	if user.RoleName == "" {
		user.RoleName = u.roles[user.RoleID]
	}
	if user.RoleID == 0 {
		for id, name := range u.roles {
			if name == user.RoleName {
				user.RoleID = id
			}
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	u.rows[user.ID] = user
	return user
}

// Snapshot returns a copy of the stored row.
func (u *Users) Snapshot(id int64) (domain.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.rows[id]
	return user, ok
}

func (u *Users) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	for _, row := range u.rows {
		if row.IDNumber == user.IDNumber || row.Email == user.Email {
			return domain.ErrDuplicateIdentity
		}
	}
	name, ok := u.roles[user.RoleID]
	if !ok {
		return domain.ErrNotFound
	}
	u.nextID++
	user.ID = u.nextID
	user.RoleName = name
	user.CreatedAt = time.Now().UTC()
	u.rows[user.ID] = *user
	return nil
}

func (u *Users) Update(_ context.Context, id int64, update domain.UserUpdate) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	row, ok := u.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.FullName != nil {
		row.FullName = *update.FullName
	}
	if update.Course != nil {
		row.Course = *update.Course
	}
	if update.RoleID != nil {
		name, known := u.roles[*update.RoleID]
		if !known {
			return domain.ErrNotFound
		}
		row.RoleID, row.RoleName = *update.RoleID, name
	}
	if update.Active != nil {
		row.Active = *update.Active
	}
	u.rows[id] = row
	return nil
}

func (u *Users) UpdateProfile(_ context.Context, id int64, update domain.ProfileUpdate) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	row, ok := u.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Email != nil {
		for otherID, other := range u.rows {
			if otherID != id && other.Email == *update.Email {
				return domain.ErrDuplicateIdentity
			}
		}
		row.Email = *update.Email
	}
	if update.FullName != nil {
		row.FullName = *update.FullName
	}
	if update.Course != nil {
		row.Course = *update.Course
	}
	u.rows[id] = row
	return nil
}

func (u *Users) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	row, ok := u.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.PasswordHash = hash
	u.rows[id] = row
	return nil
}

func (u *Users) Delete(_ context.Context, id int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	if _, ok := u.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(u.rows, id)
	return nil
}

func (u *Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	row, ok := u.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (u *Users) GetByIDNumber(_ context.Context, idNumber string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	for _, row := range u.rows {
		if row.IDNumber == idNumber {
			found := row
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (u *Users) List(_ context.Context) ([]domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	users := make([]domain.User, 0, len(u.rows))
	for _, row := range u.rows {
		users = append(users, row)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (u *Users) ExistsByIDNumberOrEmail(_ context.Context, idNumber, email string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return false, u.Err
	}
	for _, row := range u.rows {
		if row.IDNumber == idNumber || row.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (u *Users) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return false, u.Err
	}
	for id, row := range u.rows {
		if id != excludeID && row.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Roles is a fixed RoleRepository.
type Roles struct {
	Rows []domain.Role
	Err  error
}

var _ repository.RoleRepository = (*Roles)(nil)

// NewRoles returns the default catalogue.
func NewRoles() *Roles {
	return &Roles{Rows: append([]domain.Role(nil), DefaultRoles...)}
}

func (r *Roles) List(_ context.Context) ([]domain.Role, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.Role(nil), r.Rows...), nil
}

func (r *Roles) GetByID(_ context.Context, id int) (*domain.Role, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for _, role := range r.Rows {
		if role.ID == id {
			found := role
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}
