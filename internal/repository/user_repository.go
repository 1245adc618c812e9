package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// UserRepository defines persistence access for identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id int64, update domain.UserUpdate) error
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ExistsByIDNumberOrEmail(ctx context.Context, idNumber, email string) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const selectUserWithRole = `
        SELECT u.user_id, u.id_number, u.full_name, u.email, u.password_hash,
               u.course, u.role_id, r.role_name, u.is_active, u.created_at
        FROM users u
        JOIN roles r ON u.role_id = r.role_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user   domain.User
		course sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.IDNumber,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&course,
		&user.RoleID,
		&user.RoleName,
		&user.Active,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.Course = course.String
	return &user, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id_number, full_name, email, password_hash, course, role_id, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING user_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.IDNumber,
		user.FullName,
		user.Email,
		user.PasswordHash,
		nullableString(user.Course),
		user.RoleID,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)
	return mapStoreError(err)
}

// assignment pairs a fixed column name with its new value.
type assignment struct {
	column string
	value  any
}

// buildUpdate renders a parameterized UPDATE. Column names come only from the allow-lists below.
func buildUpdate(sets []assignment, id int64) (string, []any) {
	clauses := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets)+1)
	for i, set := range sets {
		clauses = append(clauses, fmt.Sprintf("%s=$%d", set.column, i+1))
		args = append(args, set.value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id=$%d", strings.Join(clauses, ", "), len(args))
	return query, args
}

func (r *userRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) error {
	var sets []assignment
	if update.FullName != nil {
		sets = append(sets, assignment{"full_name", *update.FullName})
	}
	if update.Course != nil {
		sets = append(sets, assignment{"course", nullableString(*update.Course)})
	}
	if update.RoleID != nil {
		sets = append(sets, assignment{"role_id", *update.RoleID})
	}
	if update.Active != nil {
		sets = append(sets, assignment{"is_active", *update.Active})
	}
	return r.execUpdate(ctx, sets, id)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) error {
	var sets []assignment
	if update.FullName != nil {
		sets = append(sets, assignment{"full_name", *update.FullName})
	}
	if update.Email != nil {
		sets = append(sets, assignment{"email", *update.Email})
	}
	if update.Course != nil {
		sets = append(sets, assignment{"course", nullableString(*update.Course)})
	}
	return r.execUpdate(ctx, sets, id)
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.execUpdate(ctx, []assignment{{"password_hash", hash}}, id)
}

func (r *userRepository) execUpdate(ctx context.Context, sets []assignment, id int64) error {
	if len(sets) == 0 {
		return nil
	}
	query, args := buildUpdate(sets, id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapStoreError(err)
	}
	return requireAffected(res)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id=$1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapStoreError(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUserWithRole+`
        WHERE u.user_id=$1`, id))
	if err != nil {
		return nil, mapStoreError(err)
	}
	return user, nil
}

func (r *userRepository) GetByIDNumber(ctx context.Context, idNumber string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUserWithRole+`
        WHERE u.id_number=$1`, idNumber))
	if err != nil {
		return nil, mapStoreError(err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserWithRole+`
        ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, mapStoreError(err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err)
	}
	return users, nil
}

func (r *userRepository) ExistsByIDNumberOrEmail(ctx context.Context, idNumber, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id_number=$1 OR email=$2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, idNumber, email).Scan(&exists); err != nil {
		return false, mapStoreError(err)
	}
	return exists, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1 AND user_id<>$2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, mapStoreError(err)
	}
	return exists, nil
}
