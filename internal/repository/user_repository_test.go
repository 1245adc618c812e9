package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visage-campus/visage-backend/internal/domain"
)

var userColumns = []string{
	"user_id", "id_number", "full_name", "email", "password_hash",
	"course", "role_id", "role_name", "is_active", "created_at",
}

func newUserRepoWithMock(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewUserRepository(db), mock
}

func TestGetByIDNumberJoinsRole(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	created := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .*FROM users u\s+JOIN roles r ON u.role_id = r.role_id\s+WHERE u.id_number=\$1`).
		WithArgs("ADM-001").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "ADM-001", "Campus Admin", "admin@campus.edu", "$2a$hash", nil, 1, "admin", true, created))

	user, err := repo.GetByIDNumber(context.Background(), "ADM-001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, domain.RoleAdmin, user.RoleName)
	assert.Equal(t, "", user.Course)
	assert.True(t, user.Active)
	assert.Equal(t, created, user.CreatedAt)
}

func TestGetByIDNumberNotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`WHERE u.id_number=\$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByIDNumber(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByIDStoreFailure(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`WHERE u.user_id=\$1`).
		WithArgs(int64(9)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCreateReturnsGeneratedFields(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	created := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id_number, full_name, email, password_hash, course, role_id, is_active)`)).
		WithArgs("STU-100", "Ada Student", "ada@campus.edu", "hash", "BSCS", 3, true).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at"}).AddRow(int64(42), created))

	user := &domain.User{
		IDNumber:     "STU-100",
		FullName:     "Ada Student",
		Email:        "ada@campus.edu",
		PasswordHash: "hash",
		Course:       "BSCS",
		RoleID:       3,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, created, user.CreatedAt)
}

func TestCreateDuplicate(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &domain.User{IDNumber: "X", Email: "x@y.z", RoleID: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestUpdateUsesAllowListedColumns(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	name := "New Name"
	role := 2
	active := false

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET full_name=$1, role_id=$2, is_active=$3 WHERE user_id=$4`)).
		WithArgs("New Name", 2, false, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 5, domain.UserUpdate{FullName: &name, RoleID: &role, Active: &active})
	require.NoError(t, err)
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	course := ""

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET course=$1 WHERE user_id=$2`)).
		WithArgs(nil, int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 77, domain.UserUpdate{Course: &course})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateWithoutFieldsIsNoop(t *testing.T) {
	repo, _ := newUserRepoWithMock(t)
	require.NoError(t, repo.Update(context.Background(), 1, domain.UserUpdate{}))
}

func TestUpdateProfile(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	email := "new@campus.edu"
	course := "BSIT"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET email=$1, course=$2 WHERE user_id=$3`)).
		WithArgs("new@campus.edu", "BSIT", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProfile(context.Background(), 3, domain.ProfileUpdate{Email: &email, Course: &course}))
}

func TestUpdatePasswordHashSingleStatement(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash=$1 WHERE user_id=$2`)).
		WithArgs("new-hash", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), 1, "new-hash"))
}

func TestDelete(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE user_id=$1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE user_id=$1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), domain.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`ORDER BY u.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(2), "FAC-002", "Prof B", "b@campus.edu", "h", "Physics", 2, "faculty", true, now).
			AddRow(int64(1), "ADM-001", "Admin", "a@campus.edu", "h", nil, 1, "admin", true, now.Add(-time.Hour)))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "FAC-002", users[0].IDNumber)
	assert.Equal(t, "Physics", users[0].Course)
	assert.Equal(t, domain.RoleFaculty, users[0].RoleName)
}

func TestExistenceChecks(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE id_number=$1 OR email=$2)`)).
		WithArgs("STU-1", "s@campus.edu").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE email=$1 AND user_id<>$2)`)).
		WithArgs("s@campus.edu", int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByIDNumberOrEmail(context.Background(), "STU-1", "s@campus.edu")
	require.NoError(t, err)
	assert.True(t, exists)

	taken, err := repo.EmailTaken(context.Background(), "s@campus.edu", 8)
	require.NoError(t, err)
	assert.False(t, taken)
}
