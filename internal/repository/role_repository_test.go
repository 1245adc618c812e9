package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visage-campus/visage-backend/internal/domain"
)

func TestRoleRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRoleRepository(db)

	mock.ExpectQuery(`SELECT role_id, role_name\s+FROM roles\s+ORDER BY role_id`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name"}).
			AddRow(1, "admin").AddRow(2, "faculty").AddRow(3, "student"))
	mock.ExpectQuery(`FROM roles WHERE role_id=\$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name"}).AddRow(2, "faculty"))
	mock.ExpectQuery(`FROM roles WHERE role_id=\$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	roles, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, domain.RoleStudent, roles[2].Name)

	role, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFaculty, role.Name)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
