package repository

import (
	"context"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// RoleRepository reads the closed role catalogue.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, id int) (*domain.Role, error)
}

type roleRepository struct {
	db DBTX
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(db DBTX) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `
        SELECT role_id, role_name
        FROM roles
        ORDER BY role_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, mapStoreError(err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err)
	}
	return roles, nil
}

func (r *roleRepository) GetByID(ctx context.Context, id int) (*domain.Role, error) {
	const query = `
        SELECT role_id, role_name
        FROM roles WHERE role_id=$1`

	var role domain.Role
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name); err != nil {
		return nil, mapStoreError(err)
	}
	return &role, nil
}
