package repository

import (
	"context"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ModuleRepository struct {
	pool *pgxpool.Pool
}

func NewModuleRepository(pool *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{pool: pool}
}

func (r *ModuleRepository) Create(ctx context.Context, m *model.CertModule) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO modules (name, description) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		m.Name, m.Description).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *ModuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CertModule, error) {
	m := &model.CertModule{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM modules WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *ModuleRepository) GetAll(ctx context.Context) ([]model.CertModule, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM modules ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []model.CertModule
	for rows.Next() {
		var m model.CertModule
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *ModuleRepository) Update(ctx context.Context, m *model.CertModule) error {
	_, err := r.pool.Exec(ctx, `UPDATE modules SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`, m.Name, m.Description, m.ID)
	return err
}

func (r *ModuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM modules WHERE id = $1`, id)
	return err
}
