package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func (r *DepartmentRepository) ListByRegulation(ctx context.Context, regulationID string) ([]model.Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, regulation_id, created_at
		 FROM departments WHERE regulation_id = $1 ORDER BY name ASC`, regulationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.RegulationID, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var d model.Department
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, regulation_id, created_at FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.Code, &d.Name, &d.RegulationID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *model.Department) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO departments (id, code, name, regulation_id) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, regulation_id = EXCLUDED.regulation_id
		 RETURNING id, created_at`,
		d.ID, d.Code, d.Name, d.RegulationID).Scan(&d.ID, &d.CreatedAt)
}
