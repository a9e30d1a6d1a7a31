package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type LabRepository struct {
	pool *pgxpool.Pool
}

func NewLabRepository(pool *pgxpool.Pool) *LabRepository {
	return &LabRepository{pool: pool}
}

// ListByDepartment returns the department's labs in creation order, which
// is the order the allocation generator fills them in.
func (r *LabRepository) ListByDepartment(ctx context.Context, departmentID string) ([]model.Lab, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, capacity, department_id, created_at
		 FROM labs WHERE department_id = $1 ORDER BY created_at ASC, name ASC`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labs []model.Lab
	for rows.Next() {
		var l model.Lab
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.Capacity, &l.DepartmentID, &l.CreatedAt); err != nil {
			return nil, err
		}
		labs = append(labs, l)
	}
	return labs, rows.Err()
}

func (r *LabRepository) Create(ctx context.Context, l *model.Lab) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO labs (id, code, name, capacity, department_id) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (department_id, code) DO UPDATE SET name = EXCLUDED.name, capacity = EXCLUDED.capacity
		 RETURNING id, created_at`,
		l.ID, l.Code, l.Name, l.Capacity, l.DepartmentID).Scan(&l.ID, &l.CreatedAt)
}
