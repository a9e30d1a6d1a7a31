package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type CycleRepository struct {
	pool *pgxpool.Pool
}

func NewCycleRepository(pool *pgxpool.Pool) *CycleRepository {
	return &CycleRepository{pool: pool}
}

func (r *CycleRepository) GetAll(ctx context.Context) ([]model.ExamCycle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, start_date, end_date, created_at FROM exam_cycles ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []model.ExamCycle
	for rows.Next() {
		var c model.ExamCycle
		if err := rows.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

func (r *CycleRepository) Create(ctx context.Context, c *model.ExamCycle) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_cycles (id, name, start_date, end_date) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date
		 RETURNING id, created_at`,
		c.ID, c.Name, c.StartDate, c.EndDate).Scan(&c.ID, &c.CreatedAt)
}
