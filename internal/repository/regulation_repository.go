package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type RegulationRepository struct {
	pool *pgxpool.Pool
}

func NewRegulationRepository(pool *pgxpool.Pool) *RegulationRepository {
	return &RegulationRepository{pool: pool}
}

func (r *RegulationRepository) GetAll(ctx context.Context) ([]model.Regulation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, year, created_at FROM regulations ORDER BY year DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regulations []model.Regulation
	for rows.Next() {
		var reg model.Regulation
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Year, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regulations = append(regulations, reg)
	}
	return regulations, rows.Err()
}

func (r *RegulationRepository) Create(ctx context.Context, reg *model.Regulation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO regulations (id, name, year) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET year = EXCLUDED.year
		 RETURNING id, created_at`,
		reg.ID, reg.Name, reg.Year).Scan(&reg.ID, &reg.CreatedAt)
}
