package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type PhaseRepository struct {
	pool *pgxpool.Pool
}

func NewPhaseRepository(pool *pgxpool.Pool) *PhaseRepository {
	return &PhaseRepository{pool: pool}
}

func (r *PhaseRepository) GetAll(ctx context.Context) ([]model.Phase, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, year_group, sessions_per_day, created_at FROM phases ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []model.Phase
	for rows.Next() {
		var p model.Phase
		if err := rows.Scan(&p.ID, &p.Name, &p.YearGroup, &p.SessionsPerDay, &p.CreatedAt); err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *PhaseRepository) ListTimings(ctx context.Context, phaseID string) ([]model.SessionTiming, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, phase_id, label, start_time, end_time, created_at
		 FROM session_timings WHERE phase_id = $1 ORDER BY start_time ASC`, phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timings []model.SessionTiming
	for rows.Next() {
		var t model.SessionTiming
		if err := rows.Scan(&t.ID, &t.PhaseID, &t.Label, &t.StartTime, &t.EndTime, &t.CreatedAt); err != nil {
			return nil, err
		}
		timings = append(timings, t)
	}
	return timings, rows.Err()
}

func (r *PhaseRepository) Create(ctx context.Context, p *model.Phase) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO phases (id, name, year_group, sessions_per_day) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET sessions_per_day = EXCLUDED.sessions_per_day
		 RETURNING id, created_at`,
		p.ID, p.Name, p.YearGroup, p.SessionsPerDay).Scan(&p.ID, &p.CreatedAt)
}

func (r *PhaseRepository) CreateTiming(ctx context.Context, t *model.SessionTiming) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO session_timings (id, phase_id, label, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (phase_id, label) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
		 RETURNING id, created_at`,
		t.ID, t.PhaseID, t.Label, t.StartTime, t.EndTime).Scan(&t.ID, &t.CreatedAt)
}
