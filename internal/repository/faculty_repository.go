package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type FacultyRepository struct {
	pool *pgxpool.Pool
}

func NewFacultyRepository(pool *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{pool: pool}
}

func (r *FacultyRepository) ListByDepartment(ctx context.Context, departmentID string) ([]model.Faculty, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, department_id, COALESCE(specialization, ''), years_of_experience, created_at
		 FROM faculty WHERE department_id = $1 ORDER BY name ASC`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faculty []model.Faculty
	for rows.Next() {
		var f model.Faculty
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.DepartmentID, &f.Specialization,
			&f.YearsOfExperience, &f.CreatedAt); err != nil {
			return nil, err
		}
		faculty = append(faculty, f)
	}
	return faculty, rows.Err()
}

func (r *FacultyRepository) Create(ctx context.Context, f *model.Faculty) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO faculty (id, name, email, department_id, specialization, years_of_experience)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		 ON CONFLICT (email) DO UPDATE SET years_of_experience = EXCLUDED.years_of_experience
		 RETURNING id, created_at`,
		f.ID, f.Name, f.Email, f.DepartmentID, f.Specialization, f.YearsOfExperience).
		Scan(&f.ID, &f.CreatedAt)
}
