package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citlabs/labsched-backend/internal/model"
)

type AssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// UpsertBatch writes finalized internal-examiner records in one round
// trip. Records are keyed by (department, subject, date, lab) so saving
// a run again overwrites the previous faculty choice for each slot.
func (r *AssignmentRepository) UpsertBatch(ctx context.Context, records []model.AssignmentRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO internal_assignments
			   (id, department_id, subject_code, date, lab_key, faculty_id, start_date, end_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (department_id, subject_code, date, lab_key)
			 DO UPDATE SET faculty_id = EXCLUDED.faculty_id,
			               start_date = EXCLUDED.start_date,
			               end_date   = EXCLUDED.end_date,
			               updated_at = NOW()`,
			rec.ID, rec.DepartmentID, rec.SubjectCode, rec.Date, rec.LabKey,
			rec.FacultyID, rec.StartDate, rec.EndDate)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert assignment %d: %w", i, err)
		}
	}
	return nil
}

func (r *AssignmentRepository) ListByDepartment(ctx context.Context, departmentID string) ([]model.AssignmentRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, department_id, subject_code, date, lab_key, faculty_id,
		        start_date, end_date, created_at, updated_at
		 FROM internal_assignments
		 WHERE department_id = $1
		 ORDER BY date ASC, subject_code ASC, lab_key ASC`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AssignmentRecord
	for rows.Next() {
		var rec model.AssignmentRecord
		if err := rows.Scan(&rec.ID, &rec.DepartmentID, &rec.SubjectCode, &rec.Date, &rec.LabKey,
			&rec.FacultyID, &rec.StartDate, &rec.EndDate, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
