package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/model"
	"github.com/citlabs/labsched-backend/internal/schedule"
	"github.com/citlabs/labsched-backend/internal/store"
)

// GenerateRequest carries one scheduling run's parameters.
type GenerateRequest struct {
	DepartmentID   string             `json:"department_id" binding:"required"`
	StartDate      string             `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string             `json:"end_date" binding:"required,datetime=2006-01-02"`
	SessionsPerDay int                `json:"sessions_per_day" binding:"required,min=1,max=6"`
	TotalStudents  int                `json:"total_students" binding:"min=0"`
	Subjects       []schedule.Subject `json:"subjects" binding:"required,dive"`
}

// GenerateResult is the allocation table plus per-subject totals.
type GenerateResult struct {
	Rows    []schedule.Row            `json:"rows"`
	Summary []schedule.SubjectSummary `json:"summary"`
}

// AssignFacultyRequest proposes one faculty assignment against the
// caller's current map state.
type AssignFacultyRequest struct {
	DepartmentID string            `json:"department_id" binding:"required"`
	SubjectCode  string            `json:"subject_code" binding:"required"`
	Date         string            `json:"date" binding:"required,datetime=2006-01-02"`
	LabKey       string            `json:"lab_key" binding:"required"`
	FacultyID    string            `json:"faculty_id"`
	Assignments  map[string]string `json:"assignments"`
}

// TakenFacultyRequest asks which faculty are unavailable on a date.
// SubjectCode and LabKey, when set, name the slot being edited so its
// own current assignee is not reported as taken.
type TakenFacultyRequest struct {
	Date        string            `json:"date" binding:"required,datetime=2006-01-02"`
	SubjectCode string            `json:"subject_code"`
	LabKey      string            `json:"lab_key"`
	Assignments map[string]string `json:"assignments"`
}

// AssignFacultyResult returns the verdict and the updated map.
type AssignFacultyResult struct {
	Result      schedule.AssignResult `json:"result"`
	Assignments map[string]string     `json:"assignments"`
}

// SaveSnapshotRequest finalizes a run for one department.
type SaveSnapshotRequest struct {
	DepartmentID   string            `json:"department_id" binding:"required"`
	DepartmentName string            `json:"department_name" binding:"required"`
	RegulationID   string            `json:"regulation_id" binding:"required"`
	Phase          string            `json:"phase" binding:"required"`
	StartDate      string            `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string            `json:"end_date" binding:"required,datetime=2006-01-02"`
	TotalStudents  int               `json:"total_students" binding:"min=0"`
	SessionsPerDay int               `json:"sessions_per_day" binding:"required,min=1"`
	Rows           []schedule.Row    `json:"rows"`
	Assignments    map[string]string `json:"assignments"`
}

// ScheduleService orchestrates allocation generation, faculty
// assignment validation and snapshot persistence.
type ScheduleService struct {
	catalog   *CatalogService
	snapshots *store.SnapshotStore
	rdb       *redis.Client
	log       zerolog.Logger
}

func NewScheduleService(catalog *CatalogService, snapshots *store.SnapshotStore, rdb *redis.Client, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		catalog:   catalog,
		snapshots: snapshots,
		rdb:       rdb,
		log:       log.With().Str("component", "schedule_service").Logger(),
	}
}

// Generate loads the department's labs and produces the allocation
// table. A department with no labs yields an empty table, not an error.
func (s *ScheduleService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	labs, err := s.catalog.GetLabs(ctx, req.DepartmentID)
	if err != nil {
		// Degraded mode: scheduling proceeds with an empty lab list.
		s.log.Warn().Err(err).Str("department_id", req.DepartmentID).Msg("Lab fetch failed, generating empty table")
		labs = nil
	}

	start, err := time.Parse(schedule.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(schedule.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}

	rows := schedule.Generate(schedule.Input{
		StartDate:      start,
		EndDate:        end,
		SessionsPerDay: req.SessionsPerDay,
		TotalStudents:  req.TotalStudents,
		Labs:           labs,
		Subjects:       req.Subjects,
	})

	return &GenerateResult{
		Rows:    rows,
		Summary: schedule.Summarize(rows, req.TotalStudents),
	}, nil
}

// AssignFaculty validates the proposed assignment against the supplied
// map state and the department roster. The map travels with the request
// so the verdict is always computed against the caller's latest state.
func (s *ScheduleService) AssignFaculty(ctx context.Context, req AssignFacultyRequest) (*AssignFacultyResult, error) {
	roster, err := s.catalog.GetFaculty(ctx, req.DepartmentID)
	if err != nil {
		s.log.Warn().Err(err).Str("department_id", req.DepartmentID).Msg("Faculty fetch failed, validating without roster")
		roster = nil
	}

	current, err := parseAssignments(req.Assignments)
	if err != nil {
		return nil, err
	}

	key := schedule.Key{SubjectCode: req.SubjectCode, Date: req.Date, LabKey: req.LabKey}
	res, err := current.Assign(key, req.FacultyID, roster)
	if err != nil {
		return nil, err
	}

	return &AssignFacultyResult{Result: res, Assignments: flattenAssignments(current)}, nil
}

// TakenFaculty reports the faculty ids already booked on the requested
// date, for filtering the assignment dropdown client-side.
func (s *ScheduleService) TakenFaculty(req TakenFacultyRequest) ([]string, error) {
	current, err := parseAssignments(req.Assignments)
	if err != nil {
		return nil, err
	}
	exclude := schedule.Key{SubjectCode: req.SubjectCode, Date: req.Date, LabKey: req.LabKey}
	return current.TakenOn(req.Date, exclude), nil
}

// SaveSnapshot upserts the finalized run into the snapshot store and
// enqueues the assigned slots for durable persistence.
func (s *ScheduleService) SaveSnapshot(ctx context.Context, req SaveSnapshotRequest) (*store.Snapshot, error) {
	assigned, err := parseAssignments(req.Assignments)
	if err != nil {
		return nil, err
	}

	directory := make(map[string]string)
	if roster, err := s.catalog.GetFaculty(ctx, req.DepartmentID); err == nil {
		for _, f := range roster {
			directory[f.ID] = f.Name
		}
	}

	snap := store.Snapshot{
		DepartmentID:     req.DepartmentID,
		DepartmentName:   req.DepartmentName,
		RegulationID:     req.RegulationID,
		Phase:            req.Phase,
		Rows:             req.Rows,
		AssignedFaculty:  assigned,
		FacultyDirectory: directory,
		TotalStudents:    req.TotalStudents,
		SessionsPerDay:   req.SessionsPerDay,
	}
	if err := s.snapshots.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	s.enqueueRecords(ctx, req, assigned)

	saved, _ := s.snapshots.Get(req.DepartmentID, req.Phase, req.RegulationID)
	return &saved, nil
}

// enqueueRecords pushes one finalized record per assigned slot onto the
// persist queue. Queue failures are logged, never surfaced: the snapshot
// save already succeeded and the user can re-save to retry.
func (s *ScheduleService) enqueueRecords(ctx context.Context, req SaveSnapshotRequest, assigned schedule.AssignmentMap) {
	for key, facultyID := range assigned {
		rec := model.AssignmentRecord{
			ID:           uuid.New().String(),
			DepartmentID: req.DepartmentID,
			SubjectCode:  key.SubjectCode,
			Date:         key.Date,
			LabKey:       key.LabKey,
			FacultyID:    facultyID,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAssignmentsQueue, payload).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Enqueue assignment record failed")
			return
		}
	}
}

// Snapshots exposes the underlying store for list/remove/reorder.
func (s *ScheduleService) Snapshots() *store.SnapshotStore {
	return s.snapshots
}

func parseAssignments(flat map[string]string) (schedule.AssignmentMap, error) {
	out := make(schedule.AssignmentMap, len(flat))
	for raw, v := range flat {
		k, err := schedule.ParseKey(raw)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func flattenAssignments(m schedule.AssignmentMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}
