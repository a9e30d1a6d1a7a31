package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/model"
	"github.com/citlabs/labsched-backend/internal/repository"
)

// CatalogService reads scheduling reference data. Department, lab,
// faculty, and timing lists are cached in Redis under per-entity keys;
// a cache failure always falls through to PostgreSQL so a flaky cache
// never breaks a fetch.
type CatalogService struct {
	regulationRepo *repository.RegulationRepository
	departmentRepo *repository.DepartmentRepository
	labRepo        *repository.LabRepository
	facultyRepo    *repository.FacultyRepository
	phaseRepo      *repository.PhaseRepository
	cycleRepo      *repository.CycleRepository
	rdb            *redis.Client
	cacheTTL       time.Duration
	log            zerolog.Logger
}

func NewCatalogService(
	regulationRepo *repository.RegulationRepository,
	departmentRepo *repository.DepartmentRepository,
	labRepo *repository.LabRepository,
	facultyRepo *repository.FacultyRepository,
	phaseRepo *repository.PhaseRepository,
	cycleRepo *repository.CycleRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		regulationRepo: regulationRepo,
		departmentRepo: departmentRepo,
		labRepo:        labRepo,
		facultyRepo:    facultyRepo,
		phaseRepo:      phaseRepo,
		cycleRepo:      cycleRepo,
		rdb:            rdb,
		cacheTTL:       cacheTTL,
		log:            log.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *CatalogService) GetRegulations(ctx context.Context) ([]model.Regulation, error) {
	return s.regulationRepo.GetAll(ctx)
}

func (s *CatalogService) GetDepartments(ctx context.Context, regulationID string) ([]model.Department, error) {
	key := config.CacheKey.RegulationDepartmentsKey(regulationID)

	var departments []model.Department
	if ok := s.cacheGet(ctx, key, &departments); ok {
		return departments, nil
	}

	departments, err := s.departmentRepo.ListByRegulation(ctx, regulationID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	s.cacheSet(ctx, key, departments)
	return departments, nil
}

func (s *CatalogService) GetDepartment(ctx context.Context, id string) (*model.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// GetLabs returns the department's labs in generator fill order.
func (s *CatalogService) GetLabs(ctx context.Context, departmentID string) ([]model.Lab, error) {
	key := config.CacheKey.DepartmentLabsKey(departmentID)

	var labs []model.Lab
	if ok := s.cacheGet(ctx, key, &labs); ok {
		return labs, nil
	}

	labs, err := s.labRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	s.cacheSet(ctx, key, labs)
	return labs, nil
}

// GetFaculty returns the department's examiner roster.
func (s *CatalogService) GetFaculty(ctx context.Context, departmentID string) ([]model.Faculty, error) {
	key := config.CacheKey.DepartmentFacultyKey(departmentID)

	var faculty []model.Faculty
	if ok := s.cacheGet(ctx, key, &faculty); ok {
		return faculty, nil
	}

	faculty, err := s.facultyRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	s.cacheSet(ctx, key, faculty)
	return faculty, nil
}

// PhaseWithTimings bundles a phase with its ordered clock slots.
type PhaseWithTimings struct {
	model.Phase
	Timings []model.SessionTiming `json:"timings"`
}

func (s *CatalogService) GetPhases(ctx context.Context) ([]PhaseWithTimings, error) {
	phases, err := s.phaseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}

	out := make([]PhaseWithTimings, 0, len(phases))
	for _, p := range phases {
		key := config.CacheKey.PhaseTimingsKey(p.ID)

		var timings []model.SessionTiming
		if ok := s.cacheGet(ctx, key, &timings); !ok {
			timings, err = s.phaseRepo.ListTimings(ctx, p.ID)
			if err != nil {
				return nil, fmt.Errorf("list timings for %s: %w", p.ID, err)
			}
			s.cacheSet(ctx, key, timings)
		}
		out = append(out, PhaseWithTimings{Phase: p, Timings: timings})
	}
	return out, nil
}

func (s *CatalogService) GetCycles(ctx context.Context) ([]model.ExamCycle, error) {
	return s.cycleRepo.GetAll(ctx)
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache payload unparseable")
		return false
	}
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, val interface{}) {
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
