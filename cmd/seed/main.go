package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/database"
	"github.com/citlabs/labsched-backend/internal/logger"
	"github.com/citlabs/labsched-backend/internal/model"
	"github.com/citlabs/labsched-backend/internal/repository"
)

// Seeds the catalog with a realistic starting dataset: regulations,
// departments, labs, faculty rosters, phases with their session timings
// and the current exam cycles. Every insert is an upsert keyed on the
// natural unique column, so re-running the seeder is safe.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	regulationRepo := repository.NewRegulationRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	labRepo := repository.NewLabRepository(pool)
	facultyRepo := repository.NewFacultyRepository(pool)
	phaseRepo := repository.NewPhaseRepository(pool)
	cycleRepo := repository.NewCycleRepository(pool)

	fmt.Println("=== Seeding Catalog ===")

	// ─── Regulations ───────────────────────────────────────────────────
	regulations := []*model.Regulation{
		{ID: uuid.New().String(), Name: "R2022", Year: 2022},
		{ID: uuid.New().String(), Name: "R2024", Year: 2024},
		{ID: uuid.New().String(), Name: "R2025", Year: 2025},
	}
	for _, reg := range regulations {
		if err := regulationRepo.Create(ctx, reg); err != nil {
			log.Fatal().Err(err).Str("regulation", reg.Name).Msg("Failed to seed regulation")
		}
		fmt.Printf("Regulation %s -> %s\n", reg.Name, reg.ID)
	}
	r2022 := regulations[0]

	// ─── Departments (under R2022) ─────────────────────────────────────
	departments := []*model.Department{
		{ID: uuid.New().String(), Code: "CSE", Name: "Computer Science and Engineering", RegulationID: r2022.ID},
		{ID: uuid.New().String(), Code: "IT", Name: "Information Technology", RegulationID: r2022.ID},
		{ID: uuid.New().String(), Code: "ECE", Name: "Electronics and Communication Engineering", RegulationID: r2022.ID},
		{ID: uuid.New().String(), Code: "EEE", Name: "Electrical and Electronics Engineering", RegulationID: r2022.ID},
		{ID: uuid.New().String(), Code: "MECH", Name: "Mechanical Engineering", RegulationID: r2022.ID},
	}
	for _, d := range departments {
		if err := departmentRepo.Create(ctx, d); err != nil {
			log.Fatal().Err(err).Str("department", d.Code).Msg("Failed to seed department")
		}
		fmt.Printf("Department %s -> %s\n", d.Code, d.ID)
	}
	cse := departments[0]

	// ─── Labs (CSE) ────────────────────────────────────────────────────
	// Creation order matters: the generator fills labs in this order.
	labs := []*model.Lab{
		{ID: uuid.New().String(), Code: "CSL1", Name: "Programming Lab 1", Capacity: 30, DepartmentID: cse.ID},
		{ID: uuid.New().String(), Code: "CSL2", Name: "Programming Lab 2", Capacity: 30, DepartmentID: cse.ID},
		{ID: uuid.New().String(), Code: "CSL3", Name: "Data Structures Lab", Capacity: 24, DepartmentID: cse.ID},
	}
	for _, l := range labs {
		if err := labRepo.Create(ctx, l); err != nil {
			log.Fatal().Err(err).Str("lab", l.Code).Msg("Failed to seed lab")
		}
		fmt.Printf("Lab %s (%d seats) -> %s\n", l.Name, l.Capacity, l.ID)
	}

	// ─── Faculty (CSE) ─────────────────────────────────────────────────
	faculty := []*model.Faculty{
		{ID: uuid.New().String(), Name: "Dr. Ramesh Kumar", Email: "ramesh.kumar@cit.edu.in", DepartmentID: cse.ID, Specialization: "Databases", YearsOfExperience: 12},
		{ID: uuid.New().String(), Name: "Dr. Priya Venkatesan", Email: "priya.v@cit.edu.in", DepartmentID: cse.ID, Specialization: "Networks", YearsOfExperience: 8},
		{ID: uuid.New().String(), Name: "Prof. Anand Raj", Email: "anand.raj@cit.edu.in", DepartmentID: cse.ID, Specialization: "Operating Systems", YearsOfExperience: 5},
		{ID: uuid.New().String(), Name: "Prof. Kavitha M", Email: "kavitha.m@cit.edu.in", DepartmentID: cse.ID, Specialization: "Machine Learning", YearsOfExperience: 3},
		// Below the experience floor: assignable but flagged.
		{ID: uuid.New().String(), Name: "Prof. Balaji S", Email: "balaji.s@cit.edu.in", DepartmentID: cse.ID, YearsOfExperience: 1},
	}
	for _, f := range faculty {
		if err := facultyRepo.Create(ctx, f); err != nil {
			log.Fatal().Err(err).Str("faculty", f.Name).Msg("Failed to seed faculty")
		}
		fmt.Printf("Faculty %s (%d yrs) -> %s\n", f.Name, f.YearsOfExperience, f.ID)
	}

	// ─── Phases + Session Timings ──────────────────────────────────────
	type timing struct {
		label string
		start string
		end   string
	}
	phases := []struct {
		phase   *model.Phase
		timings []timing
	}{
		{
			phase: &model.Phase{ID: uuid.New().String(), Name: "Phase 1", YearGroup: "IV Year", SessionsPerDay: 2},
			timings: []timing{
				{"08:30 AM - 11:30 AM", "08:30", "11:30"},
				{"12:00 PM - 03:00 PM", "12:00", "15:00"},
			},
		},
		{
			phase: &model.Phase{ID: uuid.New().String(), Name: "Phase 2", YearGroup: "III Year", SessionsPerDay: 2},
			timings: []timing{
				{"08:30 AM - 11:30 AM", "08:30", "11:30"},
				{"12:00 PM - 03:00 PM", "12:00", "15:00"},
			},
		},
		{
			phase: &model.Phase{ID: uuid.New().String(), Name: "Phase 3", YearGroup: "II Year", SessionsPerDay: 3},
			timings: []timing{
				{"08:30 AM - 11:30 AM", "08:30", "11:30"},
				{"12:00 PM - 03:00 PM", "12:00", "15:00"},
				{"01:30 PM - 03:30 PM", "13:30", "15:30"},
			},
		},
	}
	for _, p := range phases {
		if err := phaseRepo.Create(ctx, p.phase); err != nil {
			log.Fatal().Err(err).Str("phase", p.phase.Name).Msg("Failed to seed phase")
		}
		for _, t := range p.timings {
			st := &model.SessionTiming{
				ID:        uuid.New().String(),
				PhaseID:   p.phase.ID,
				Label:     t.label,
				StartTime: t.start,
				EndTime:   t.end,
			}
			if err := phaseRepo.CreateTiming(ctx, st); err != nil {
				log.Fatal().Err(err).Str("phase", p.phase.Name).Msg("Failed to seed session timing")
			}
		}
		fmt.Printf("Phase %s (%s, %d sessions/day)\n", p.phase.Name, p.phase.YearGroup, p.phase.SessionsPerDay)
	}

	// ─── Exam Cycles ───────────────────────────────────────────────────
	cycles := []*model.ExamCycle{
		{
			ID:        uuid.New().String(),
			Name:      "April - May 2026",
			StartDate: time.Date(2026, time.April, 13, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.May, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        uuid.New().String(),
			Name:      "November - December 2026",
			StartDate: time.Date(2026, time.November, 9, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.December, 18, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, c := range cycles {
		if err := cycleRepo.Create(ctx, c); err != nil {
			log.Fatal().Err(err).Str("cycle", c.Name).Msg("Failed to seed exam cycle")
		}
		fmt.Printf("Exam cycle %s\n", c.Name)
	}

	fmt.Println("=== Seeding complete ===")
}
