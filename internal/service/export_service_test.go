package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/schedule"
	"github.com/citlabs/labsched-backend/internal/store"
)

func exportTestService() *ExportService {
	return NewExportService(&config.Config{}, zerolog.Nop())
}

func exportSnapshot(deptID, deptName string) store.Snapshot {
	rows := []schedule.Row{
		{Date: "2026-04-13", Session: 1, Time: "08:30 AM - 11:30 AM", LabID: "lab-a",
			LabName: "Programming Lab 1", SubjectCode: "CS3451", SubjectName: "Operating Systems Lab", StudentsAllocated: 30},
		{Date: "2026-04-13", Session: 1, Time: "08:30 AM - 11:30 AM", LabID: "lab-b",
			LabName: "Lab, with comma", SubjectCode: "CS3451", SubjectName: "Operating Systems Lab", StudentsAllocated: 12},
	}
	return store.Snapshot{
		DepartmentID:   deptID,
		DepartmentName: deptName,
		RegulationID:   "r2022",
		Phase:          "Phase 1",
		Rows:           rows,
		AssignedFaculty: schedule.AssignmentMap{
			schedule.RowKey(rows[0]): "f-1",
		},
		FacultyDirectory: map[string]string{"f-1": "Dr. Ramesh Kumar"},
		TotalStudents:    42,
		SessionsPerDay:   2,
		CreatedAt:        time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestCSVSingleSnapshot(t *testing.T) {
	svc := exportTestService()
	data, err := svc.CSV([]store.Snapshot{exportSnapshot("cse", "Computer Science and Engineering")})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d", len(records))
	}

	header := records[0]
	if header[0] != "Date" || header[len(header)-1] != "Faculty" {
		t.Errorf("unexpected header: %v", header)
	}

	first := records[1]
	if first[0] != "2026-04-13" || first[1] != "1" || first[3] != "Programming Lab 1" {
		t.Errorf("unexpected first record: %v", first)
	}
	if first[7] != "Dr. Ramesh Kumar" {
		t.Errorf("assigned slot should resolve the directory name, got %q", first[7])
	}

	second := records[2]
	if second[3] != "Lab, with comma" {
		t.Errorf("comma in lab name not quoted through: %q", second[3])
	}
	if second[7] != "Not Assigned" {
		t.Errorf("empty slot should read Not Assigned, got %q", second[7])
	}
}

func TestCSVMultiSnapshotPrependsDepartmentColumns(t *testing.T) {
	svc := exportTestService()
	data, err := svc.CSV([]store.Snapshot{
		exportSnapshot("cse", "Computer Science and Engineering"),
		exportSnapshot("it", "Information Technology"),
	})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header + 4 records, got %d", len(records))
	}

	header := records[0]
	if header[0] != "Department ID" || header[1] != "Department Name" || header[2] != "Date" {
		t.Errorf("multi-department header wrong: %v", header)
	}
	if records[1][0] != "cse" || records[3][0] != "it" {
		t.Errorf("department column wrong: %v / %v", records[1], records[3])
	}
}

func TestCSVFallsBackToFacultyID(t *testing.T) {
	svc := exportTestService()
	snap := exportSnapshot("cse", "Computer Science and Engineering")
	snap.FacultyDirectory = nil

	data, err := svc.CSV([]store.Snapshot{snap})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if records[1][7] != "f-1" {
		t.Errorf("missing directory entry should fall back to the id, got %q", records[1][7])
	}
}

func TestXLSXBuildsSummaryAndDepartmentSheets(t *testing.T) {
	svc := exportTestService()
	data, err := svc.XLSX([]store.Snapshot{
		exportSnapshot("cse", "Computer Science and Engineering"),
		exportSnapshot("it", "Information Technology"),
	})
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Summary" {
		t.Fatalf("sheet list = %v", sheets)
	}

	// Department names clip at the worksheet limit.
	if got := sheets[1]; got != "Computer Science and Engineerin" {
		t.Errorf("first department sheet = %q", got)
	}

	count, err := f.GetCellValue("Summary", "D2")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if count != "2" {
		t.Errorf("summary total allocations = %q, want 2", count)
	}

	faculty, err := f.GetCellValue(sheets[2], "H2")
	if err != nil {
		t.Fatalf("read faculty cell: %v", err)
	}
	if faculty != "Dr. Ramesh Kumar" {
		t.Errorf("faculty cell = %q", faculty)
	}
}

func TestXLSXSheetNameSanitized(t *testing.T) {
	svc := exportTestService()
	snap := exportSnapshot("cse", "CSE: AI/ML [Special]")

	data, err := svc.XLSX([]store.Snapshot{snap})
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheet list = %v", sheets)
	}
	if sheets[1] != "CSE  AI ML  Special" {
		t.Errorf("sanitized sheet name = %q", sheets[1])
	}
}
