package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
	"github.com/xuri/excelize/v2"

	"github.com/citlabs/labsched-backend/internal/config"
	"github.com/citlabs/labsched-backend/internal/schedule"
	"github.com/citlabs/labsched-backend/internal/store"
)

const notAssigned = "Not Assigned"

// reportHeaderLines is the fixed institutional header block printed on
// every PDF page.
var reportHeaderLines = []string{
	"ANNA UNIVERSITY :: CHENNAI - 600 025",
	"OFFICE OF THE CONTROLLER OF EXAMINATIONS",
	"(APR/MAY) / (NOV/DEC) EXAMINATIONS",
	"Internal Examiner Allotted Report",
}

var tableHeader = []string{
	"Date", "Session", "Time", "Lab Name", "Subject Code", "Subject Name", "Students", "Faculty",
}

// ExportService renders finalized allocation snapshots as delimited
// text, a multi-sheet workbook, or a paginated PDF report. It never
// mutates its inputs.
type ExportService struct {
	cfg *config.Config
	log zerolog.Logger
	now func() time.Time
}

func NewExportService(cfg *config.Config, log zerolog.Logger) *ExportService {
	return &ExportService{
		cfg: cfg,
		log: log.With().Str("component", "export_service").Logger(),
		now: time.Now,
	}
}

// facultyName resolves the examiner display name for a row: directory
// name first, raw id as fallback, "Not Assigned" when the slot is empty.
func facultyName(snap store.Snapshot, r schedule.Row) string {
	id, ok := snap.AssignedFaculty[schedule.RowKey(r)]
	if !ok || id == "" {
		return notAssigned
	}
	if name, ok := snap.FacultyDirectory[id]; ok && name != "" {
		return name
	}
	return id
}

// CSV renders the snapshots as one delimited table. With more than one
// snapshot the department id and name are prepended to every record.
func (s *ExportService) CSV(snaps []store.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	multi := len(snaps) > 1
	header := tableHeader
	if multi {
		header = append([]string{"Department ID", "Department Name"}, tableHeader...)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, snap := range snaps {
		for _, r := range snap.Rows {
			record := []string{
				r.Date,
				fmt.Sprintf("%d", r.Session),
				r.Time,
				r.LabName,
				r.SubjectCode,
				r.SubjectName,
				fmt.Sprintf("%d", r.StudentsAllocated),
				facultyName(snap, r),
			}
			if multi {
				record = append([]string{snap.DepartmentID, snap.DepartmentName}, record...)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders a workbook with a Summary sheet followed by one sheet per
// department snapshot.
func (s *ExportService) XLSX(snaps []store.Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)
	if err := f.SetSheetRow(summary, "A1", &[]interface{}{
		"#", "Department ID", "Department Name", "Total Allocations", "Created Date",
	}); err != nil {
		return nil, err
	}
	for i, snap := range snaps {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summary, cell, &[]interface{}{
			i + 1, snap.DepartmentID, snap.DepartmentName, len(snap.Rows),
			snap.CreatedAt.Format(schedule.DateLayout),
		}); err != nil {
			return nil, err
		}
	}

	for _, snap := range snaps {
		sheet := sheetName(snap)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		header := make([]interface{}, len(tableHeader))
		for i, h := range tableHeader {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, err
		}

		for i, r := range snap.Rows {
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell, &[]interface{}{
				r.Date, r.Session, r.Time, r.LabName, r.SubjectCode, r.SubjectName,
				r.StudentsAllocated, facultyName(snap, r),
			}); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetName derives a legal worksheet name from the snapshot: department
// name preferred, id as fallback, stripped of characters Excel rejects
// and clipped to the 31-character limit.
func sheetName(snap store.Snapshot) string {
	name := snap.DepartmentName
	if name == "" {
		name = snap.DepartmentID
	}
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name = strings.TrimSpace(replacer.Replace(name))
	if len(name) > 31 {
		name = name[:31]
	}
	if name == "" {
		name = "Department"
	}
	return name
}

// PDF column layout (A4 portrait, 40pt margins, 515pt of usable width).
var pdfCols = []struct {
	title string
	width float64
}{
	{"Date", 58}, {"Sess", 30}, {"Time", 80}, {"Lab Name", 70},
	{"Code", 52}, {"Subject Name", 104}, {"Students", 38}, {"Faculty", 83},
}

const (
	pdfMarginX   = 40.0
	pdfRowHeight = 16.0
	pdfPageBed   = 790.0
)

// PDF renders the paginated report: each department snapshot gets its
// own page with the institutional header, its table and a footer.
func (s *ExportService) PDF(snaps []store.Snapshot) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFont("report", s.cfg.PDFFontPath); err != nil {
		return nil, fmt.Errorf("load report font: %w", err)
	}

	hasLogo := false
	if _, err := os.Stat(s.cfg.PDFLogoPath); err == nil {
		hasLogo = true
	} else {
		s.log.Warn().Str("path", s.cfg.PDFLogoPath).Msg("Report logo missing, rendering text-only header")
	}

	for i, snap := range snaps {
		pdf.AddPage()

		if hasLogo {
			if err := pdf.Image(s.cfg.PDFLogoPath, pdfMarginX, 28, &gopdf.Rect{W: 45, H: 45}); err != nil {
				s.log.Warn().Err(err).Msg("Report logo unreadable, continuing without it")
				hasLogo = false
			}
		}

		y := 30.0
		for j, line := range reportHeaderLines {
			size := 13.0
			if j == 0 {
				size = 14
			}
			if err := s.centeredLine(&pdf, line, size, y); err != nil {
				return nil, err
			}
			y += 16
		}

		y += 8
		deptLine := fmt.Sprintf("Department: %s   (%s)", snap.DepartmentName, snap.DepartmentID)
		if err := s.centeredLine(&pdf, deptLine, 11, y); err != nil {
			return nil, err
		}
		y += 24

		if _, err := s.table(&pdf, snap, y); err != nil {
			return nil, err
		}

		footer := fmt.Sprintf("Generated on %s | Page %d of %d",
			s.now().Format(schedule.DateLayout), i+1, len(snaps))
		if err := pdf.SetFont("report", "", 9); err != nil {
			return nil, err
		}
		pdf.SetXY(pdfMarginX, 820)
		if err := pdf.Cell(nil, footer); err != nil {
			return nil, err
		}
	}

	return pdf.GetBytesPdf(), nil
}

func (s *ExportService) centeredLine(pdf *gopdf.GoPdf, text string, size, y float64) error {
	if err := pdf.SetFont("report", "", size); err != nil {
		return err
	}
	width, err := pdf.MeasureTextWidth(text)
	if err != nil {
		return err
	}
	pageWidth := gopdf.PageSizeA4.W
	pdf.SetXY((pageWidth-width)/2, y)
	return pdf.Cell(nil, text)
}

// table draws the grid for one snapshot, breaking to a fresh page with a
// repeated header row when the bed is reached. Returns the final y.
func (s *ExportService) table(pdf *gopdf.GoPdf, snap store.Snapshot, y float64) (float64, error) {
	if err := s.tableRow(pdf, y, headerCells(), true); err != nil {
		return y, err
	}
	y += pdfRowHeight

	for _, r := range snap.Rows {
		if y+pdfRowHeight > pdfPageBed {
			pdf.AddPage()
			y = 40
			if err := s.tableRow(pdf, y, headerCells(), true); err != nil {
				return y, err
			}
			y += pdfRowHeight
		}

		cells := []string{
			r.Date,
			fmt.Sprintf("%d", r.Session),
			r.Time,
			r.LabName,
			r.SubjectCode,
			r.SubjectName,
			fmt.Sprintf("%d", r.StudentsAllocated),
			facultyName(snap, r),
		}
		if err := s.tableRow(pdf, y, cells, false); err != nil {
			return y, err
		}
		y += pdfRowHeight
	}
	return y, nil
}

func headerCells() []string {
	cells := make([]string, len(pdfCols))
	for i, col := range pdfCols {
		cells[i] = col.title
	}
	return cells
}

func (s *ExportService) tableRow(pdf *gopdf.GoPdf, y float64, cells []string, header bool) error {
	size := 8.0
	if header {
		size = 9
	}
	if err := pdf.SetFont("report", "", size); err != nil {
		return err
	}

	x := pdfMarginX
	for i, col := range pdfCols {
		pdf.SetXY(x, y)
		opt := gopdf.CellOption{
			Border: gopdf.AllBorders,
			Align:  gopdf.Left | gopdf.Middle,
		}
		text := clipText(pdf, cells[i], col.width-4)
		if err := pdf.CellWithOption(&gopdf.Rect{W: col.width, H: pdfRowHeight}, text, opt); err != nil {
			return err
		}
		x += col.width
	}
	return nil
}

// clipText shortens cell text that would overflow its column.
func clipText(pdf *gopdf.GoPdf, text string, maxWidth float64) string {
	for len(text) > 1 {
		w, err := pdf.MeasureTextWidth(text)
		if err != nil || w <= maxWidth {
			return text
		}
		text = text[:len(text)-1]
	}
	return text
}
