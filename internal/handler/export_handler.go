package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citlabs/labsched-backend/internal/response"
	"github.com/citlabs/labsched-backend/internal/service"
	"github.com/citlabs/labsched-backend/internal/store"
)

// ExportHandler renders saved snapshots as downloadable reports.
type ExportHandler struct {
	scheduleService *service.ScheduleService
	exportService   *service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(scheduleService *service.ScheduleService, exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		scheduleService: scheduleService,
		exportService:   exportService,
	}
}

// Download godoc
// GET /api/v1/admin/export/:format?department_id=...&phase=...&regulation_id=...
// Formats: csv, xlsx, pdf. Without department_id every snapshot matching
// the phase/regulation filter is exported in one document.
func (h *ExportHandler) Download(c *gin.Context) {
	format := c.Param("format")
	departmentID := c.Query("department_id")
	phase := c.Query("phase")
	regulationID := c.Query("regulation_id")

	var snaps []store.Snapshot
	if departmentID != "" {
		snap, ok := h.scheduleService.Snapshots().Get(departmentID, phase, regulationID)
		if ok {
			snaps = []store.Snapshot{snap}
		}
	} else {
		snaps = h.scheduleService.Snapshots().List(phase, regulationID)
	}
	if len(snaps) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNothingToExport)
		return
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.exportService.CSV(snaps)
		contentType = "text/csv"
	case "xlsx":
		data, err = h.exportService.XLSX(snaps)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = h.exportService.PDF(snaps)
		contentType = "application/pdf"
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(format, len(snaps) > 1)))
	c.Data(http.StatusOK, contentType, data)
}

func exportFilename(format string, multi bool) string {
	if multi {
		if format == "csv" {
			return "allocations_all_departments.csv"
		}
		return "All_Departments_Allocation_Report." + format
	}
	return "Internal_Examiner_Allotted_Report." + format
}
