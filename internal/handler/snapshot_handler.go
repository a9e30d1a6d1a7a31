package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citlabs/labsched-backend/internal/response"
	"github.com/citlabs/labsched-backend/internal/service"
	"github.com/citlabs/labsched-backend/internal/store"
	"github.com/citlabs/labsched-backend/internal/validator"
)

// SnapshotHandler manages the saved-allocation collection: save, list,
// remove and reorder.
type SnapshotHandler struct {
	scheduleService *service.ScheduleService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(scheduleService *service.ScheduleService) *SnapshotHandler {
	return &SnapshotHandler{scheduleService: scheduleService}
}

// Save godoc
// POST /api/v1/admin/snapshots
// Upserts one department's finalized run. Re-saving the same
// (department, phase, regulation) key replaces the payload in place.
func (h *SnapshotHandler) Save(c *gin.Context) {
	var req service.SaveSnapshotRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if len(req.Rows) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrNothingToSave)
		return
	}

	snap, err := h.scheduleService.SaveSnapshot(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"snapshot": snap})
}

// List godoc
// GET /api/v1/admin/snapshots?phase=...&regulation_id=...
// Empty filter components match everything.
func (h *SnapshotHandler) List(c *gin.Context) {
	snaps := h.scheduleService.Snapshots().List(c.Query("phase"), c.Query("regulation_id"))
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	response.Success(c, http.StatusOK, gin.H{"snapshots": snaps})
}

// Remove godoc
// DELETE /api/v1/admin/snapshots/:department_id?phase=...&regulation_id=...
// Removing a missing entry succeeds without touching storage.
func (h *SnapshotHandler) Remove(c *gin.Context) {
	departmentID := c.Param("department_id")
	if departmentID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	err := h.scheduleService.Snapshots().Remove(c.Request.Context(), departmentID, c.Query("phase"), c.Query("regulation_id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

type reorderRequest struct {
	Phase        string `json:"phase"`
	RegulationID string `json:"regulation_id"`
	From         int    `json:"from" binding:"min=0"`
	To           int    `json:"to" binding:"min=0"`
}

// Reorder godoc
// POST /api/v1/admin/snapshots/reorder
// Moves an entry within the filtered (phase, regulation) view. Entries
// outside the view keep their positions.
func (h *SnapshotHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.scheduleService.Snapshots().Reorder(c.Request.Context(), req.Phase, req.RegulationID, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrOutOfRange) {
			response.Fail(c, http.StatusBadRequest, response.ErrBadReorder)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reordered": true})
}
