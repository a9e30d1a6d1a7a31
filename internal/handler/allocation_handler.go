package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citlabs/labsched-backend/internal/response"
	"github.com/citlabs/labsched-backend/internal/schedule"
	"github.com/citlabs/labsched-backend/internal/service"
	"github.com/citlabs/labsched-backend/internal/validator"
)

// AllocationHandler serves the interactive scheduling endpoints:
// allocation preview and faculty assignment validation.
type AllocationHandler struct {
	scheduleService *service.ScheduleService
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(scheduleService *service.ScheduleService) *AllocationHandler {
	return &AllocationHandler{scheduleService: scheduleService}
}

// Preview godoc
// POST /api/v1/admin/allocations/preview
// Generates the allocation table for the requested window without
// persisting anything.
func (h *AllocationHandler) Preview(c *gin.Context) {
	var req service.GenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.scheduleService.Generate(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// AssignFaculty godoc
// POST /api/v1/admin/allocations/assign-faculty
// Validates one proposed assignment against the caller's current map.
// A same-day duplicate is rejected with 409; a low-experience pick is
// accepted with an advisory flag on the result.
func (h *AllocationHandler) AssignFaculty(c *gin.Context) {
	var req service.AssignFacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.scheduleService.AssignFaculty(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, schedule.ErrDuplicateSameDay) {
			response.Fail(c, http.StatusConflict, response.ErrDuplicateSameDay)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// TakenFaculty godoc
// POST /api/v1/admin/allocations/taken
// Returns the faculty ids already booked on a date so the client can
// grey them out in the assignment dropdown.
func (h *AllocationHandler) TakenFaculty(c *gin.Context) {
	var req service.TakenFacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	taken, err := h.scheduleService.TakenFaculty(req)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"taken": taken})
}
