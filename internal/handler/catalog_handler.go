package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/citlabs/labsched-backend/internal/response"
	"github.com/citlabs/labsched-backend/internal/service"
)

// CatalogHandler serves the reference data the scheduling form is built
// from: regulations, departments, labs, faculty, phases and exam cycles.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListRegulations godoc
// GET /api/v1/catalog/regulations
func (h *CatalogHandler) ListRegulations(c *gin.Context) {
	regulations, err := h.catalogService.GetRegulations(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"regulations": regulations})
}

// ListDepartments godoc
// GET /api/v1/catalog/departments?regulation_id=...
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	regulationID := c.Query("regulation_id")
	if regulationID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	departments, err := h.catalogService.GetDepartments(c.Request.Context(), regulationID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"departments": departments})
}

// GetDepartment godoc
// GET /api/v1/catalog/departments/:id
func (h *CatalogHandler) GetDepartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	department, err := h.catalogService.GetDepartment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"department": department})
}

// ListLabs godoc
// GET /api/v1/catalog/labs?department_id=...
// Lab order matters: the allocation generator fills labs in the order
// returned here.
func (h *CatalogHandler) ListLabs(c *gin.Context) {
	departmentID := c.Query("department_id")
	if departmentID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	labs, err := h.catalogService.GetLabs(c.Request.Context(), departmentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"labs": labs})
}

// ListFaculty godoc
// GET /api/v1/catalog/faculty?department_id=...
func (h *CatalogHandler) ListFaculty(c *gin.Context) {
	departmentID := c.Query("department_id")
	if departmentID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	faculty, err := h.catalogService.GetFaculty(c.Request.Context(), departmentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": faculty})
}

// ListPhases godoc
// GET /api/v1/catalog/phases
func (h *CatalogHandler) ListPhases(c *gin.Context) {
	phases, err := h.catalogService.GetPhases(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"phases": phases})
}

// ListCycles godoc
// GET /api/v1/catalog/cycles
func (h *CatalogHandler) ListCycles(c *gin.Context) {
	cycles, err := h.catalogService.GetCycles(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cycles": cycles})
}
