package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// referenceHandler serves departments and distribution types.
type referenceHandler struct {
	referenceService portssvc.ReferenceDataSvcFacade
}

func newReferenceHandler(rs portssvc.ReferenceDataSvcFacade) *referenceHandler {
	return &referenceHandler{referenceService: rs}
}

func registerReferenceRoutes(rg *gin.RouterGroup, referenceService portssvc.ReferenceDataSvcFacade) {
	h := newReferenceHandler(referenceService)

	departments := rg.Group("/departments")
	{
		departments.POST("", h.createDepartment)
		departments.GET("", h.listDepartments)
	}

	types := rg.Group("/distribution-types")
	{
		types.POST("", h.createDistributionType)
		types.GET("", h.listDistributionTypes)
	}
}

// createDepartment godoc
// @Summary Create a department
// @Description Registers a department and the location code its documents are relocated to
// @Tags reference
// @Accept json
// @Produce json
// @Param department body dto.CreateDepartmentRequest true "Department details"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} ErrorResponse "Invalid input or duplicate location code"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create department"
// @Security BearerAuth
// @Router /departments [post]
func (h *referenceHandler) createDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDepartment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	dept, err := h.referenceService.CreateDepartment(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create department")
		return
	}

	logger.Info("Department created", slog.String("department_id", dept.DepartmentID))
	c.JSON(http.StatusCreated, dto.ToDepartmentResponse(dept))
}

// listDepartments godoc
// @Summary List departments
// @Tags reference
// @Produce json
// @Success 200 {array} dto.DepartmentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list departments"
// @Security BearerAuth
// @Router /departments [get]
func (h *referenceHandler) listDepartments(c *gin.Context) {
	depts, err := h.referenceService.ListDepartments(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list departments")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentResponses(depts))
}

// createDistributionType godoc
// @Summary Create a distribution type
// @Description Registers a distribution type; its code becomes part of distribution numbers
// @Tags reference
// @Accept json
// @Produce json
// @Param distributionType body dto.CreateDistributionTypeRequest true "Distribution type details"
// @Success 201 {object} dto.DistributionTypeResponse
// @Failure 400 {object} ErrorResponse "Invalid input or duplicate code"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create distribution type"
// @Security BearerAuth
// @Router /distribution-types [post]
func (h *referenceHandler) createDistributionType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDistributionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDistributionType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	dt, err := h.referenceService.CreateDistributionType(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create distribution type")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDistributionTypeResponse(dt))
}

// listDistributionTypes godoc
// @Summary List distribution types
// @Tags reference
// @Produce json
// @Success 200 {array} dto.DistributionTypeResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list distribution types"
// @Security BearerAuth
// @Router /distribution-types [get]
func (h *referenceHandler) listDistributionTypes(c *gin.Context) {
	types, err := h.referenceService.ListDistributionTypes(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list distribution types")
		return
	}
	c.JSON(http.StatusOK, dto.ToDistributionTypeResponses(types))
}
