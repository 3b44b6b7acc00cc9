package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// locationHandler exposes the document location ledger.
type locationHandler struct {
	locationService portssvc.LocationSvcFacade
}

func newLocationHandler(ls portssvc.LocationSvcFacade) *locationHandler {
	return &locationHandler{locationService: ls}
}

func registerLocationRoutes(rg *gin.RouterGroup, locationService portssvc.LocationSvcFacade) {
	h := newLocationHandler(locationService)

	documents := rg.Group("/documents/:kind/:id")
	{
		documents.GET("/location", h.getCurrentLocation)
		documents.GET("/locations", h.listLocationHistory)
		documents.POST("/relocate", h.relocateDocument)
	}
}

// getCurrentLocation godoc
// @Summary Get a document's current location
// @Description Latest ledger entry, falling back to the location stored on the document
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind" Enums(invoice, additional_document)
// @Param id path string true "Document ID"
// @Success 200 {object} dto.CurrentLocationResponse
// @Failure 400 {object} ErrorResponse "Unknown document kind"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Failed to resolve location"
// @Security BearerAuth
// @Router /documents/{kind}/{id}/location [get]
func (h *locationHandler) getCurrentLocation(c *gin.Context) {
	ref, ok := documentRefParam(c, "kind", "id")
	if !ok {
		return
	}

	loc, err := h.locationService.GetCurrentLocation(c.Request.Context(), ref)
	if err != nil {
		respondWithError(c, err, "Failed to resolve location")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrentLocationResponse(loc))
}

// listLocationHistory godoc
// @Summary List a document's location history
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind" Enums(invoice, additional_document)
// @Param id path string true "Document ID"
// @Success 200 {array} dto.LocationRecordResponse
// @Failure 400 {object} ErrorResponse "Unknown document kind"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Failed to list locations"
// @Security BearerAuth
// @Router /documents/{kind}/{id}/locations [get]
func (h *locationHandler) listLocationHistory(c *gin.Context) {
	ref, ok := documentRefParam(c, "kind", "id")
	if !ok {
		return
	}

	records, err := h.locationService.ListLocationHistory(c.Request.Context(), ref)
	if err != nil {
		respondWithError(c, err, "Failed to list locations")
		return
	}
	c.JSON(http.StatusOK, dto.ToLocationRecordResponses(records))
}

// relocateDocument godoc
// @Summary Relocate a document
// @Description Records a manual, corrective relocation outside any distribution
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind" Enums(invoice, additional_document)
// @Param id path string true "Document ID"
// @Param relocation body dto.RelocateDocumentRequest true "Target location and reason"
// @Success 201 {object} dto.LocationRecordResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Failed to relocate document"
// @Security BearerAuth
// @Router /documents/{kind}/{id}/relocate [post]
func (h *locationHandler) relocateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ref, ok := documentRefParam(c, "kind", "id")
	if !ok {
		return
	}
	var req dto.RelocateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RelocateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	record, err := h.locationService.RelocateDocument(c.Request.Context(), actor, ref, req)
	if err != nil {
		respondWithError(c, err, "Failed to relocate document")
		return
	}

	logger.Info("Document relocated", slog.String("document", ref.String()), slog.String("location", record.LocationCode))
	c.JSON(http.StatusCreated, dto.ToLocationRecordResponse(record))
}
