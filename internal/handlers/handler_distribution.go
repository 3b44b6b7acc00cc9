package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// distributionHandler handles HTTP requests for distributions and their bundles.
type distributionHandler struct {
	distributionService portssvc.DistributionSvcFacade
	manifestService     portssvc.ManifestSvc
}

// newDistributionHandler creates a new distributionHandler.
func newDistributionHandler(ds portssvc.DistributionSvcFacade, ms portssvc.ManifestSvc) *distributionHandler {
	return &distributionHandler{
		distributionService: ds,
		manifestService:     ms,
	}
}

// RegisterDistributionRoutes registers the distribution routes, lifecycle included, on rg.
func RegisterDistributionRoutes(rg *gin.RouterGroup, distributionService portssvc.DistributionSvcFacade, manifestService portssvc.ManifestSvc) {
	h := newDistributionHandler(distributionService, manifestService)

	distributions := rg.Group("/distributions")
	{
		distributions.POST("", h.createDistribution)
		distributions.GET("", h.listDistributions)

		one := distributions.Group("/:id")
		{
			one.GET("", h.getDistribution)
			one.PATCH("", h.updateDistribution)
			one.DELETE("", h.deleteDistribution)

			one.POST("/documents", h.attachDocuments)
			one.DELETE("/documents/:kind/:documentID", h.detachDocument)

			one.POST("/verify-sender", h.verifySender)
			one.POST("/send", h.send)
			one.POST("/receive", h.receive)
			one.POST("/verify-receiver", h.verifyReceiver)
			one.POST("/complete", h.complete)

			one.GET("/history", h.getHistory)
			one.GET("/manifest", h.getManifest)
		}
	}
}

// createDistribution godoc
// @Summary Create a distribution
// @Description Opens a draft and bundles the requested documents. Linked additional documents at the
// @Description same location are auto-included; linked documents elsewhere produce warnings.
// @Tags distributions
// @Accept json
// @Produce json
// @Param distribution body dto.CreateDistributionRequest true "Distribution details"
// @Success 201 {object} dto.CreateDistributionResponse
// @Failure 400 {object} ErrorResponse "Invalid input, unknown reference or document not at the caller's location"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Failed to create distribution"
// @Security BearerAuth
// @Router /distributions [post]
func (h *distributionHandler) createDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDistribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	result, err := h.distributionService.CreateDistribution(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create distribution")
		return
	}

	logger.Info("Distribution created",
		slog.String("distribution_id", result.Distribution.DistributionID),
		slog.String("distribution_number", result.Distribution.DistributionNumber),
		slog.Int("warnings", len(result.Warnings)))
	c.JSON(http.StatusCreated, dto.ToCreateDistributionResponse(result))
}

// listDistributions godoc
// @Summary List distributions
// @Description Newest first, cursor paginated
// @Tags distributions
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Param department_id query string false "Origin or destination department"
// @Param status query string false "Lifecycle status"
// @Param role query string false "Caller's role" Enums(creator, sender_verifier, receiver_verifier, any)
// @Success 200 {object} dto.ListDistributionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list distributions"
// @Security BearerAuth
// @Router /distributions [get]
func (h *distributionHandler) listDistributions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDistributionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDistributions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	items, next, err := h.distributionService.ListDistributions(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list distributions")
		return
	}
	c.JSON(http.StatusOK, dto.ListDistributionsResponse{
		Distributions: dto.ToDistributionResponses(items),
		NextToken:     next,
	})
}

// getDistribution godoc
// @Summary Get a distribution
// @Description Returns the distribution with its bundled documents and their verification state
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.GetDistributionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve distribution"
// @Security BearerAuth
// @Router /distributions/{id} [get]
func (h *distributionHandler) getDistribution(c *gin.Context) {
	detail, err := h.distributionService.GetDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve distribution")
		return
	}
	c.JSON(http.StatusOK, dto.ToGetDistributionResponse(detail))
}

// updateDistribution godoc
// @Summary Update a draft distribution
// @Description Partial update of type, destination or notes. Only drafts can be updated.
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param distribution body dto.UpdateDistributionRequest true "Fields to update"
// @Success 200 {object} dto.DistributionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution is not a draft"
// @Failure 500 {object} ErrorResponse "Failed to update distribution"
// @Security BearerAuth
// @Router /distributions/{id} [patch]
func (h *distributionHandler) updateDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDistribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	d, err := h.distributionService.UpdateDistribution(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update distribution")
		return
	}
	c.JSON(http.StatusOK, dto.ToDistributionResponse(d))
}

// deleteDistribution godoc
// @Summary Delete a draft distribution
// @Description Soft-deletes a draft. Distributions past draft are left alone and reported as not deleted.
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.DeleteDistributionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 500 {object} ErrorResponse "Failed to delete distribution"
// @Security BearerAuth
// @Router /distributions/{id} [delete]
func (h *distributionHandler) deleteDistribution(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	deleted, err := h.distributionService.DeleteDistribution(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to delete distribution")
		return
	}
	c.JSON(http.StatusOK, dto.DeleteDistributionResponse{Deleted: deleted})
}

// attachDocuments godoc
// @Summary Attach documents to a draft
// @Description Bundles more documents with the same auto-include and warning rules as create
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param documents body dto.AttachDocumentsRequest true "Documents to attach"
// @Success 200 {object} dto.CreateDistributionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or document not at the caller's location"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution or document not found"
// @Failure 409 {object} ErrorResponse "Distribution is not a draft"
// @Failure 500 {object} ErrorResponse "Failed to attach documents"
// @Security BearerAuth
// @Router /distributions/{id}/documents [post]
func (h *distributionHandler) attachDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AttachDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AttachDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	result, err := h.distributionService.AttachDocuments(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to attach documents")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreateDistributionResponse(result))
}

// detachDocument godoc
// @Summary Detach a document from a draft
// @Description Detaching an invoice also detaches the additional documents auto-included through it
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Param kind path string true "Document kind" Enums(invoice, additional_document)
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.GetDistributionResponse
// @Failure 400 {object} ErrorResponse "Unknown kind or bundle would become empty"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution or bundled document not found"
// @Failure 409 {object} ErrorResponse "Distribution is not a draft"
// @Failure 500 {object} ErrorResponse "Failed to detach document"
// @Security BearerAuth
// @Router /distributions/{id}/documents/{kind}/{documentID} [delete]
func (h *distributionHandler) detachDocument(c *gin.Context) {
	ref, ok := documentRefParam(c, "kind", "documentID")
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	detail, err := h.distributionService.DetachDocument(c.Request.Context(), actor, c.Param("id"), ref)
	if err != nil {
		respondWithError(c, err, "Failed to detach document")
		return
	}
	c.JSON(http.StatusOK, dto.ToGetDistributionResponse(detail))
}

// getHistory godoc
// @Summary Get a distribution's history
// @Description Audit entries, newest first
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {array} dto.HistoryEntryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve history"
// @Security BearerAuth
// @Router /distributions/{id}/history [get]
func (h *distributionHandler) getHistory(c *gin.Context) {
	entries, err := h.distributionService.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve history")
		return
	}
	c.JSON(http.StatusOK, dto.ToHistoryEntryResponses(entries))
}

// getManifest godoc
// @Summary Get a manifest download link
// @Description Presigned link to the transmittal (sent) or receipt (completed) manifest
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Param event query string true "Manifest event" Enums(sent, completed)
// @Success 200 {object} dto.ManifestURLResponse
// @Failure 400 {object} ErrorResponse "Unknown manifest event"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution has not reached the event yet"
// @Failure 503 {object} ErrorResponse "Manifest archiving is not configured"
// @Failure 500 {object} ErrorResponse "Failed to create manifest link"
// @Security BearerAuth
// @Router /distributions/{id}/manifest [get]
func (h *distributionHandler) getManifest(c *gin.Context) {
	event := domain.NotificationEvent(c.Query("event"))

	url, expiresAt, err := h.manifestService.GetManifestURL(c.Request.Context(), c.Param("id"), event)
	if err != nil {
		respondWithError(c, err, "Failed to create manifest link")
		return
	}
	c.JSON(http.StatusOK, dto.ManifestURLResponse{URL: url, ExpiresAt: expiresAt})
}
