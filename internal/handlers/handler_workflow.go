package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// verifySender godoc
// @Summary Sender verification
// @Description Records the sending department's per-document check and moves the draft to verified_by_sender
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param verification body dto.VerifySenderRequest true "Per-document outcomes"
// @Success 200 {object} dto.DistributionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or document not in the bundle"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution is not a draft"
// @Failure 500 {object} ErrorResponse "Failed to verify distribution"
// @Security BearerAuth
// @Router /distributions/{id}/verify-sender [post]
func (h *distributionHandler) verifySender(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifySenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VerifySender", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	d, err := h.distributionService.VerifySender(c.Request.Context(), actor, c.Param("id"), req)
	h.respondTransition(c, d, err, "Failed to verify distribution")
}

// send godoc
// @Summary Send a distribution
// @Tags workflow
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.DistributionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution is not verified by the sender"
// @Failure 500 {object} ErrorResponse "Failed to send distribution"
// @Security BearerAuth
// @Router /distributions/{id}/send [post]
func (h *distributionHandler) send(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	d, err := h.distributionService.Send(c.Request.Context(), actor, c.Param("id"))
	h.respondTransition(c, d, err, "Failed to send distribution")
}

// receive godoc
// @Summary Receive a distribution
// @Description Marks the distribution received and relocates every bundled document to the destination
// @Tags workflow
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.DistributionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution has not been sent"
// @Failure 500 {object} ErrorResponse "Failed to receive distribution"
// @Security BearerAuth
// @Router /distributions/{id}/receive [post]
func (h *distributionHandler) receive(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	d, err := h.distributionService.Receive(c.Request.Context(), actor, c.Param("id"))
	h.respondTransition(c, d, err, "Failed to receive distribution")
}

// verifyReceiver godoc
// @Summary Receiver verification
// @Description Records the receiving department's check. Missing or damaged documents are returned
// @Description with 422 unless forceCompleteWithDiscrepancies is set.
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param verification body dto.VerifyReceiverRequest true "Per-document outcomes"
// @Success 200 {object} dto.DistributionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or document not in the bundle"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution has not been received"
// @Failure 422 {object} dto.DiscrepancyPendingResponse "Discrepancies need confirmation"
// @Failure 500 {object} ErrorResponse "Failed to verify distribution"
// @Security BearerAuth
// @Router /distributions/{id}/verify-receiver [post]
func (h *distributionHandler) verifyReceiver(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifyReceiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VerifyReceiver", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	d, err := h.distributionService.VerifyReceiver(c.Request.Context(), actor, c.Param("id"), req)
	h.respondTransition(c, d, err, "Failed to verify distribution")
}

// complete godoc
// @Summary Complete a distribution
// @Tags workflow
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.DistributionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Distribution not found"
// @Failure 409 {object} ErrorResponse "Distribution is not verified by the receiver"
// @Failure 500 {object} ErrorResponse "Failed to complete distribution"
// @Security BearerAuth
// @Router /distributions/{id}/complete [post]
func (h *distributionHandler) complete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	d, err := h.distributionService.Complete(c.Request.Context(), actor, c.Param("id"))
	h.respondTransition(c, d, err, "Failed to complete distribution")
}

func (h *distributionHandler) respondTransition(c *gin.Context, d *domain.Distribution, err error, fallback string) {
	if err != nil {
		respondWithError(c, err, fallback)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Distribution advanced",
		slog.String("distribution_id", d.DistributionID),
		slog.String("status", string(d.Status)))
	c.JSON(http.StatusOK, dto.ToDistributionResponse(d))
}
