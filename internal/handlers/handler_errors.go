package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/core/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/SscSPs/document_distribution_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps service errors onto HTTP statuses. Caller errors carry the
// service message; anything unexpected is logged and answered with fallback.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var pending *domain.DiscrepancyPendingError
	switch {
	case errors.As(err, &pending):
		logger.Info("Receiver verification awaiting discrepancy confirmation", slog.Int("discrepancies", len(pending.Discrepancies)))
		c.JSON(http.StatusUnprocessableEntity, dto.ToDiscrepancyPendingResponse(pending))
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, services.ErrManifestsDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// actorOrAbort reads the acting user and department set by the auth middleware.
func actorOrAbort(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}

// documentRefParam reads the :kind and :documentID style path pair.
func documentRefParam(c *gin.Context, kindParam, idParam string) (domain.DocumentRef, bool) {
	ref := domain.DocumentRef{Kind: domain.DocumentKind(c.Param(kindParam)), ID: c.Param(idParam)}
	if !ref.Kind.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown document kind: " + c.Param(kindParam)})
		return domain.DocumentRef{}, false
	}
	return ref, true
}
