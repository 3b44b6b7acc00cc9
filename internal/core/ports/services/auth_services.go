package services

import (
	"context"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
)

// TokenSvc issues access tokens.
type TokenSvc interface {
	// GenerateAccessToken signs a JWT carrying the user id and acting department.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
