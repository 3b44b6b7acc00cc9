package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/platform/config"
	"github.com/SscSPs/document_distribution_app/internal/utils"
)

type tokenService struct {
	BaseService
	secret string
	expiry time.Duration
	issuer string
}

// NewTokenService creates a token service signing with the configured JWT settings.
func NewTokenService(cfg *config.Config) portssvc.TokenSvc {
	return &tokenService{secret: cfg.JWTSecret, expiry: cfg.JWTExpiryDuration, issuer: cfg.JWTIssuer}
}

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := s.Now().Add(s.expiry)
	token, err := utils.GenerateJWT(user.UserID, user.DepartmentID, s.secret, s.expiry, s.issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
