package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/dto"
	"github.com/SscSPs/document_distribution_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo       portsrepo.UserRepositoryFacade
	departmentRepo portsrepo.DepartmentRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, departmentRepo portsrepo.DepartmentRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, departmentRepo: departmentRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	if _, err := s.departmentRepo.FindDepartmentByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: department %s does not exist", apperrors.ErrValidation, req.DepartmentID)
		}
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to hash password")
		}
		return nil, err
	}

	now := s.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		PasswordHash: hash,
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID, // self-registration
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %s is taken", apperrors.ErrValidation, user.Username)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("username", user.Username))
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", userID), slog.String("department_id", req.DepartmentID))
	return &user, nil
}

// AuthenticateUser never reveals whether the username or the password was wrong.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if user.DeletedAt != nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}
	return user, nil
}
