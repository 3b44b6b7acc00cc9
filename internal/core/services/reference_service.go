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
	"github.com/google/uuid"
)

// referenceDataService manages departments and distribution types.
type referenceDataService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepository
	typeRepo       portsrepo.DistributionTypeRepository
}

// NewReferenceDataService creates a new reference data service.
func NewReferenceDataService(departmentRepo portsrepo.DepartmentRepository, typeRepo portsrepo.DistributionTypeRepository) portssvc.ReferenceDataSvcFacade {
	return &referenceDataService{departmentRepo: departmentRepo, typeRepo: typeRepo}
}

var _ portssvc.ReferenceDataSvcFacade = (*referenceDataService)(nil)

func (s *referenceDataService) CreateDepartment(ctx context.Context, actor domain.Actor, req dto.CreateDepartmentRequest) (*domain.Department, error) {
	code := strings.ToUpper(strings.TrimSpace(req.LocationCode))
	if code == "" || strings.Contains(code, "/") {
		return nil, fmt.Errorf("%w: location code %q is not valid", apperrors.ErrValidation, req.LocationCode)
	}

	now := s.Now()
	dept := domain.Department{
		DepartmentID: uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		LocationCode: code,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.departmentRepo.SaveDepartment(ctx, dept); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: location code %s is already in use", apperrors.ErrValidation, code)
		}
		s.LogError(ctx, err, "Failed to save department", slog.String("location_code", code))
		return nil, err
	}
	s.LogInfo(ctx, "Department created", slog.String("department_id", dept.DepartmentID), slog.String("location_code", code))
	return &dept, nil
}

func (s *referenceDataService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departmentRepo.ListDepartments(ctx)
}

func (s *referenceDataService) CreateDistributionType(ctx context.Context, actor domain.Actor, req dto.CreateDistributionTypeRequest) (*domain.DistributionType, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" || strings.Contains(code, "/") {
		return nil, fmt.Errorf("%w: type code %q is not valid", apperrors.ErrValidation, req.Code)
	}

	now := s.Now()
	dtype := domain.DistributionType{
		TypeID:   uuid.NewString(),
		Code:     code,
		Name:     strings.TrimSpace(req.Name),
		Priority: req.Priority,
		Color:    req.Color,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.typeRepo.SaveDistributionType(ctx, dtype); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: distribution type code %s is already in use", apperrors.ErrValidation, code)
		}
		s.LogError(ctx, err, "Failed to save distribution type", slog.String("code", code))
		return nil, err
	}
	return &dtype, nil
}

func (s *referenceDataService) ListDistributionTypes(ctx context.Context) ([]domain.DistributionType, error) {
	return s.typeRepo.ListDistributionTypes(ctx)
}
