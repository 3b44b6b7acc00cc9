package services

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/dto"
)

// DepartmentSvc manages departments.
type DepartmentSvc interface {
	CreateDepartment(ctx context.Context, actor domain.Actor, req dto.CreateDepartmentRequest) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
}

// DistributionTypeSvc manages distribution types.
type DistributionTypeSvc interface {
	CreateDistributionType(ctx context.Context, actor domain.Actor, req dto.CreateDistributionTypeRequest) (*domain.DistributionType, error)
	ListDistributionTypes(ctx context.Context) ([]domain.DistributionType, error)
}

// ReferenceDataSvcFacade combines the reference data services
type ReferenceDataSvcFacade interface {
	DepartmentSvc
	DistributionTypeSvc
}
