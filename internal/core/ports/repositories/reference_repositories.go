package repositories

import (
	"context"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
)

// DepartmentRepository reads and registers departments.
type DepartmentRepository interface {
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	// SaveDepartment returns ErrDuplicate when the location code is taken.
	SaveDepartment(ctx context.Context, department domain.Department) error
}

// DistributionTypeRepository reads and registers distribution types.
type DistributionTypeRepository interface {
	FindDistributionTypeByID(ctx context.Context, typeID string) (*domain.DistributionType, error)
	ListDistributionTypes(ctx context.Context) ([]domain.DistributionType, error)
	// SaveDistributionType returns ErrDuplicate when the code is taken.
	SaveDistributionType(ctx context.Context, distributionType domain.DistributionType) error
}
