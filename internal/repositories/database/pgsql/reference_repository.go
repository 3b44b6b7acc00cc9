package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/SscSPs/document_distribution_app/internal/models"
	"github.com/SscSPs/document_distribution_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxReferenceRepository serves departments and distribution types.
type PgxReferenceRepository struct {
	db PgxPool
}

func newPgxReferenceRepository(db PgxPool) *PgxReferenceRepository {
	return &PgxReferenceRepository{db: db}
}

var (
	_ portsrepo.DepartmentRepository       = (*PgxReferenceRepository)(nil)
	_ portsrepo.DistributionTypeRepository = (*PgxReferenceRepository)(nil)
)

func (r *PgxReferenceRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	query := `
		SELECT department_id, name, location_code, created_at, created_by, last_updated_at, last_updated_by
		FROM departments WHERE department_id = $1;
	`
	var m models.Department
	err := r.db.QueryRow(ctx, query, departmentID).Scan(
		&m.DepartmentID, &m.Name, &m.LocationCode, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: department %s", apperrors.ErrNotFound, departmentID)
		}
		return nil, fmt.Errorf("failed to find department %s: %w", departmentID, err)
	}
	d := mapping.ToDomainDepartment(m)
	return &d, nil
}

func (r *PgxReferenceRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	query := `
		SELECT department_id, name, location_code, created_at, created_by, last_updated_at, last_updated_by
		FROM departments ORDER BY name, department_id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	out := []domain.Department{}
	for rows.Next() {
		var m models.Department
		if err := rows.Scan(&m.DepartmentID, &m.Name, &m.LocationCode, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan department row: %w", err)
		}
		out = append(out, mapping.ToDomainDepartment(m))
	}
	return out, rows.Err()
}

func (r *PgxReferenceRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)
	query := `
		INSERT INTO departments (department_id, name, location_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.DepartmentID, m.Name, m.LocationCode, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: location code %s", apperrors.ErrDuplicate, m.LocationCode)
		}
		return fmt.Errorf("failed to save department: %w", err)
	}
	return nil
}

func (r *PgxReferenceRepository) FindDistributionTypeByID(ctx context.Context, typeID string) (*domain.DistributionType, error) {
	query := `
		SELECT type_id, code, name, priority, color, created_at, created_by, last_updated_at, last_updated_by
		FROM distribution_types WHERE type_id = $1;
	`
	var m models.DistributionType
	err := r.db.QueryRow(ctx, query, typeID).Scan(
		&m.TypeID, &m.Code, &m.Name, &m.Priority, &m.Color, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: distribution type %s", apperrors.ErrNotFound, typeID)
		}
		return nil, fmt.Errorf("failed to find distribution type %s: %w", typeID, err)
	}
	t := mapping.ToDomainDistributionType(m)
	return &t, nil
}

func (r *PgxReferenceRepository) ListDistributionTypes(ctx context.Context) ([]domain.DistributionType, error) {
	query := `
		SELECT type_id, code, name, priority, color, created_at, created_by, last_updated_at, last_updated_by
		FROM distribution_types ORDER BY priority DESC, code;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distribution types: %w", err)
	}
	defer rows.Close()

	out := []domain.DistributionType{}
	for rows.Next() {
		var m models.DistributionType
		if err := rows.Scan(&m.TypeID, &m.Code, &m.Name, &m.Priority, &m.Color, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan distribution type row: %w", err)
		}
		out = append(out, mapping.ToDomainDistributionType(m))
	}
	return out, rows.Err()
}

func (r *PgxReferenceRepository) SaveDistributionType(ctx context.Context, distributionType domain.DistributionType) error {
	m := mapping.ToModelDistributionType(distributionType)
	query := `
		INSERT INTO distribution_types (type_id, code, name, priority, color, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query, m.TypeID, m.Code, m.Name, m.Priority, m.Color, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: distribution type code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save distribution type: %w", err)
	}
	return nil
}
