package mapping

import (
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/SscSPs/document_distribution_app/internal/models"
)

func ToModelDepartment(d domain.Department) models.Department {
	return models.Department{
		DepartmentID: d.DepartmentID,
		Name:         d.Name,
		LocationCode: d.LocationCode,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		LocationCode: m.LocationCode,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelDistributionType(d domain.DistributionType) models.DistributionType {
	return models.DistributionType{
		TypeID:      d.TypeID,
		Code:        d.Code,
		Name:        d.Name,
		Priority:    d.Priority,
		Color:       d.Color,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainDistributionType(m models.DistributionType) domain.DistributionType {
	return domain.DistributionType{
		TypeID:      m.TypeID,
		Code:        m.Code,
		Name:        m.Name,
		Priority:    m.Priority,
		Color:       m.Color,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
