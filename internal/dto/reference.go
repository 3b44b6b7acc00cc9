package dto

import "github.com/SscSPs/document_distribution_app/internal/core/domain"

// CreateDepartmentRequest defines the data needed to register a department.
type CreateDepartmentRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	LocationCode string `json:"locationCode" binding:"required,max=20,excludesall=/"`
}

// CreateDistributionTypeRequest defines the data needed to register a distribution type.
type CreateDistributionTypeRequest struct {
	Code     string `json:"code" binding:"required,max=10,excludesall=/"`
	Name     string `json:"name" binding:"required,max=100"`
	Priority int    `json:"priority" binding:"min=0,max=10"`
	Color    string `json:"color" binding:"omitempty,hexcolor"`
}

type DepartmentResponse struct {
	DepartmentID string `json:"departmentID"`
	Name         string `json:"name"`
	LocationCode string `json:"locationCode"`
}

type DistributionTypeResponse struct {
	TypeID   string `json:"typeID"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Color    string `json:"color"`
}

func ToDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{DepartmentID: d.DepartmentID, Name: d.Name, LocationCode: d.LocationCode}
}

func ToDepartmentResponses(ds []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, len(ds))
	for i := range ds {
		out[i] = ToDepartmentResponse(&ds[i])
	}
	return out
}

func ToDistributionTypeResponse(t *domain.DistributionType) DistributionTypeResponse {
	return DistributionTypeResponse{TypeID: t.TypeID, Code: t.Code, Name: t.Name, Priority: t.Priority, Color: t.Color}
}

func ToDistributionTypeResponses(ts []domain.DistributionType) []DistributionTypeResponse {
	out := make([]DistributionTypeResponse, len(ts))
	for i := range ts {
		out[i] = ToDistributionTypeResponse(&ts[i])
	}
	return out
}
