package domain

// Department is an organisational unit. Its location code is the unit of
// document relocation.
type Department struct {
	DepartmentID string `json:"departmentID"`
	Name         string `json:"name"`
	LocationCode string `json:"locationCode"`
	AuditFields
}

// DistributionType classifies a distribution; its code is part of the
// distribution number.
type DistributionType struct {
	TypeID   string `json:"typeID"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Color    string `json:"color"`
	AuditFields
}
