package models

// Department represents a row of the departments table.
type Department struct {
	DepartmentID string `db:"department_id"`
	Name         string `db:"name"`
	LocationCode string `db:"location_code"`
	AuditFields
}

// DistributionType represents a row of the distribution_types table.
type DistributionType struct {
	TypeID   string `db:"type_id"`
	Code     string `db:"code"`
	Name     string `db:"name"`
	Priority int    `db:"priority"`
	Color    string `db:"color"`
	AuditFields
}
