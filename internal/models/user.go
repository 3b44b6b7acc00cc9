package models

import "time"

// User represents a row of the users table.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Name         string `db:"name"`
	DepartmentID string `db:"department_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
