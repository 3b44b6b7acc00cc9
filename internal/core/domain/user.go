package domain

import "time"

// User represents a user of the application in the domain.
// Every user belongs to exactly one department, which becomes the acting
// department for the distributions they create and handle.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentID"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

func (u *User) GetUserID() string       { return u.UserID }
func (u *User) GetUsername() string     { return u.Username }
func (u *User) GetName() string         { return u.Name }
func (u *User) GetDepartmentID() string { return u.DepartmentID }
