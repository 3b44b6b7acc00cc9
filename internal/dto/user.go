package dto

// RegisterUserRequest defines the data needed to create a user account.
type RegisterUserRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	Name         string `json:"name" binding:"required,max=100"`
	DepartmentID string `json:"departmentID" binding:"required"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
