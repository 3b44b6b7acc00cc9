package dto

type UserResponse struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentID"`
}

func ToUserResponse(user interface {
	GetUserID() string
	GetUsername() string
	GetName() string
	GetDepartmentID() string
}) UserResponse {
	return UserResponse{
		UserID:       user.GetUserID(),
		Username:     user.GetUsername(),
		Name:         user.GetName(),
		DepartmentID: user.GetDepartmentID(),
	}
}
