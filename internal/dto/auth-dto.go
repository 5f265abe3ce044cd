package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"porter-system/internal/entities"
)

type LoginDTO struct {
	EmployeeCode string `json:"employee_code" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserDTO struct {
	ID             uuid.UUID   `json:"id"`
	EmployeeCode   string      `json:"employee_code"`
	FullName       string      `json:"full_name"`
	Role           string      `json:"role"`
	Phone          null.String `json:"phone"`
	CurrentStatus  string      `json:"current_status"`
	CurrentFloorID *uuid.UUID  `json:"current_floor_id"`
	CreatedAt      string      `json:"created_at"`
}

func NewUserDTO(user *entities.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		EmployeeCode:   user.EmployeeCode,
		FullName:       user.FullName,
		Role:           string(user.Role),
		Phone:          user.Phone,
		CurrentStatus:  user.CurrentStatus,
		CurrentFloorID: user.CurrentFloorID,
		CreatedAt:      user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type AuthResponseDTO struct {
	User         UserDTO `json:"user"`
	Token        string  `json:"token"`
	RefreshToken string  `json:"refresh_token"`
}
