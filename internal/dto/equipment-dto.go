package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type UpdateEquipmentStatusDTO struct {
	Status string `json:"status" validate:"required,equipment_status"`
}

// EquipmentFilter narrows GET /api/equipment and /api/equipment/search.
type EquipmentFilter struct {
	Type    string
	Status  string
	FloorID *uuid.UUID
	Query   string
}

type ShortFloorDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Building string    `json:"building"`
}

type ShortRequestDTO struct {
	ID          uuid.UUID   `json:"id"`
	PatientName null.String `json:"patient_name"`
	Priority    int         `json:"priority"`
	Status      string      `json:"status"`
}

type EquipmentDTO struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"equipment_code"`
	Type         string    `json:"type"`
	BatteryLevel int       `json:"battery_level"`
	Status       string    `json:"status"`

	CurrentFloor *ShortFloorDTO `json:"current_floor,omitempty"`
	CurrentRoom  *ShortRoomDTO  `json:"current_room,omitempty"`

	AssignedRequest *ShortRequestDTO `json:"assigned_request,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
