package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"porter-system/internal/entities"
)

type CreateRequestDTO struct {
	PatientName       null.String `json:"patient_name"`
	Priority          int         `json:"priority" validate:"required"`
	EquipmentType     string      `json:"equipment_type" validate:"required,equipment_type"`
	PickupRoomID      uuid.UUID   `json:"pickup_room_id" validate:"required"`
	DestinationRoomID uuid.UUID   `json:"destination_room_id" validate:"required"`
	Notes             null.String `json:"notes"`
	EstimatedMinutes  null.Int    `json:"estimated_duration_minutes" validate:"omitempty,min=1"`
}

type AdvanceStatusDTO struct {
	Status string `json:"status" validate:"required,request_status"`
}

type AssignRequestDTO struct {
	PorterID    uuid.UUID  `json:"porter_id" validate:"required"`
	EquipmentID *uuid.UUID `json:"equipment_id"`
}

// RequestListFilter narrows GET /api/requests. Zero values mean "no filter".
type RequestListFilter struct {
	Status        string
	AssignedTo    *uuid.UUID
	RequestedBy   *uuid.UUID
	EquipmentType string
	Priority      int
}

type ShortRoomDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	RoomType string    `json:"room_type"`
}

type ShortUserDTO struct {
	ID           uuid.UUID `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FullName     string    `json:"full_name"`
}

type ShortEquipmentDTO struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"equipment_code"`
	Type         string    `json:"type"`
	BatteryLevel int       `json:"battery_level"`
}

// RequestDTO is the joined read model for a request.
type RequestDTO struct {
	ID               uuid.UUID   `json:"id"`
	PatientName      null.String `json:"patient_name"`
	Priority         int         `json:"priority"`
	PriorityLabel    string      `json:"priority_label"`
	EquipmentType    string      `json:"equipment_type"`
	Status           string      `json:"status"`
	Notes            null.String `json:"notes"`
	EstimatedMinutes int         `json:"estimated_duration_minutes"`

	PickupRoom      *ShortRoomDTO      `json:"pickup_room,omitempty"`
	DestinationRoom *ShortRoomDTO      `json:"destination_room,omitempty"`
	RequestedBy     *ShortUserDTO      `json:"requested_by_user,omitempty"`
	AssignedTo      *ShortUserDTO      `json:"assigned_to_user,omitempty"`
	Equipment       *ShortEquipmentDTO `json:"equipment,omitempty"`

	CreatedAt   string      `json:"created_at"`
	AssignedAt  null.String `json:"assigned_at"`
	CompletedAt null.String `json:"completed_at"`
}

// NewRequestDTO maps the entity scalar fields; joined sub-objects are filled
// by the repository.
func NewRequestDTO(r *entities.Request) RequestDTO {
	dto := RequestDTO{
		ID:               r.ID,
		PatientName:      r.PatientName,
		Priority:         int(r.Priority),
		PriorityLabel:    r.Priority.Label(),
		EquipmentType:    string(r.EquipmentType),
		Status:           string(r.Status),
		Notes:            r.Notes,
		EstimatedMinutes: r.EstimatedMinutes,
		CreatedAt:        r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.AssignedAt.Valid {
		dto.AssignedAt = null.StringFrom(r.AssignedAt.Time.Format("2006-01-02 15:04:05"))
	}
	if r.CompletedAt.Valid {
		dto.CompletedAt = null.StringFrom(r.CompletedAt.Time.Format("2006-01-02 15:04:05"))
	}
	return dto
}
