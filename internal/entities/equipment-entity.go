package entities

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentType is the kind of asset a request consumes.
type EquipmentType string

const (
	EquipmentTypeWheelchair EquipmentType = "wheelchair"
	EquipmentTypeBed        EquipmentType = "bed"
)

func (t EquipmentType) Valid() bool {
	switch t {
	case EquipmentTypeWheelchair, EquipmentTypeBed:
		return true
	}
	return false
}

// EquipmentStatus is the closed set of states for a physical unit. in_use is
// owned by the dispatch engine and always paired with an assigned request;
// charging and maintenance are set by external processes and must not be
// silently overridden.
type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusInUse       EquipmentStatus = "in_use"
	EquipmentStatusCharging    EquipmentStatus = "charging"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusAvailable, EquipmentStatusInUse,
		EquipmentStatusCharging, EquipmentStatusMaintenance:
		return true
	}
	return false
}

// Equipment is a physical asset. Invariant within the dispatch engine's
// scope: Status == in_use ⇔ AssignedRequestID != nil.
type Equipment struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"equipment_code"`
	Type           EquipmentType   `json:"type"`
	BatteryLevel   int             `json:"battery_level"`
	Status         EquipmentStatus `json:"status"`
	CurrentFloorID *uuid.UUID      `json:"current_floor_id"`
	CurrentRoomID  *uuid.UUID      `json:"current_room_id"`
	CurrentAPID    *uuid.UUID      `json:"current_ap_id"`

	AssignedRequestID *uuid.UUID `json:"assigned_request_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
