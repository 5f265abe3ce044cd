package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// RequestStatus is the closed set of lifecycle states for a transport
// request. pending → queued → assigned → in_progress → completed is the happy
// path; cancelled is reachable from any non-terminal state.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusQueued     RequestStatus = "queued"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusQueued, RequestStatusAssigned,
		RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses permit no further transition.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusCancelled:
		return true
	case RequestStatusPending, RequestStatusQueued, RequestStatusAssigned, RequestStatusInProgress:
		return false
	}
	return false
}

func (s RequestStatus) Active() bool {
	switch s {
	case RequestStatusPending, RequestStatusQueued, RequestStatusAssigned, RequestStatusInProgress:
		return true
	case RequestStatusCompleted, RequestStatusCancelled:
		return false
	}
	return false
}

// ActiveRequestStatuses is the set used by the active-work queue.
var ActiveRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusQueued,
	RequestStatusAssigned,
	RequestStatusInProgress,
}

// Priority is the urgency tier of a request. Lower is more urgent.
type Priority int

const (
	PriorityStat   Priority = 1
	PriorityHigh   Priority = 2
	PriorityNormal Priority = 3
	PriorityLow    Priority = 4
)

// Valid reports whether the priority is accepted at creation time. Only
// 1 (STAT), 2 (HIGH) and 3 (NORMAL) can be requested; 4 exists solely as the
// fallback label for out-of-range stored values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityStat, PriorityHigh, PriorityNormal:
		return true
	}
	return false
}

// Label is presentation only and never stored.
func (p Priority) Label() string {
	switch p {
	case PriorityStat:
		return "STAT"
	case PriorityHigh:
		return "HIGH"
	case PriorityNormal:
		return "NORMAL"
	default:
		return "LOW"
	}
}

// Request is one unit of transport work. Requests are never deleted;
// cancellation is a terminal status so historical metrics stay intact.
type Request struct {
	ID                uuid.UUID     `json:"id"`
	PatientName       null.String   `json:"patient_name"`
	Priority          Priority      `json:"priority"`
	EquipmentType     EquipmentType `json:"equipment_type"`
	PickupRoomID      uuid.UUID     `json:"pickup_room_id"`
	DestinationRoomID uuid.UUID     `json:"destination_room_id"`
	Notes             null.String   `json:"notes"`
	EstimatedMinutes  int           `json:"estimated_duration_minutes"`
	Status            RequestStatus `json:"status"`

	RequestedBy *uuid.UUID `json:"requested_by"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	EquipmentID *uuid.UUID `json:"equipment_id"`

	CreatedAt   time.Time `json:"created_at"`
	AssignedAt  null.Time `json:"assigned_at"`
	CompletedAt null.Time `json:"completed_at"`
}

// DefaultEstimatedMinutes applies when the caller omits a duration.
const DefaultEstimatedMinutes = 30
