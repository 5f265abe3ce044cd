package events

import "github.com/google/uuid"

// Request lifecycle events, published by the dispatch engine after the
// surrounding transaction commits.

type RequestCreatedEvent struct {
	RequestID   uuid.UUID
	RequestedBy uuid.UUID
	Priority    int
}

func (e RequestCreatedEvent) Name() string { return "request.created" }

type RequestAssignedEvent struct {
	RequestID   uuid.UUID
	PorterID    uuid.UUID
	EquipmentID *uuid.UUID
}

func (e RequestAssignedEvent) Name() string { return "request.assigned" }

type RequestStatusChangedEvent struct {
	RequestID uuid.UUID
	Status    string
}

func (e RequestStatusChangedEvent) Name() string { return "request.status_changed" }

type RequestCancelledEvent struct {
	RequestID uuid.UUID
}

func (e RequestCancelledEvent) Name() string { return "request.cancelled" }
