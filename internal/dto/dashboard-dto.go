package dto

import "github.com/google/uuid"

type NearbyEquipmentDTO struct {
	FloorID   *uuid.UUID          `json:"floor_id,omitempty"`
	Count     int                 `json:"count"`
	Equipment []ShortEquipmentDTO `json:"equipment"`
}

type DashboardDTO struct {
	User            UserDTO            `json:"user"`
	NearbyEquipment NearbyEquipmentDTO `json:"nearby_equipment"`
	ActiveTasks     []RequestDTO       `json:"active_tasks"`
}

// DashboardStatsDTO are the caller's own quick counters, computed from the
// requests table on every call.
type DashboardStatsDTO struct {
	TotalRequests int `json:"total_requests"`
	Completed     int `json:"completed"`
	InProgress    int `json:"in_progress"`
	Pending       int `json:"pending"`
}
