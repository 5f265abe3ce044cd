package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// SystemSummaryDTO is the system-wide workload overview. An empty system is
// by definition 100% efficient; zero-denominator cases are values, not
// errors.
type SystemSummaryDTO struct {
	TotalTasks     int `json:"total_tasks"`
	Completed      int `json:"completed"`
	AvgTimeMinutes int `json:"avg_time_minutes"`
	Efficiency     int `json:"efficiency"`
}

// WorkloadFilter narrows the staff summary by role and/or current status.
// "all" and "" both mean no filter.
type WorkloadFilter struct {
	Role   string
	Status string
}

type TaskBucketsDTO struct {
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
	Total     int `json:"total"`
}

type StaffSummaryDTO struct {
	ID             uuid.UUID   `json:"id"`
	EmployeeCode   string      `json:"employee_code"`
	FullName       string      `json:"full_name"`
	Role           string      `json:"role"`
	Phone          null.String `json:"phone"`
	CurrentStatus  string      `json:"current_status"`
	CurrentFloorID *uuid.UUID  `json:"current_floor_id"`

	Tasks           TaskBucketsDTO `json:"tasks"`
	CompletionRate  int            `json:"completion_rate"`
	EfficiencyScore int            `json:"efficiency_score"`
	AvgTimeMinutes  int            `json:"avg_time_minutes"`
}

type StaffDetailDTO struct {
	StaffSummaryDTO
	RecentTasks []RequestDTO `json:"recent_tasks"`
}
