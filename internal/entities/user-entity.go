package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// Role is the flat set of named staff roles.
type Role string

const (
	RolePorter Role = "porter"
	RoleNurse  Role = "nurse"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePorter, RoleNurse, RoleAdmin:
		return true
	}
	return false
}

const UserStatusAvailable = "available"

// User is a staff directory entry. The dispatch core never creates or
// deletes users; it reads role, current status and floor.
//
// ActiveRequestCount is a denormalized counter maintained elsewhere. The
// analytics engine treats it as a cache and always recomputes from the
// requests table.
type User struct {
	ID                 uuid.UUID   `json:"id"`
	EmployeeCode       string      `json:"employee_code"`
	FullName           string      `json:"full_name"`
	Role               Role        `json:"role"`
	Phone              null.String `json:"phone"`
	PasswordHash       string      `json:"-"`
	CurrentStatus      string      `json:"current_status"`
	CurrentFloorID     *uuid.UUID  `json:"current_floor_id"`
	ActiveRequestCount int         `json:"active_request_count"`
	CreatedAt          time.Time   `json:"created_at"`
}
