package entities

import "github.com/google/uuid"

// Directory reference data: floors, zones, rooms and access points. Read-only
// for this service; the dispatch core only passes their ids through.

type Floor struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Building string    `json:"building"`
	Level    int       `json:"level"`
}

type Zone struct {
	ID      uuid.UUID `json:"id"`
	FloorID uuid.UUID `json:"floor_id"`
	Name    string    `json:"name"`
}

type Room struct {
	ID       uuid.UUID `json:"id"`
	ZoneID   uuid.UUID `json:"zone_id"`
	Name     string    `json:"name"`
	RoomType string    `json:"room_type"`
}

type AccessPoint struct {
	ID     uuid.UUID `json:"id"`
	ZoneID uuid.UUID `json:"zone_id"`
	Name   string    `json:"name"`
	XCoord float64   `json:"x_coord"`
	YCoord float64   `json:"y_coord"`
}
