package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"porter-system/internal/entities"
	apperrors "porter-system/pkg/errors"
)

// DirectoryRepository serves the read-mostly floor/zone/room reference data.
// Nothing here is ever mutated by the dispatch core.
type DirectoryRepositoryInterface interface {
	ListFloors(ctx context.Context) ([]entities.Floor, error)
	ListRoomsByFloor(ctx context.Context, floorID uuid.UUID) ([]entities.Room, error)
	FindRoom(ctx context.Context, id uuid.UUID) (*entities.Room, error)
}

type DirectoryRepository struct {
	storage *pgxpool.Pool
}

func NewDirectoryRepository(storage *pgxpool.Pool) DirectoryRepositoryInterface {
	return &DirectoryRepository{storage: storage}
}

func (r *DirectoryRepository) ListFloors(ctx context.Context) ([]entities.Floor, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, building, level FROM floors ORDER BY building, level`)
	if err != nil {
		return nil, fmt.Errorf("query floors: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Floor, 0)
	for rows.Next() {
		var floor entities.Floor
		if err := rows.Scan(&floor.ID, &floor.Name, &floor.Building, &floor.Level); err != nil {
			return nil, fmt.Errorf("scan floor: %w", err)
		}
		out = append(out, floor)
	}
	return out, rows.Err()
}

func (r *DirectoryRepository) ListRoomsByFloor(ctx context.Context, floorID uuid.UUID) ([]entities.Room, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT rm.id, rm.zone_id, rm.name, rm.room_type
		 FROM rooms rm
		 JOIN zones z ON rm.zone_id = z.id
		 WHERE z.floor_id = $1
		 ORDER BY rm.name`, floorID)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Room, 0)
	for rows.Next() {
		var room entities.Room
		if err := rows.Scan(&room.ID, &room.ZoneID, &room.Name, &room.RoomType); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *DirectoryRepository) FindRoom(ctx context.Context, id uuid.UUID) (*entities.Room, error) {
	var room entities.Room
	err := r.storage.QueryRow(ctx,
		`SELECT id, zone_id, name, room_type FROM rooms WHERE id = $1`, id).
		Scan(&room.ID, &room.ZoneID, &room.Name, &room.RoomType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("room %s not found", id)
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &room, nil
}
