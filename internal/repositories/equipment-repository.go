package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	apperrors "porter-system/pkg/errors"
)

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter dto.EquipmentFilter) ([]dto.EquipmentDTO, error)
	FindEquipmentDTO(ctx context.Context, id uuid.UUID) (*dto.EquipmentDTO, error)
	ListAvailableOnFloor(ctx context.Context, floorID uuid.UUID, equipmentType string) ([]entities.Equipment, error)
	FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Equipment, error)
	MarkInUseTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, requestID uuid.UUID) error
	ReleaseTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status entities.EquipmentStatus) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func equipmentSelect() sq.SelectBuilder {
	return sq.Select(
		"e.id", "e.equipment_code", "e.type", "e.battery_level", "e.status",
		"e.created_at", "e.updated_at",
		"f.id", "f.name", "f.building",
		"rm.id", "rm.name", "rm.room_type",
		"req.id", "req.patient_name", "req.priority", "req.status",
	).
		From("equipment e").
		LeftJoin("floors f ON e.current_floor_id = f.id").
		LeftJoin("rooms rm ON e.current_room_id = rm.id").
		LeftJoin("requests req ON e.assigned_request_id = req.id").
		PlaceholderFormat(sq.Dollar)
}

func scanEquipmentRow(row pgx.Row) (*dto.EquipmentDTO, error) {
	var (
		out       dto.EquipmentDTO
		createdAt time.Time
		updatedAt time.Time

		floorID                  *uuid.UUID
		floorName, floorBuilding *string

		roomID             *uuid.UUID
		roomName, roomType *string

		reqID       *uuid.UUID
		reqPriority *int
		reqStatus   *string
	)

	var assignedReq dto.ShortRequestDTO

	err := row.Scan(
		&out.ID, &out.Code, &out.Type, &out.BatteryLevel, &out.Status,
		&createdAt, &updatedAt,
		&floorID, &floorName, &floorBuilding,
		&roomID, &roomName, &roomType,
		&reqID, &assignedReq.PatientName, &reqPriority, &reqStatus,
	)
	if err != nil {
		return nil, err
	}

	out.CreatedAt = createdAt.Format("2006-01-02 15:04:05")
	out.UpdatedAt = updatedAt.Format("2006-01-02 15:04:05")

	if floorID != nil {
		out.CurrentFloor = &dto.ShortFloorDTO{ID: *floorID, Name: *floorName, Building: *floorBuilding}
	}
	if roomID != nil {
		out.CurrentRoom = &dto.ShortRoomDTO{ID: *roomID, Name: *roomName, RoomType: *roomType}
	}
	if reqID != nil {
		assignedReq.ID = *reqID
		assignedReq.Priority = *reqPriority
		assignedReq.Status = *reqStatus
		out.AssignedRequest = &assignedReq
	}

	return &out, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter dto.EquipmentFilter) ([]dto.EquipmentDTO, error) {
	builder := equipmentSelect().OrderBy("e.created_at DESC")

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"e.type": filter.Type})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"e.status": filter.Status})
	}
	if filter.FloorID != nil {
		builder = builder.Where(sq.Eq{"e.current_floor_id": *filter.FloorID})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"e.equipment_code": pattern},
			sq.ILike{"e.type": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build equipment query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query equipment: %w", err)
	}
	defer rows.Close()

	out := make([]dto.EquipmentDTO, 0)
	for rows.Next() {
		item, err := scanEquipmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment row: %w", err)
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (r *EquipmentRepository) FindEquipmentDTO(ctx context.Context, id uuid.UUID) (*dto.EquipmentDTO, error) {
	query, args, err := equipmentSelect().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find-equipment query: %w", err)
	}

	item, err := scanEquipmentRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("equipment %s not found", id)
		}
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	return item, nil
}

func (r *EquipmentRepository) ListAvailableOnFloor(ctx context.Context, floorID uuid.UUID, equipmentType string) ([]entities.Equipment, error) {
	builder := sq.Select("id", "equipment_code", "type", "battery_level", "status").
		From("equipment").
		Where(sq.Eq{"status": entities.EquipmentStatusAvailable}).
		Where(sq.Eq{"current_floor_id": floorID}).
		PlaceholderFormat(sq.Dollar)

	if equipmentType != "" {
		builder = builder.Where(sq.Eq{"type": equipmentType})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nearby query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nearby equipment: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Equipment, 0)
	for rows.Next() {
		var eq entities.Equipment
		var eqType, status string
		if err := rows.Scan(&eq.ID, &eq.Code, &eqType, &eq.BatteryLevel, &status); err != nil {
			return nil, err
		}
		eq.Type = entities.EquipmentType(eqType)
		eq.Status = entities.EquipmentStatus(status)
		out = append(out, eq)
	}
	return out, rows.Err()
}

// FindEquipmentForUpdate locks the equipment row so racing assigns serialize
// on it. The caller checks availability under the lock.
func (r *EquipmentRepository) FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Equipment, error) {
	const query = `
		SELECT id, equipment_code, type, battery_level, status,
		       current_floor_id, current_room_id, current_ap_id,
		       assigned_request_id, created_at, updated_at
		FROM equipment
		WHERE id = $1
		FOR UPDATE`

	var eq entities.Equipment
	var eqType, status string

	err := tx.QueryRow(ctx, query, id).Scan(
		&eq.ID, &eq.Code, &eqType, &eq.BatteryLevel, &status,
		&eq.CurrentFloorID, &eq.CurrentRoomID, &eq.CurrentAPID,
		&eq.AssignedRequestID, &eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("equipment %s not found", id)
		}
		return nil, fmt.Errorf("lock equipment: %w", err)
	}

	eq.Type = entities.EquipmentType(eqType)
	eq.Status = entities.EquipmentStatus(status)
	return &eq, nil
}

func (r *EquipmentRepository) MarkInUseTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, requestID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE equipment SET status = $1, assigned_request_id = $2, updated_at = NOW() WHERE id = $3`,
		entities.EquipmentStatusInUse, requestID, id,
	)
	if err != nil {
		return fmt.Errorf("mark equipment in use: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment %s not found", id)
	}
	return nil
}

func (r *EquipmentRepository) ReleaseTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE equipment SET status = $1, assigned_request_id = NULL, updated_at = NOW() WHERE id = $2`,
		entities.EquipmentStatusAvailable, id,
	)
	if err != nil {
		return fmt.Errorf("release equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment %s not found", id)
	}
	return nil
}

func (r *EquipmentRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status entities.EquipmentStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE equipment SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update equipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("equipment %s not found", id)
	}
	return nil
}
