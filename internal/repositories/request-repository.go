package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	apperrors "porter-system/pkg/errors"
)

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter dto.RequestListFilter) ([]dto.RequestDTO, error)
	FindRequestDTO(ctx context.Context, id uuid.UUID) (*dto.RequestDTO, error)
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error)
	ListByRequester(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error)
	CreateRequest(ctx context.Context, req *entities.Request) error
	FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Request, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status entities.RequestStatus, completedAt null.Time) error
	AssignTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, porterID uuid.UUID, equipmentID *uuid.UUID, assignedAt time.Time) error
	GetAllForAnalytics(ctx context.Context) ([]entities.Request, error)
	ListStatusesByAssignee(ctx context.Context, userID uuid.UUID) ([]entities.RequestStatus, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

// requestSelect is the joined read model shared by every list/find query.
func requestSelect() sq.SelectBuilder {
	return sq.Select(
		"r.id", "r.patient_name", "r.priority", "r.equipment_type", "r.status",
		"r.notes", "r.estimated_duration_minutes",
		"r.created_at", "r.assigned_at", "r.completed_at",
		"pr.id", "pr.name", "pr.room_type",
		"dr.id", "dr.name", "dr.room_type",
		"rb.id", "rb.employee_code", "rb.full_name",
		"au.id", "au.employee_code", "au.full_name",
		"e.id", "e.equipment_code", "e.type", "e.battery_level",
	).
		From("requests r").
		LeftJoin("rooms pr ON r.pickup_room_id = pr.id").
		LeftJoin("rooms dr ON r.destination_room_id = dr.id").
		LeftJoin("users rb ON r.requested_by = rb.id").
		LeftJoin("users au ON r.assigned_to = au.id").
		LeftJoin("equipment e ON r.equipment_id = e.id").
		PlaceholderFormat(sq.Dollar)
}

func scanRequestRow(row pgx.Row) (*dto.RequestDTO, error) {
	var (
		out         dto.RequestDTO
		priority    int
		status      string
		createdAt   time.Time
		assignedAt  *time.Time
		completedAt *time.Time

		pickupID, destID, requesterID, assigneeID, equipmentID *uuid.UUID

		pickupName, pickupType, destName, destType *string
		requesterCode, requesterName               *string
		assigneeCode, assigneeName                 *string
		equipmentCode, equipmentType               *string
		batteryLevel                               *int
	)

	err := row.Scan(
		&out.ID, &out.PatientName, &priority, &out.EquipmentType, &status,
		&out.Notes, &out.EstimatedMinutes,
		&createdAt, &assignedAt, &completedAt,
		&pickupID, &pickupName, &pickupType,
		&destID, &destName, &destType,
		&requesterID, &requesterCode, &requesterName,
		&assigneeID, &assigneeCode, &assigneeName,
		&equipmentID, &equipmentCode, &equipmentType, &batteryLevel,
	)
	if err != nil {
		return nil, err
	}

	out.Priority = priority
	out.PriorityLabel = entities.Priority(priority).Label()
	out.Status = status
	out.CreatedAt = createdAt.Format("2006-01-02 15:04:05")
	if assignedAt != nil {
		out.AssignedAt = null.StringFrom(assignedAt.Format("2006-01-02 15:04:05"))
	}
	if completedAt != nil {
		out.CompletedAt = null.StringFrom(completedAt.Format("2006-01-02 15:04:05"))
	}

	if pickupID != nil {
		out.PickupRoom = &dto.ShortRoomDTO{ID: *pickupID, Name: *pickupName, RoomType: *pickupType}
	}
	if destID != nil {
		out.DestinationRoom = &dto.ShortRoomDTO{ID: *destID, Name: *destName, RoomType: *destType}
	}
	if requesterID != nil {
		out.RequestedBy = &dto.ShortUserDTO{ID: *requesterID, EmployeeCode: *requesterCode, FullName: *requesterName}
	}
	if assigneeID != nil {
		out.AssignedTo = &dto.ShortUserDTO{ID: *assigneeID, EmployeeCode: *assigneeCode, FullName: *assigneeName}
	}
	if equipmentID != nil {
		out.Equipment = &dto.ShortEquipmentDTO{ID: *equipmentID, Code: *equipmentCode, Type: *equipmentType}
		if batteryLevel != nil {
			out.Equipment.BatteryLevel = *batteryLevel
		}
	}

	return &out, nil
}

func (r *RequestRepository) queryRequests(ctx context.Context, builder sq.SelectBuilder) ([]dto.RequestDTO, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build request query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	out := make([]dto.RequestDTO, 0)
	for rows.Next() {
		item, err := scanRequestRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter dto.RequestListFilter) ([]dto.RequestDTO, error) {
	builder := requestSelect().OrderBy("r.created_at DESC")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"r.status": filter.Status})
	}
	if filter.AssignedTo != nil {
		builder = builder.Where(sq.Eq{"r.assigned_to": *filter.AssignedTo})
	}
	if filter.RequestedBy != nil {
		builder = builder.Where(sq.Eq{"r.requested_by": *filter.RequestedBy})
	}
	if filter.EquipmentType != "" {
		builder = builder.Where(sq.Eq{"r.equipment_type": filter.EquipmentType})
	}
	if filter.Priority != 0 {
		builder = builder.Where(sq.Eq{"r.priority": filter.Priority})
	}

	return r.queryRequests(ctx, builder)
}

func (r *RequestRepository) FindRequestDTO(ctx context.Context, id uuid.UUID) (*dto.RequestDTO, error) {
	query, args, err := requestSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find-request query: %w", err)
	}

	item, err := scanRequestRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("request %s not found", id)
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return item, nil
}

// ListActiveForUser returns the caller's active work queue: requests the user
// requested or is assigned to, most urgent first, FIFO within equal urgency.
func (r *RequestRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error) {
	builder := requestSelect().
		Where(sq.Or{sq.Eq{"r.requested_by": userID}, sq.Eq{"r.assigned_to": userID}}).
		Where(sq.Eq{"r.status": entities.ActiveRequestStatuses}).
		OrderBy("r.priority ASC", "r.created_at ASC")

	return r.queryRequests(ctx, builder)
}

func (r *RequestRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error) {
	builder := requestSelect().
		Where(sq.Or{sq.Eq{"r.requested_by": userID}, sq.Eq{"r.assigned_to": userID}}).
		OrderBy("r.created_at DESC")

	return r.queryRequests(ctx, builder)
}

func (r *RequestRepository) ListByRequester(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error) {
	builder := requestSelect().
		Where(sq.Eq{"r.requested_by": userID}).
		OrderBy("r.created_at DESC")

	return r.queryRequests(ctx, builder)
}

func (r *RequestRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]dto.RequestDTO, error) {
	builder := requestSelect().
		Where(sq.Eq{"r.assigned_to": userID}).
		OrderBy("r.created_at DESC")

	return r.queryRequests(ctx, builder)
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *entities.Request) error {
	const query = `
		INSERT INTO requests (
			id, patient_name, priority, equipment_type,
			pickup_room_id, destination_room_id, notes,
			estimated_duration_minutes, status, requested_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.storage.QueryRow(ctx, query,
		req.ID, req.PatientName, req.Priority, req.EquipmentType,
		req.PickupRoomID, req.DestinationRoomID, req.Notes,
		req.EstimatedMinutes, req.Status, req.RequestedBy,
	).Scan(&req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// FindRequestForUpdate locks the request row for the duration of the
// surrounding transaction.
func (r *RequestRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Request, error) {
	const query = `
		SELECT id, patient_name, priority, equipment_type,
		       pickup_room_id, destination_room_id, notes,
		       estimated_duration_minutes, status,
		       requested_by, assigned_to, equipment_id,
		       created_at, assigned_at, completed_at
		FROM requests
		WHERE id = $1
		FOR UPDATE`

	var req entities.Request
	var priority int
	var status, equipmentType string

	err := tx.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.PatientName, &priority, &equipmentType,
		&req.PickupRoomID, &req.DestinationRoomID, &req.Notes,
		&req.EstimatedMinutes, &status,
		&req.RequestedBy, &req.AssignedTo, &req.EquipmentID,
		&req.CreatedAt, &req.AssignedAt, &req.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("request %s not found", id)
		}
		return nil, fmt.Errorf("lock request: %w", err)
	}

	req.Priority = entities.Priority(priority)
	req.Status = entities.RequestStatus(status)
	req.EquipmentType = entities.EquipmentType(equipmentType)
	return &req, nil
}

func (r *RequestRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status entities.RequestStatus, completedAt null.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE requests SET status = $1, completed_at = COALESCE($2, completed_at) WHERE id = $3`,
		status, completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("request %s not found", id)
	}
	return nil
}

func (r *RequestRepository) AssignTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, porterID uuid.UUID, equipmentID *uuid.UUID, assignedAt time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE requests
		 SET assigned_to = $1, equipment_id = COALESCE($2, equipment_id),
		     status = $3, assigned_at = $4
		 WHERE id = $5`,
		porterID, equipmentID, entities.RequestStatusAssigned, assignedAt, id,
	)
	if err != nil {
		return fmt.Errorf("assign request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("request %s not found", id)
	}
	return nil
}

// GetAllForAnalytics returns the projection the workload engine aggregates
// over. Metrics are always recomputed from these rows, never taken from the
// denormalized per-user counters.
func (r *RequestRepository) GetAllForAnalytics(ctx context.Context) ([]entities.Request, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, status, requested_by, assigned_to, created_at, completed_at FROM requests`)
	if err != nil {
		return nil, fmt.Errorf("query analytics rows: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Request, 0)
	for rows.Next() {
		var req entities.Request
		var status string
		if err := rows.Scan(&req.ID, &status, &req.RequestedBy, &req.AssignedTo, &req.CreatedAt, &req.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan analytics row: %w", err)
		}
		req.Status = entities.RequestStatus(status)
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *RequestRepository) ListStatusesByAssignee(ctx context.Context, userID uuid.UUID) ([]entities.RequestStatus, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT status FROM requests WHERE assigned_to = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query assignee statuses: %w", err)
	}
	defer rows.Close()

	out := make([]entities.RequestStatus, 0)
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return nil, err
		}
		out = append(out, entities.RequestStatus(status))
	}
	return out, rows.Err()
}
