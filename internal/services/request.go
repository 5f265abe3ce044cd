package services

import (
	"context"
	"sort"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/internal/events"
	"porter-system/internal/repositories"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/eventbus"
	"porter-system/pkg/utils"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, filter dto.RequestListFilter) ([]dto.RequestDTO, error)
	FindRequest(ctx context.Context, id uuid.UUID) (*dto.RequestDTO, error)
	ListActiveForUser(ctx context.Context) ([]dto.RequestDTO, error)
	ListMyRequests(ctx context.Context) ([]dto.RequestDTO, error)
	ListAssignedToMe(ctx context.Context) ([]dto.RequestDTO, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, data dto.AdvanceStatusDTO) (*dto.RequestDTO, error)
	AssignRequest(ctx context.Context, id uuid.UUID, data dto.AssignRequestDTO) (*dto.RequestDTO, error)
	CancelRequest(ctx context.Context, id uuid.UUID) (*dto.RequestDTO, error)
}

// RequestService is the dispatch engine: it owns every transition of the
// request state machine and the coupling between a request and the equipment
// unit it consumes. Handlers are stateless; all shared state lives in the
// store and coupled writes run inside one transaction.
type RequestService struct {
	txManager     repositories.TxManagerInterface
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:     txManager,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		bus:           bus,
		logger:        logger,
	}
}

// publish is a no-op when the service is constructed without a bus, as in
// tests.
func (s *RequestService) publish(ctx context.Context, event eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	// The requester is always the authenticated caller, never client input.
	requesterID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	priority := entities.Priority(data.Priority)
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("priority must be 1 (STAT), 2 (HIGH), or 3 (NORMAL)")
	}

	equipmentType := entities.EquipmentType(data.EquipmentType)
	if !equipmentType.Valid() {
		return nil, apperrors.NewValidationError("equipment type must be 'wheelchair' or 'bed'")
	}

	if data.PickupRoomID == uuid.Nil || data.DestinationRoomID == uuid.Nil {
		return nil, apperrors.NewValidationError("pickup_room_id and destination_room_id are required")
	}

	estimated := entities.DefaultEstimatedMinutes
	if data.EstimatedMinutes.Valid {
		estimated = int(data.EstimatedMinutes.Int)
	}

	req := &entities.Request{
		ID:                uuid.New(),
		PatientName:       data.PatientName,
		Priority:          priority,
		EquipmentType:     equipmentType,
		PickupRoomID:      data.PickupRoomID,
		DestinationRoomID: data.DestinationRoomID,
		Notes:             data.Notes,
		EstimatedMinutes:  estimated,
		Status:            entities.RequestStatusPending,
		RequestedBy:       &requesterID,
	}

	if err := s.requestRepo.CreateRequest(ctx, req); err != nil {
		s.logger.Error("failed to create request", zap.Error(err))
		return nil, err
	}

	s.logger.Info("request created",
		zap.String("requestID", req.ID.String()),
		zap.Int("priority", int(priority)),
		zap.String("equipmentType", string(equipmentType)),
	)
	s.publish(ctx, events.RequestCreatedEvent{
		RequestID:   req.ID,
		RequestedBy: requesterID,
		Priority:    int(priority),
	})

	return s.requestRepo.FindRequestDTO(ctx, req.ID)
}

func (s *RequestService) GetRequests(ctx context.Context, filter dto.RequestListFilter) ([]dto.RequestDTO, error) {
	if filter.Status != "" && !entities.RequestStatus(filter.Status).Valid() {
		return nil, apperrors.NewValidationError("unknown status %q", filter.Status)
	}
	return s.requestRepo.GetRequests(ctx, filter)
}

func (s *RequestService) FindRequest(ctx context.Context, id uuid.UUID) (*dto.RequestDTO, error) {
	return s.requestRepo.FindRequestDTO(ctx, id)
}

// ListActiveForUser returns the caller's work queue, most urgent first, FIFO
// within equal urgency.
func (s *RequestService) ListActiveForUser(ctx context.Context) ([]dto.RequestDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	queue, err := s.requestRepo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortQueue(queue)
	return queue, nil
}

// sortQueue orders a work queue by priority ascending, then creation time
// ascending. CreatedAt is a fixed-width timestamp, so string order is
// chronological order.
func sortQueue(queue []dto.RequestDTO) {
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Priority != queue[j].Priority {
			return queue[i].Priority < queue[j].Priority
		}
		return queue[i].CreatedAt < queue[j].CreatedAt
	})
}

func (s *RequestService) ListMyRequests(ctx context.Context) ([]dto.RequestDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.ListByRequester(ctx, userID)
}

func (s *RequestService) ListAssignedToMe(ctx context.Context) ([]dto.RequestDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.ListByAssignee(ctx, userID)
}

// AdvanceStatus moves a request to the target status. Membership in the
// status enum is the only shape check; forward jumps are permitted. Terminal
// statuses accept no transition. Completing stamps completed_at and returns
// any held equipment to the pool in the same transaction. Advancing to
// cancelled takes the cancellation path so held equipment is released there
// too.
func (s *RequestService) AdvanceStatus(ctx context.Context, id uuid.UUID, data dto.AdvanceStatusDTO) (*dto.RequestDTO, error) {
	target := entities.RequestStatus(data.Status)
	if !target.Valid() {
		return nil, apperrors.NewValidationError(
			"invalid status, must be one of: pending, queued, assigned, in_progress, completed, cancelled")
	}

	if target == entities.RequestStatusCancelled {
		return s.CancelRequest(ctx, id)
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Status.Terminal() {
			return apperrors.NewConflictError("request is already %s", req.Status)
		}

		var completedAt null.Time
		if target == entities.RequestStatusCompleted {
			completedAt = null.TimeFrom(time.Now())
			if req.EquipmentID != nil {
				if err := s.equipmentRepo.ReleaseTx(ctx, tx, *req.EquipmentID); err != nil {
					return err
				}
			}
		}

		return s.requestRepo.UpdateStatusTx(ctx, tx, id, target, completedAt)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RequestStatusChangedEvent{RequestID: id, Status: string(target)})

	return s.requestRepo.FindRequestDTO(ctx, id)
}

// AssignRequest couples the request to a porter and, optionally, an equipment
// unit. The request-status write and the equipment-status write happen in one
// transaction: either both apply or neither does. The equipment row is locked
// and re-checked under the lock, so two racing assigns cannot both take the
// same unit. Assigning a different unit to a request that already holds one
// releases the previous unit in the same transaction.
func (s *RequestService) AssignRequest(ctx context.Context, id uuid.UUID, data dto.AssignRequestDTO) (*dto.RequestDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Status.Terminal() {
			return apperrors.NewConflictError("cannot assign a %s request", req.Status)
		}

		// A unit the request already holds passes through untouched.
		if data.EquipmentID != nil && (req.EquipmentID == nil || *req.EquipmentID != *data.EquipmentID) {
			eq, err := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, *data.EquipmentID)
			if err != nil {
				return err
			}
			if eq.Status != entities.EquipmentStatusAvailable {
				return apperrors.NewConflictError("equipment %s is %s, not available", eq.Code, eq.Status)
			}
			if req.EquipmentID != nil {
				if err := s.equipmentRepo.ReleaseTx(ctx, tx, *req.EquipmentID); err != nil {
					return err
				}
			}
			if err := s.equipmentRepo.MarkInUseTx(ctx, tx, eq.ID, id); err != nil {
				return err
			}
		}

		return s.requestRepo.AssignTx(ctx, tx, id, data.PorterID, data.EquipmentID, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("request assigned",
		zap.String("requestID", id.String()),
		zap.String("porterID", data.PorterID.String()),
	)
	s.publish(ctx, events.RequestAssignedEvent{
		RequestID:   id,
		PorterID:    data.PorterID,
		EquipmentID: data.EquipmentID,
	})

	return s.requestRepo.FindRequestDTO(ctx, id)
}

// CancelRequest marks the request cancelled and releases any equipment it
// still holds, in the same transaction. Cancelling an already-cancelled
// request is a no-op; a completed request cannot be cancelled.
func (s *RequestService) CancelRequest(ctx context.Context, id uuid.UUID) (*dto.RequestDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Status == entities.RequestStatusCancelled {
			return nil
		}
		if req.Status == entities.RequestStatusCompleted {
			return apperrors.NewConflictError("cannot cancel a completed request")
		}

		if req.EquipmentID != nil {
			if err := s.equipmentRepo.ReleaseTx(ctx, tx, *req.EquipmentID); err != nil {
				return err
			}
		}

		return s.requestRepo.UpdateStatusTx(ctx, tx, id, entities.RequestStatusCancelled, null.Time{})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RequestCancelledEvent{RequestID: id})

	return s.requestRepo.FindRequestDTO(ctx, id)
}
