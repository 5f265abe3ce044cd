package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/internal/repositories"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter dto.EquipmentFilter) ([]dto.EquipmentDTO, error)
	FindEquipment(ctx context.Context, id uuid.UUID) (*dto.EquipmentDTO, error)
	Nearby(ctx context.Context, equipmentType string) ([]entities.Equipment, *uuid.UUID, error)
	Search(ctx context.Context, filter dto.EquipmentFilter) ([]dto.EquipmentDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, data dto.UpdateEquipmentStatusDTO) (*dto.EquipmentDTO, error)
}

type EquipmentService struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter dto.EquipmentFilter) ([]dto.EquipmentDTO, error) {
	if filter.Status != "" && !entities.EquipmentStatus(filter.Status).Valid() {
		return nil, apperrors.NewValidationError("unknown equipment status %q", filter.Status)
	}
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uuid.UUID) (*dto.EquipmentDTO, error) {
	return s.equipmentRepo.FindEquipmentDTO(ctx, id)
}

// Nearby lists available units on the caller's current floor. Spatial
// positioning beyond the floor granularity is out of scope.
func (s *EquipmentService) Nearby(ctx context.Context, equipmentType string) ([]entities.Equipment, *uuid.UUID, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if user.CurrentFloorID == nil {
		return nil, nil, apperrors.NewValidationError("user has no floor assignment")
	}

	equipment, err := s.equipmentRepo.ListAvailableOnFloor(ctx, *user.CurrentFloorID, equipmentType)
	if err != nil {
		return nil, nil, err
	}
	return equipment, user.CurrentFloorID, nil
}

func (s *EquipmentService) Search(ctx context.Context, filter dto.EquipmentFilter) ([]dto.EquipmentDTO, error) {
	if filter.Query == "" && filter.Type == "" && filter.Status == "" {
		return nil, apperrors.NewValidationError("please provide search query (q), type, or status")
	}
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

// UpdateStatus handles status changes initiated outside the dispatch flow.
// in_use can only be entered through assignment. charging and maintenance
// apply regardless of the coupling. available on a held unit releases the
// unit when the holding request has reached a terminal status and is a
// conflict while the request is still active.
func (s *EquipmentService) UpdateStatus(ctx context.Context, id uuid.UUID, data dto.UpdateEquipmentStatusDTO) (*dto.EquipmentDTO, error) {
	target := entities.EquipmentStatus(data.Status)
	if !target.Valid() {
		return nil, apperrors.NewValidationError(
			"invalid status, must be one of: available, in_use, charging, maintenance")
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if target == entities.EquipmentStatusInUse {
			return apperrors.NewConflictError("in_use is set by request assignment, not directly")
		}
		if target == entities.EquipmentStatusAvailable && eq.AssignedRequestID != nil {
			req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, *eq.AssignedRequestID)
			if err != nil {
				return err
			}
			if !req.Status.Terminal() {
				return apperrors.NewConflictError(
					"equipment %s is held by a %s request and cannot be set to available", eq.Code, req.Status)
			}
			// Releasing also clears the link to the finished request.
			return s.equipmentRepo.ReleaseTx(ctx, tx, eq.ID)
		}

		return s.equipmentRepo.UpdateStatusTx(ctx, tx, eq.ID, target)
	})
	if err != nil {
		return nil, err
	}

	return s.equipmentRepo.FindEquipmentDTO(ctx, id)
}
