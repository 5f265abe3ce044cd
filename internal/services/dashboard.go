package services

import (
	"context"

	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/internal/repositories"
	"porter-system/pkg/utils"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	userRepo      repositories.UserRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewDashboardService(
	userRepo repositories.UserRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		userRepo:      userRepo,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	nearby := dto.NearbyEquipmentDTO{FloorID: user.CurrentFloorID, Equipment: make([]dto.ShortEquipmentDTO, 0)}
	if user.CurrentFloorID != nil {
		units, err := s.equipmentRepo.ListAvailableOnFloor(ctx, *user.CurrentFloorID, "")
		if err != nil {
			return nil, err
		}
		for _, eq := range units {
			nearby.Equipment = append(nearby.Equipment, dto.ShortEquipmentDTO{
				ID:           eq.ID,
				Code:         eq.Code,
				Type:         string(eq.Type),
				BatteryLevel: eq.BatteryLevel,
			})
		}
		nearby.Count = len(nearby.Equipment)
	}

	activeTasks, err := s.requestRepo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		User:            dto.NewUserDTO(user),
		NearbyEquipment: nearby,
		ActiveTasks:     activeTasks,
	}, nil
}

// GetStats computes the caller's own quick counters from the requests table;
// the denormalized active_request_count on the user row is ignored.
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.requestRepo.ListStatusesByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsDTO{TotalRequests: len(statuses)}
	for _, status := range statuses {
		switch status {
		case entities.RequestStatusCompleted:
			stats.Completed++
		case entities.RequestStatusInProgress:
			stats.InProgress++
		case entities.RequestStatusPending, entities.RequestStatusQueued, entities.RequestStatusAssigned:
			stats.Pending++
		case entities.RequestStatusCancelled:
		}
	}
	return stats, nil
}
