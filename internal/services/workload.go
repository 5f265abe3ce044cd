package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/internal/repositories"
)

type WorkloadServiceInterface interface {
	SystemSummary(ctx context.Context) (*dto.SystemSummaryDTO, error)
	StaffSummary(ctx context.Context, filter dto.WorkloadFilter) ([]dto.StaffSummaryDTO, error)
	StaffDetail(ctx context.Context, userID uuid.UUID) (*dto.StaffDetailDTO, error)
}

// WorkloadService is the analytics engine: a pure read-side aggregation over
// the request store. It never mutates, and it never trusts the denormalized
// per-user counters; everything is recomputed from request rows on each call.
type WorkloadService struct {
	requestRepo repositories.RequestRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	logger      *zap.Logger
}

func NewWorkloadService(
	requestRepo repositories.RequestRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) WorkloadServiceInterface {
	return &WorkloadService{requestRepo: requestRepo, userRepo: userRepo, logger: logger}
}

func (s *WorkloadService) SystemSummary(ctx context.Context) (*dto.SystemSummaryDTO, error) {
	requests, err := s.requestRepo.GetAllForAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	completed := 0
	cancelled := 0
	totalMinutes := 0.0
	timedCount := 0

	for _, r := range requests {
		switch r.Status {
		case entities.RequestStatusCompleted:
			completed++
			if r.CompletedAt.Valid {
				totalMinutes += r.CompletedAt.Time.Sub(r.CreatedAt).Minutes()
				timedCount++
			}
		case entities.RequestStatusCancelled:
			cancelled++
		case entities.RequestStatusPending, entities.RequestStatusQueued,
			entities.RequestStatusAssigned, entities.RequestStatusInProgress:
		}
	}

	avgMinutes := 0
	if timedCount > 0 {
		avgMinutes = int(math.Round(totalMinutes / float64(timedCount)))
	}

	// An empty or all-pending system is 100% efficient by definition.
	efficiency := 100
	if completed+cancelled > 0 {
		efficiency = int(math.Round(100 * float64(completed) / float64(completed+cancelled)))
	}

	return &dto.SystemSummaryDTO{
		TotalTasks:     len(requests),
		Completed:      completed,
		AvgTimeMinutes: avgMinutes,
		Efficiency:     efficiency,
	}, nil
}

func (s *WorkloadService) StaffSummary(ctx context.Context, filter dto.WorkloadFilter) ([]dto.StaffSummaryDTO, error) {
	users, err := s.userRepo.ListStaff(ctx, filter)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.GetAllForAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StaffSummaryDTO, 0, len(users))
	for _, user := range users {
		out = append(out, buildStaffSummary(&user, tasksInvolving(requests, user.ID)))
	}
	return out, nil
}

func (s *WorkloadService) StaffDetail(ctx context.Context, userID uuid.UUID) (*dto.StaffDetailDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.GetAllForAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.requestRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}

	detail := &dto.StaffDetailDTO{
		StaffSummaryDTO: buildStaffSummary(user, tasksInvolving(requests, userID)),
		RecentTasks:     recent,
	}
	return detail, nil
}

// tasksInvolving keeps the requests a user touched as requester or assignee.
func tasksInvolving(requests []entities.Request, userID uuid.UUID) []entities.Request {
	out := make([]entities.Request, 0)
	for _, r := range requests {
		if (r.RequestedBy != nil && *r.RequestedBy == userID) ||
			(r.AssignedTo != nil && *r.AssignedTo == userID) {
			out = append(out, r)
		}
	}
	return out
}

// buildStaffSummary derives the per-user metrics. Completion rate defaults to
// 100 when the user has closed nothing yet, and the blended efficiency score
// weighs completion over speed (0.7 vs 0.3), clamped to [0,100].
func buildStaffSummary(user *entities.User, tasks []entities.Request) dto.StaffSummaryDTO {
	var buckets dto.TaskBucketsDTO
	totalMinutes := 0.0
	timedCount := 0

	for _, r := range tasks {
		switch r.Status {
		case entities.RequestStatusCompleted:
			buckets.Completed++
			if r.CompletedAt.Valid {
				totalMinutes += r.CompletedAt.Time.Sub(r.CreatedAt).Minutes()
				timedCount++
			}
		case entities.RequestStatusInProgress, entities.RequestStatusAssigned:
			buckets.Active++
		case entities.RequestStatusPending, entities.RequestStatusQueued:
			buckets.Pending++
		case entities.RequestStatusCancelled:
			buckets.Cancelled++
		}
	}
	buckets.Total = len(tasks)

	completionRate := 100
	if handled := buckets.Completed + buckets.Cancelled; handled > 0 {
		completionRate = int(math.Round(100 * float64(buckets.Completed) / float64(handled)))
	}

	avgMinutes := 0
	if timedCount > 0 {
		avgMinutes = int(math.Round(totalMinutes / float64(timedCount)))
	}

	score := math.Round(float64(completionRate)*0.7 + math.Max(0, float64(100-avgMinutes))*0.3)
	efficiencyScore := int(math.Min(100, score))

	return dto.StaffSummaryDTO{
		ID:             user.ID,
		EmployeeCode:   user.EmployeeCode,
		FullName:       user.FullName,
		Role:           string(user.Role),
		Phone:          user.Phone,
		CurrentStatus:  user.CurrentStatus,
		CurrentFloorID: user.CurrentFloorID,

		Tasks:           buckets,
		CompletionRate:  completionRate,
		EfficiencyScore: efficiencyScore,
		AvgTimeMinutes:  avgMinutes,
	}
}
