package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/pkg/contextkeys"
	apperrors "porter-system/pkg/errors"
)

func ctxWithUser(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
}

func newRequestService(reqRepo *fakeRequestRepo, eqRepo *fakeEquipmentRepo) RequestServiceInterface {
	return NewRequestService(&fakeTxManager{}, reqRepo, eqRepo, nil, zap.NewNop())
}

func pendingRequest(id uuid.UUID) *entities.Request {
	return &entities.Request{
		ID:                id,
		Priority:          entities.PriorityNormal,
		EquipmentType:     entities.EquipmentTypeWheelchair,
		PickupRoomID:      uuid.New(),
		DestinationRoomID: uuid.New(),
		EstimatedMinutes:  entities.DefaultEstimatedMinutes,
		Status:            entities.RequestStatusPending,
	}
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
}

func TestCreateRequest(t *testing.T) {
	validPayload := func() dto.CreateRequestDTO {
		return dto.CreateRequestDTO{
			Priority:          2,
			EquipmentType:     "wheelchair",
			PickupRoomID:      uuid.New(),
			DestinationRoomID: uuid.New(),
		}
	}

	t.Run("creates a pending request owned by the caller", func(t *testing.T) {
		repo := newFakeRequestRepo()
		svc := newRequestService(repo, newFakeEquipmentRepo())
		userID := uuid.New()

		res, err := svc.CreateRequest(ctxWithUser(userID), validPayload())
		require.NoError(t, err)

		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, 2, res.Priority)
		assert.Equal(t, "HIGH", res.PriorityLabel)
		assert.Equal(t, entities.DefaultEstimatedMinutes, res.EstimatedMinutes)

		stored := repo.requests[res.ID]
		require.NotNil(t, stored.RequestedBy)
		assert.Equal(t, userID, *stored.RequestedBy)
	})

	t.Run("honours an explicit duration estimate", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())
		payload := validPayload()
		payload.EstimatedMinutes = null.IntFrom(45)

		res, err := svc.CreateRequest(ctxWithUser(uuid.New()), payload)
		require.NoError(t, err)
		assert.Equal(t, 45, res.EstimatedMinutes)
	})

	t.Run("rejects out-of-range priority", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

		for _, priority := range []int{0, 4, 5, -1} {
			payload := validPayload()
			payload.Priority = priority

			_, err := svc.CreateRequest(ctxWithUser(uuid.New()), payload)
			assertHTTPCode(t, err, http.StatusBadRequest)
		}
	})

	t.Run("rejects unknown equipment type", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())
		payload := validPayload()
		payload.EquipmentType = "gurney"

		_, err := svc.CreateRequest(ctxWithUser(uuid.New()), payload)
		assertHTTPCode(t, err, http.StatusBadRequest)
	})

	t.Run("rejects missing rooms", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())
		payload := validPayload()
		payload.DestinationRoomID = uuid.Nil

		_, err := svc.CreateRequest(ctxWithUser(uuid.New()), payload)
		assertHTTPCode(t, err, http.StatusBadRequest)
	})

	t.Run("requires an authenticated caller", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

		_, err := svc.CreateRequest(context.Background(), validPayload())
		assert.ErrorIs(t, err, apperrors.ErrUserIDNotFoundInContext)
	})
}

func TestAdvanceStatus(t *testing.T) {
	t.Run("moves through the happy path", func(t *testing.T) {
		id := uuid.New()
		repo := newFakeRequestRepo(pendingRequest(id))
		svc := newRequestService(repo, newFakeEquipmentRepo())

		for _, status := range []string{"queued", "assigned", "in_progress"} {
			res, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, res.Status)
			assert.False(t, res.CompletedAt.Valid)
		}
	})

	t.Run("stamps completed_at exactly on completion", func(t *testing.T) {
		id := uuid.New()
		repo := newFakeRequestRepo(pendingRequest(id))
		svc := newRequestService(repo, newFakeEquipmentRepo())

		res, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		assert.True(t, repo.requests[id].CompletedAt.Valid)
	})

	t.Run("permits forward jumps", func(t *testing.T) {
		id := uuid.New()
		repo := newFakeRequestRepo(pendingRequest(id))
		svc := newRequestService(repo, newFakeEquipmentRepo())

		res, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: "in_progress"})
		require.NoError(t, err)
		assert.Equal(t, "in_progress", res.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		id := uuid.New()
		svc := newRequestService(newFakeRequestRepo(pendingRequest(id)), newFakeEquipmentRepo())

		_, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: "done"})
		assertHTTPCode(t, err, http.StatusBadRequest)
	})

	t.Run("terminal states accept no transition", func(t *testing.T) {
		for _, terminal := range []entities.RequestStatus{entities.RequestStatusCompleted, entities.RequestStatusCancelled} {
			id := uuid.New()
			req := pendingRequest(id)
			req.Status = terminal
			svc := newRequestService(newFakeRequestRepo(req), newFakeEquipmentRepo())

			_, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: "in_progress"})
			assertHTTPCode(t, err, http.StatusConflict)
		}
	})

	t.Run("unknown request is a 404", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

		_, err := svc.AdvanceStatus(context.Background(), uuid.New(), dto.AdvanceStatusDTO{Status: "queued"})
		assertHTTPCode(t, err, http.StatusNotFound)
	})

	t.Run("completing releases held equipment", func(t *testing.T) {
		id := uuid.New()
		eqID := uuid.New()
		req := pendingRequest(id)
		req.Status = entities.RequestStatusInProgress
		req.EquipmentID = &eqID

		eqRepo := newFakeEquipmentRepo(&entities.Equipment{
			ID: eqID, Code: "WC-001",
			Type:              entities.EquipmentTypeWheelchair,
			Status:            entities.EquipmentStatusInUse,
			AssignedRequestID: &id,
		})
		repo := newFakeRequestRepo(req)
		svc := newRequestService(repo, eqRepo)

		res, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		assert.True(t, repo.requests[id].CompletedAt.Valid)
		assert.Equal(t, entities.EquipmentStatusAvailable, eqRepo.units[eqID].Status)
		assert.Nil(t, eqRepo.units[eqID].AssignedRequestID)
	})

	t.Run("advancing to cancelled releases held equipment", func(t *testing.T) {
		id := uuid.New()
		eqID := uuid.New()
		req := pendingRequest(id)
		req.Status = entities.RequestStatusAssigned
		req.EquipmentID = &eqID

		eqRepo := newFakeEquipmentRepo(&entities.Equipment{
			ID: eqID, Code: "WC-001",
			Type:              entities.EquipmentTypeWheelchair,
			Status:            entities.EquipmentStatusInUse,
			AssignedRequestID: &id,
		})
		svc := newRequestService(newFakeRequestRepo(req), eqRepo)

		res, err := svc.AdvanceStatus(context.Background(), id, dto.AdvanceStatusDTO{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", res.Status)
		assert.Equal(t, entities.EquipmentStatusAvailable, eqRepo.units[eqID].Status)
		assert.Nil(t, eqRepo.units[eqID].AssignedRequestID)
	})
}

func TestAssignRequest(t *testing.T) {
	availableUnit := func(id uuid.UUID) *entities.Equipment {
		return &entities.Equipment{
			ID:     id,
			Code:   "WC-001",
			Type:   entities.EquipmentTypeWheelchair,
			Status: entities.EquipmentStatusAvailable,
		}
	}

	t.Run("couples request and equipment", func(t *testing.T) {
		reqID, eqID, porterID := uuid.New(), uuid.New(), uuid.New()
		reqRepo := newFakeRequestRepo(pendingRequest(reqID))
		eqRepo := newFakeEquipmentRepo(availableUnit(eqID))
		svc := newRequestService(reqRepo, eqRepo)

		res, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: porterID, EquipmentID: &eqID})
		require.NoError(t, err)

		assert.Equal(t, "assigned", res.Status)
		assert.Equal(t, entities.EquipmentStatusInUse, eqRepo.units[eqID].Status)
		require.NotNil(t, eqRepo.units[eqID].AssignedRequestID)
		assert.Equal(t, reqID, *eqRepo.units[eqID].AssignedRequestID)
		assert.True(t, reqRepo.requests[reqID].AssignedAt.Valid)
	})

	t.Run("assigns without equipment", func(t *testing.T) {
		reqID, porterID := uuid.New(), uuid.New()
		reqRepo := newFakeRequestRepo(pendingRequest(reqID))
		eqRepo := newFakeEquipmentRepo()
		svc := newRequestService(reqRepo, eqRepo)

		res, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: porterID})
		require.NoError(t, err)
		assert.Equal(t, "assigned", res.Status)
		assert.Zero(t, eqRepo.markCalls)
	})

	t.Run("unavailable equipment is a conflict and nothing is written", func(t *testing.T) {
		for _, status := range []entities.EquipmentStatus{
			entities.EquipmentStatusInUse,
			entities.EquipmentStatusCharging,
			entities.EquipmentStatusMaintenance,
		} {
			reqID, eqID := uuid.New(), uuid.New()
			unit := availableUnit(eqID)
			unit.Status = status

			reqRepo := newFakeRequestRepo(pendingRequest(reqID))
			eqRepo := newFakeEquipmentRepo(unit)
			svc := newRequestService(reqRepo, eqRepo)

			_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: uuid.New(), EquipmentID: &eqID})
			assertHTTPCode(t, err, http.StatusConflict)
			assert.Zero(t, eqRepo.markCalls)
			assert.Zero(t, reqRepo.assignCalls)
		}
	})

	t.Run("request write failure stops the equipment from staying coupled", func(t *testing.T) {
		reqID, eqID := uuid.New(), uuid.New()
		reqRepo := newFakeRequestRepo(pendingRequest(reqID))
		reqRepo.assignErr = errors.New("write failed")
		eqRepo := newFakeEquipmentRepo(availableUnit(eqID))
		svc := newRequestService(reqRepo, eqRepo)

		_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: uuid.New(), EquipmentID: &eqID})
		require.Error(t, err)
	})

	t.Run("assigning a different unit releases the previous one", func(t *testing.T) {
		reqID, porterID := uuid.New(), uuid.New()
		unitA, unitB := availableUnit(uuid.New()), availableUnit(uuid.New())
		unitB.Code = "WC-002"
		unitA.Status = entities.EquipmentStatusInUse
		unitA.AssignedRequestID = &reqID

		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusAssigned
		req.EquipmentID = &unitA.ID

		reqRepo := newFakeRequestRepo(req)
		eqRepo := newFakeEquipmentRepo(unitA, unitB)
		svc := newRequestService(reqRepo, eqRepo)

		_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: porterID, EquipmentID: &unitB.ID})
		require.NoError(t, err)

		assert.Equal(t, entities.EquipmentStatusAvailable, eqRepo.units[unitA.ID].Status)
		assert.Nil(t, eqRepo.units[unitA.ID].AssignedRequestID)
		assert.Equal(t, entities.EquipmentStatusInUse, eqRepo.units[unitB.ID].Status)
		require.NotNil(t, eqRepo.units[unitB.ID].AssignedRequestID)
		assert.Equal(t, reqID, *eqRepo.units[unitB.ID].AssignedRequestID)
	})

	t.Run("re-assigning the held unit leaves the coupling alone", func(t *testing.T) {
		reqID := uuid.New()
		unit := availableUnit(uuid.New())
		unit.Status = entities.EquipmentStatusInUse
		unit.AssignedRequestID = &reqID

		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusAssigned
		req.EquipmentID = &unit.ID

		eqRepo := newFakeEquipmentRepo(unit)
		svc := newRequestService(newFakeRequestRepo(req), eqRepo)

		_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: uuid.New(), EquipmentID: &unit.ID})
		require.NoError(t, err)
		assert.Zero(t, eqRepo.markCalls)
		assert.Zero(t, eqRepo.releaseCalls)
		assert.Equal(t, entities.EquipmentStatusInUse, eqRepo.units[unit.ID].Status)
	})

	t.Run("failed swap keeps the previous unit held", func(t *testing.T) {
		reqID := uuid.New()
		unitA, unitB := availableUnit(uuid.New()), availableUnit(uuid.New())
		unitB.Code = "WC-002"
		unitB.Status = entities.EquipmentStatusMaintenance
		unitA.Status = entities.EquipmentStatusInUse
		unitA.AssignedRequestID = &reqID

		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusAssigned
		req.EquipmentID = &unitA.ID

		eqRepo := newFakeEquipmentRepo(unitA, unitB)
		svc := newRequestService(newFakeRequestRepo(req), eqRepo)

		_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: uuid.New(), EquipmentID: &unitB.ID})
		assertHTTPCode(t, err, http.StatusConflict)
		assert.Zero(t, eqRepo.releaseCalls)
		assert.Equal(t, entities.EquipmentStatusInUse, eqRepo.units[unitA.ID].Status)
	})

	t.Run("terminal request cannot be assigned", func(t *testing.T) {
		reqID := uuid.New()
		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusCompleted
		svc := newRequestService(newFakeRequestRepo(req), newFakeEquipmentRepo())

		_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: uuid.New()})
		assertHTTPCode(t, err, http.StatusConflict)
	})

	t.Run("unknown equipment is a 404", func(t *testing.T) {
		reqID := uuid.New()
		eqID := uuid.New()
		svc := newRequestService(newFakeRequestRepo(pendingRequest(reqID)), newFakeEquipmentRepo())

		_, err := svc.AssignRequest(context.Background(), reqID, dto.AssignRequestDTO{PorterID: uuid.New(), EquipmentID: &eqID})
		assertHTTPCode(t, err, http.StatusNotFound)
	})
}

func TestListActiveForUser(t *testing.T) {
	t.Run("orders by priority then creation time", func(t *testing.T) {
		statNew := dto.RequestDTO{ID: uuid.New(), Priority: 1, CreatedAt: "2026-09-01 10:30:00"}
		highOld := dto.RequestDTO{ID: uuid.New(), Priority: 2, CreatedAt: "2026-09-01 09:00:00"}
		highNew := dto.RequestDTO{ID: uuid.New(), Priority: 2, CreatedAt: "2026-09-01 09:45:00"}
		normalOld := dto.RequestDTO{ID: uuid.New(), Priority: 3, CreatedAt: "2026-09-01 08:00:00"}

		repo := newFakeRequestRepo()
		repo.forUser = []dto.RequestDTO{normalOld, highNew, statNew, highOld}
		svc := newRequestService(repo, newFakeEquipmentRepo())

		queue, err := svc.ListActiveForUser(ctxWithUser(uuid.New()))
		require.NoError(t, err)

		require.Len(t, queue, 4)
		assert.Equal(t, statNew.ID, queue[0].ID)
		assert.Equal(t, highOld.ID, queue[1].ID)
		assert.Equal(t, highNew.ID, queue[2].ID)
		assert.Equal(t, normalOld.ID, queue[3].ID)
	})

	t.Run("requires an authenticated caller", func(t *testing.T) {
		svc := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

		_, err := svc.ListActiveForUser(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrUserIDNotFoundInContext)
	})
}

func TestCancelRequest(t *testing.T) {
	t.Run("cancels and releases equipment", func(t *testing.T) {
		reqID, eqID := uuid.New(), uuid.New()
		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusInProgress
		req.EquipmentID = &eqID

		eqRepo := newFakeEquipmentRepo(&entities.Equipment{
			ID: eqID, Code: "BED-001",
			Type:              entities.EquipmentTypeBed,
			Status:            entities.EquipmentStatusInUse,
			AssignedRequestID: &reqID,
		})
		svc := newRequestService(newFakeRequestRepo(req), eqRepo)

		res, err := svc.CancelRequest(context.Background(), reqID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", res.Status)
		assert.Equal(t, entities.EquipmentStatusAvailable, eqRepo.units[eqID].Status)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		reqID := uuid.New()
		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusCancelled
		repo := newFakeRequestRepo(req)
		svc := newRequestService(repo, newFakeEquipmentRepo())

		res, err := svc.CancelRequest(context.Background(), reqID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", res.Status)
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("completed request cannot be cancelled", func(t *testing.T) {
		reqID := uuid.New()
		req := pendingRequest(reqID)
		req.Status = entities.RequestStatusCompleted
		svc := newRequestService(newFakeRequestRepo(req), newFakeEquipmentRepo())

		_, err := svc.CancelRequest(context.Background(), reqID)
		assertHTTPCode(t, err, http.StatusConflict)
	})

	t.Run("does not touch equipment when none is held", func(t *testing.T) {
		reqID := uuid.New()
		eqRepo := newFakeEquipmentRepo()
		svc := newRequestService(newFakeRequestRepo(pendingRequest(reqID)), eqRepo)

		_, err := svc.CancelRequest(context.Background(), reqID)
		require.NoError(t, err)
		assert.Zero(t, eqRepo.releaseCalls)
	})
}
