package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	apperrors "porter-system/pkg/errors"
)

// fakeTxManager runs the body with a nil transaction. The fakes below ignore
// the tx argument, so service logic can be exercised without a database.
type fakeTxManager struct {
	beginErr error
}

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	return fn(nil)
}

type fakeRequestRepo struct {
	requests map[uuid.UUID]*entities.Request

	analytics []entities.Request
	forUser   []dto.RequestDTO

	createErr error
	updateErr error
	assignErr error

	updateCalls int
	assignCalls int
}

func newFakeRequestRepo(reqs ...*entities.Request) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: make(map[uuid.UUID]*entities.Request)}
	for _, r := range reqs {
		repo.requests[r.ID] = r
	}
	return repo
}

func (f *fakeRequestRepo) GetRequests(_ context.Context, _ dto.RequestListFilter) ([]dto.RequestDTO, error) {
	out := make([]dto.RequestDTO, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, dto.NewRequestDTO(r))
	}
	return out, nil
}

func (f *fakeRequestRepo) FindRequestDTO(_ context.Context, id uuid.UUID) (*dto.RequestDTO, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("request %s not found", id)
	}
	out := dto.NewRequestDTO(r)
	return &out, nil
}

func (f *fakeRequestRepo) ListActiveForUser(_ context.Context, _ uuid.UUID) ([]dto.RequestDTO, error) {
	return f.forUser, nil
}

func (f *fakeRequestRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]dto.RequestDTO, error) {
	return f.forUser, nil
}

func (f *fakeRequestRepo) ListByRequester(_ context.Context, _ uuid.UUID) ([]dto.RequestDTO, error) {
	return f.forUser, nil
}

func (f *fakeRequestRepo) ListByAssignee(_ context.Context, _ uuid.UUID) ([]dto.RequestDTO, error) {
	return f.forUser, nil
}

func (f *fakeRequestRepo) CreateRequest(_ context.Context, req *entities.Request) error {
	if f.createErr != nil {
		return f.createErr
	}
	req.CreatedAt = time.Now()
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestRepo) FindRequestForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*entities.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("request %s not found", id)
	}
	return r, nil
}

func (f *fakeRequestRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status entities.RequestStatus, completedAt null.Time) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	r := f.requests[id]
	r.Status = status
	if completedAt.Valid {
		r.CompletedAt = completedAt
	}
	return nil
}

func (f *fakeRequestRepo) AssignTx(_ context.Context, _ pgx.Tx, id uuid.UUID, porterID uuid.UUID, equipmentID *uuid.UUID, assignedAt time.Time) error {
	f.assignCalls++
	if f.assignErr != nil {
		return f.assignErr
	}
	r := f.requests[id]
	r.AssignedTo = &porterID
	if equipmentID != nil {
		r.EquipmentID = equipmentID
	}
	r.Status = entities.RequestStatusAssigned
	r.AssignedAt = null.TimeFrom(assignedAt)
	return nil
}

func (f *fakeRequestRepo) GetAllForAnalytics(_ context.Context) ([]entities.Request, error) {
	return f.analytics, nil
}

func (f *fakeRequestRepo) ListStatusesByAssignee(_ context.Context, _ uuid.UUID) ([]entities.RequestStatus, error) {
	out := make([]entities.RequestStatus, 0, len(f.analytics))
	for _, r := range f.analytics {
		out = append(out, r.Status)
	}
	return out, nil
}

type fakeEquipmentRepo struct {
	units map[uuid.UUID]*entities.Equipment

	markErr error

	markCalls    int
	releaseCalls int
}

func newFakeEquipmentRepo(units ...*entities.Equipment) *fakeEquipmentRepo {
	repo := &fakeEquipmentRepo{units: make(map[uuid.UUID]*entities.Equipment)}
	for _, eq := range units {
		repo.units[eq.ID] = eq
	}
	return repo
}

func (f *fakeEquipmentRepo) GetEquipments(_ context.Context, _ dto.EquipmentFilter) ([]dto.EquipmentDTO, error) {
	out := make([]dto.EquipmentDTO, 0, len(f.units))
	for _, eq := range f.units {
		out = append(out, dto.EquipmentDTO{ID: eq.ID, Code: eq.Code, Type: string(eq.Type), Status: string(eq.Status)})
	}
	return out, nil
}

func (f *fakeEquipmentRepo) FindEquipmentDTO(_ context.Context, id uuid.UUID) (*dto.EquipmentDTO, error) {
	eq, ok := f.units[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("equipment %s not found", id)
	}
	return &dto.EquipmentDTO{ID: eq.ID, Code: eq.Code, Type: string(eq.Type), Status: string(eq.Status)}, nil
}

func (f *fakeEquipmentRepo) ListAvailableOnFloor(_ context.Context, floorID uuid.UUID, equipmentType string) ([]entities.Equipment, error) {
	out := make([]entities.Equipment, 0)
	for _, eq := range f.units {
		if eq.Status != entities.EquipmentStatusAvailable {
			continue
		}
		if eq.CurrentFloorID == nil || *eq.CurrentFloorID != floorID {
			continue
		}
		if equipmentType != "" && string(eq.Type) != equipmentType {
			continue
		}
		out = append(out, *eq)
	}
	return out, nil
}

func (f *fakeEquipmentRepo) FindEquipmentForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*entities.Equipment, error) {
	eq, ok := f.units[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("equipment %s not found", id)
	}
	return eq, nil
}

func (f *fakeEquipmentRepo) MarkInUseTx(_ context.Context, _ pgx.Tx, id uuid.UUID, requestID uuid.UUID) error {
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	eq := f.units[id]
	eq.Status = entities.EquipmentStatusInUse
	eq.AssignedRequestID = &requestID
	return nil
}

func (f *fakeEquipmentRepo) ReleaseTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	f.releaseCalls++
	eq := f.units[id]
	eq.Status = entities.EquipmentStatusAvailable
	eq.AssignedRequestID = nil
	return nil
}

func (f *fakeEquipmentRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status entities.EquipmentStatus) error {
	eq, ok := f.units[id]
	if !ok {
		return apperrors.NewNotFoundError("equipment %s not found", id)
	}
	eq.Status = status
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("staff member not found")
	}
	return u, nil
}

func (f *fakeUserRepo) FindUserByEmployeeCode(_ context.Context, code string) (*entities.User, error) {
	for _, u := range f.users {
		if u.EmployeeCode == code {
			return u, nil
		}
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (f *fakeUserRepo) ListStaff(_ context.Context, filter dto.WorkloadFilter) ([]entities.User, error) {
	out := make([]entities.User, 0, len(f.users))
	for _, u := range f.users {
		if filter.Role != "" && filter.Role != "all" && string(u.Role) != filter.Role {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && u.CurrentStatus != filter.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}
