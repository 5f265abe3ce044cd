package services

import (
	"context"

	"github.com/google/uuid"

	"porter-system/internal/entities"
	"porter-system/internal/repositories"
)

type DirectoryServiceInterface interface {
	ListFloors(ctx context.Context) ([]entities.Floor, error)
	ListRoomsByFloor(ctx context.Context, floorID uuid.UUID) ([]entities.Room, error)
	FindRoom(ctx context.Context, id uuid.UUID) (*entities.Room, error)
}

type DirectoryService struct {
	directoryRepo repositories.DirectoryRepositoryInterface
}

func NewDirectoryService(directoryRepo repositories.DirectoryRepositoryInterface) DirectoryServiceInterface {
	return &DirectoryService{directoryRepo: directoryRepo}
}

func (s *DirectoryService) ListFloors(ctx context.Context) ([]entities.Floor, error) {
	return s.directoryRepo.ListFloors(ctx)
}

func (s *DirectoryService) ListRoomsByFloor(ctx context.Context, floorID uuid.UUID) ([]entities.Room, error) {
	return s.directoryRepo.ListRoomsByFloor(ctx, floorID)
}

func (s *DirectoryService) FindRoom(ctx context.Context, id uuid.UUID) (*entities.Room, error) {
	return s.directoryRepo.FindRoom(ctx, id)
}
