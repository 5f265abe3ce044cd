package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	apperrors "porter-system/pkg/errors"
)

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindUserByEmployeeCode(ctx context.Context, code string) (*entities.User, error)
	ListStaff(ctx context.Context, filter dto.WorkloadFilter) ([]entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

const userColumns = `id, employee_code, full_name, role, phone, password_hash,
	current_status, current_floor_id, active_request_count, created_at`

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	var role string

	err := row.Scan(
		&user.ID, &user.EmployeeCode, &user.FullName, &role, &user.Phone,
		&user.PasswordHash, &user.CurrentStatus, &user.CurrentFloorID,
		&user.ActiveRequestCount, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = entities.Role(role)
	return &user, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := scanUser(r.storage.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("staff member not found")
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindUserByEmployeeCode(ctx context.Context, code string) (*entities.User, error) {
	user, err := scanUser(r.storage.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE employee_code = $1`, userColumns), code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by employee code: %w", err)
	}
	return user, nil
}

func (r *UserRepository) ListStaff(ctx context.Context, filter dto.WorkloadFilter) ([]entities.User, error) {
	builder := sq.Select(
		"id", "employee_code", "full_name", "role", "phone", "password_hash",
		"current_status", "current_floor_id", "active_request_count", "created_at",
	).
		From("users").
		OrderBy("full_name ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.Role != "" && filter.Role != "all" {
		builder = builder.Where(sq.Eq{"role": filter.Role})
	}
	if filter.Status != "" && filter.Status != "all" {
		builder = builder.Where(sq.Eq{"current_status": filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build staff query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	defer rows.Close()

	out := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}
