package utils

import (
	"context"

	"github.com/google/uuid"

	"porter-system/pkg/contextkeys"
	apperrors "porter-system/pkg/errors"
)

// GetUserIDFromCtx returns the authenticated caller's id placed into the
// context by the auth middleware. Engines must take the requester identity
// from here, never from client input.
func GetUserIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok || role == "" {
		return "", apperrors.ErrForbidden
	}
	return role, nil
}
