package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/pkg/contextkeys"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/service"
	"porter-system/pkg/utils"
)

// Auth validates the bearer token and stores the caller's identity in the
// request context. Refresh tokens are rejected here, they are only good for
// the refresh endpoint.
func Auth(jwtSvc service.JWTService, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, logger)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, logger)
			}

			claims, err := jwtSvc.ValidateToken(parts[1])
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if claims.IsRefreshToken {
				return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, logger)
			}

			ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, contextkeys.UserRoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole guards admin-only endpoints. It must run after Auth.
func RequireRole(logger *zap.Logger, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := utils.GetUserRoleFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return utils.ErrorResponse(c, apperrors.ErrForbidden, logger)
		}
	}
}
