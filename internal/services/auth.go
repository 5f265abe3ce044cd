package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"porter-system/internal/dto"
	"porter-system/internal/repositories"
	"porter-system/pkg/config"
	"porter-system/pkg/constants"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/service"
	"porter-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*dto.UserDTO, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	jwtSvc    service.JWTService
	authCfg   config.AuthConfig
	logger    *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		jwtSvc:    jwtSvc,
		authCfg:   authCfg,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindUserByEmployeeCode(ctx, data.EmployeeCode)
	if err != nil {
		return nil, err
	}

	lockoutKey := fmt.Sprintf(constants.CacheKeyLockout, user.ID)
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return nil, apperrors.ErrAccountLocked
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("lockout check failed, proceeding without it", zap.Error(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password)); err != nil {
		s.registerFailedAttempt(ctx, user.ID.String())
		return nil, apperrors.ErrInvalidCredentials
	}

	_ = s.cacheRepo.Del(ctx, fmt.Sprintf(constants.CacheKeyLoginAttempts, user.ID))

	accessToken, refreshToken, err := s.jwtSvc.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, apperrors.NewInternalError("could not issue tokens")
	}

	refreshKey := fmt.Sprintf(constants.CacheKeyRefreshToken, user.ID)
	if err := s.cacheRepo.Set(ctx, refreshKey, refreshToken, s.jwtSvc.GetRefreshTokenTTL()); err != nil {
		s.logger.Error("failed to store refresh token", zap.Error(err))
		return nil, apperrors.NewUpstreamError("token store unavailable", err)
	}

	s.logger.Info("user logged in", zap.String("employeeCode", user.EmployeeCode))

	userDTO := dto.NewUserDTO(user)
	return &dto.AuthResponseDTO{User: userDTO, Token: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, userID string) {
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, userID)

	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("failed to count login attempt", zap.Error(err))
		return
	}
	_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.authCfg.LockoutDuration)

	if attempts >= int64(s.authCfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf(constants.CacheKeyLockout, userID)
		_ = s.cacheRepo.Set(ctx, lockoutKey, "locked", s.authCfg.LockoutDuration)
		s.logger.Warn("account locked after failed logins",
			zap.String("userID", userID),
			zap.Int64("attempts", attempts),
		)
	}
}

// Refresh rotates the token pair. The presented refresh token must match the
// allowlisted one, so a stolen-but-rotated token stops working.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	refreshKey := fmt.Sprintf(constants.CacheKeyRefreshToken, claims.UserID)
	stored, err := s.cacheRepo.Get(ctx, refreshKey)
	if err != nil || stored != refreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, err := s.jwtSvc.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.NewInternalError("could not issue tokens")
	}

	if err := s.cacheRepo.Set(ctx, refreshKey, newRefreshToken, s.jwtSvc.GetRefreshTokenTTL()); err != nil {
		return nil, apperrors.NewUpstreamError("token store unavailable", err)
	}

	userDTO := dto.NewUserDTO(user)
	return &dto.AuthResponseDTO{User: userDTO, Token: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.cacheRepo.Del(ctx, fmt.Sprintf(constants.CacheKeyRefreshToken, userID))
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userDTO := dto.NewUserDTO(user)
	return &userDTO, nil
}
