package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/pkg/config"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/service"
	"porter-system/pkg/utils"
)

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func testAuthService(t *testing.T, users ...*entities.User) (AuthServiceInterface, *fakeCache) {
	t.Helper()
	cache := newFakeCache()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, time.Hour*24, zap.NewNop())
	authCfg := config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute}
	svc := NewAuthService(newFakeUserRepo(users...), cache, jwtSvc, authCfg, zap.NewNop())
	return svc, cache
}

func testUser(t *testing.T, code, password string) *entities.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &entities.User{
		ID:           uuid.New(),
		EmployeeCode: code,
		FullName:     "Test Porter",
		Role:         entities.RolePorter,
		PasswordHash: hash,
	}
}

func TestLogin(t *testing.T) {
	t.Run("issues a token pair on valid credentials", func(t *testing.T) {
		user := testUser(t, "POR001", "Porter123!")
		svc, _ := testAuthService(t, user)

		res, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "Porter123!"})
		require.NoError(t, err)

		assert.NotEmpty(t, res.Token)
		assert.NotEmpty(t, res.RefreshToken)
		assert.NotEqual(t, res.Token, res.RefreshToken)
		assert.Equal(t, "POR001", res.User.EmployeeCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		user := testUser(t, "POR001", "Porter123!")
		svc, _ := testAuthService(t, user)

		_, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown employee code", func(t *testing.T) {
		svc, _ := testAuthService(t)

		_, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "GHOST", Password: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("locks the account after repeated failures", func(t *testing.T) {
		user := testUser(t, "POR001", "Porter123!")
		svc, _ := testAuthService(t, user)

		for i := 0; i < 3; i++ {
			_, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "nope"})
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		}

		_, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "Porter123!"})
		assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("rotates the stored refresh token", func(t *testing.T) {
		user := testUser(t, "POR001", "Porter123!")
		svc, _ := testAuthService(t, user)

		login, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "Porter123!"})
		require.NoError(t, err)

		refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.Token)

		// The old refresh token is no longer on the allowlist.
		_, err = svc.Refresh(context.Background(), login.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		user := testUser(t, "POR001", "Porter123!")
		svc, _ := testAuthService(t, user)

		login, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "Porter123!"})
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), login.Token)
		assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc, _ := testAuthService(t)

		_, err := svc.Refresh(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestLogout(t *testing.T) {
	user := testUser(t, "POR001", "Porter123!")
	svc, cache := testAuthService(t, user)

	login, err := svc.Login(context.Background(), dto.LoginDTO{EmployeeCode: "POR001", Password: "Porter123!"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctxWithUser(user.ID)))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.Empty(t, cache.values["refresh_token:"+user.ID.String()])
}

func TestMe(t *testing.T) {
	user := testUser(t, "POR001", "Porter123!")
	svc, _ := testAuthService(t, user)

	res, err := svc.Me(ctxWithUser(user.ID))
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.ID)
	assert.Equal(t, "POR001", res.EmployeeCode)
}
