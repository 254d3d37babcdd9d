package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/config"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
	"github.com/zephyrixtech/test-inventory-sub001/internal/testutil"
)

type authEnv struct {
	db       *gorm.DB
	tokens   *auth.TokenManager
	userRepo *repository.UserRepository
}

func setupAuthService(t *testing.T) (*service.AuthService, *authEnv) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	authCfg := &config.AuthConfig{
		JWTSecret: "test-secret-with-enough-entropy",
		JWTIssuer: "inventory-api-test",
		TokenTTL:  3600,
	}
	env := &authEnv{
		db:       db,
		tokens:   auth.NewTokenManager(authCfg),
		userRepo: repository.NewUserRepository(db),
	}
	svc := service.NewAuthService(env.userRepo, env.tokens, authCfg.TokenTTLDuration(), zap.NewNop())
	return svc, env
}

func TestAuthService_LoginIssuesVerifiableToken(t *testing.T) {
	svc, env := setupAuthService(t)
	user := testutil.CreateTestUserWithPassword(t, env.db, "login@example.com", "s3cret-pass")

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "login@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)

	uc, err := env.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uc.UserID)
	assert.Equal(t, "login@example.com", uc.Email)

	// Login stamps last_login_at
	reloaded, err := env.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.WithinDuration(t, time.Now().UTC(), *reloaded.LastLoginAt, time.Minute)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, env := setupAuthService(t)
	testutil.CreateTestUserWithPassword(t, env.db, "wrongpw@example.com", "right-pass")

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "wrongpw@example.com",
		Password: "wrong-pass",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_LoginInactiveUser(t *testing.T) {
	svc, env := setupAuthService(t)
	user := testutil.CreateTestUserWithPassword(t, env.db, "inactive@example.com", "s3cret-pass")
	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "inactive@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_MeReturnsProfile(t *testing.T) {
	svc, env := setupAuthService(t)
	role := testutil.CreateTestRole(t, env.db, "Store Manager")
	user := testutil.CreateTestUser(t, env.db, "profile-user", role)

	dto, err := svc.Me(ctxForUser(user, role))
	require.NoError(t, err)
	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, user.Email, dto.Email)
}

func TestAuthService_MeWithoutIdentity(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
