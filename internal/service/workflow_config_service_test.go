package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
	"github.com/zephyrixtech/test-inventory-sub001/internal/testutil"
)

func setupConfigService(t *testing.T) (*service.WorkflowConfigService, *configEnv) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	env := &configEnv{
		admin: testutil.CreateTestUser(t, db, "admin"),
		role1: testutil.CreateTestRole(t, db, "Store Manager"),
		role2: testutil.CreateTestRole(t, db, "Finance Manager"),
	}
	svc := service.NewWorkflowConfigService(
		repository.NewWorkflowConfigRepository(db),
		repository.NewRoleRepository(db),
		nil, zap.NewNop(),
	)
	return svc, env
}

type configEnv struct {
	admin *domain.User
	role1 *domain.Role
	role2 *domain.Role
}

func TestWorkflowConfigService_CreateContiguousChain(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	first, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Level)
	assert.True(t, first.IsActive)

	second, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       2,
		RoleID:      env.role2.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Level)
}

func TestWorkflowConfigService_CreateLevelGapRejected(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	_, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)

	// Level 3 without a level 2 breaks the chain
	_, err = svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       3,
		RoleID:      env.role2.ID,
	})
	assert.ErrorIs(t, err, service.ErrWorkflowConfig)
}

func TestWorkflowConfigService_CreateDuplicateLevelRejected(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	_, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role2.ID,
	})
	assert.ErrorIs(t, err, service.ErrWorkflowConfig)
}

func TestWorkflowConfigService_CreateUnknownRole(t *testing.T) {
	svc, env := setupConfigService(t)

	_, err := svc.Create(ctxForUser(env.admin), &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.admin.ID, // a user id, not a role id
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWorkflowConfigService_UpdateCannotBreakChain(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	first, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       2,
		RoleID:      env.role2.ID,
	})
	require.NoError(t, err)

	// Moving level 1 to level 3 would leave the chain without a first rung
	_, err = svc.Update(ctx, first.ID, &domain.UpdateWorkflowConfigRequest{
		Level:    3,
		RoleID:   env.role1.ID,
		IsActive: true,
	})
	assert.ErrorIs(t, err, service.ErrWorkflowConfig)
}

func TestWorkflowConfigService_DeleteMiddleLevelRejected(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	_, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       2,
		RoleID:      env.role2.ID,
	})
	require.NoError(t, err)
	third, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       3,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)

	// Removing level 2 would leave levels 1 and 3 with a gap
	err = svc.Delete(ctx, second.ID)
	assert.ErrorIs(t, err, service.ErrWorkflowConfig)

	// Removing the top level keeps the chain contiguous
	require.NoError(t, svc.Delete(ctx, third.ID))
	require.NoError(t, svc.Delete(ctx, second.ID))
}

func TestWorkflowConfigService_DeleteLastLevelAllowed(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	only, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)

	// Deleting the sole level decommissions the process entirely
	require.NoError(t, svc.Delete(ctx, only.ID))

	_, err = svc.GetByID(ctx, only.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWorkflowConfigService_DeactivatedLevelSkipsValidation(t *testing.T) {
	svc, env := setupConfigService(t)
	ctx := ctxForUser(env.admin)

	first, err := svc.Create(ctx, &domain.CreateWorkflowConfigRequest{
		ProcessName: domain.ProcessPurchaseOrder,
		Level:       1,
		RoleID:      env.role1.ID,
	})
	require.NoError(t, err)

	// Deactivating is always allowed, the row leaves the active chain
	updated, err := svc.Update(ctx, first.ID, &domain.UpdateWorkflowConfigRequest{
		Level:    1,
		RoleID:   env.role1.ID,
		IsActive: false,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
