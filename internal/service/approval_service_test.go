package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
	"github.com/zephyrixtech/test-inventory-sub001/internal/testutil"
)

type approvalFixture struct {
	db            *gorm.DB
	orders        *service.PurchaseOrderService
	approvals     *service.ApprovalService
	orderRepo     *repository.PurchaseOrderRepository
	storeManager  *domain.Role
	financeMgr    *domain.Role
	superAdmin    *domain.Role
	creator       *domain.User
	level1User    *domain.User
	level2User    *domain.User
	superAdminUsr *domain.User
	supplier      *domain.Supplier
	store         *domain.Store
	item          *domain.Item
}

func setupApprovalFixture(t *testing.T, level1Override bool) *approvalFixture {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	log := zap.NewNop()
	orderRepo := repository.NewPurchaseOrderRepository(db)
	ledgerRepo := repository.NewApprovalLedgerRepository(db)
	configRepo := repository.NewWorkflowConfigRepository(db)
	statusRepo := repository.NewStatusMessageRepository(db)
	stockLotRepo := repository.NewStockLotRepository(db)
	itemRepo := repository.NewItemRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	systemLogRepo := repository.NewSystemLogRepository(db)

	f := &approvalFixture{
		db:        db,
		orderRepo: orderRepo,
		orders: service.NewPurchaseOrderService(
			orderRepo, supplierRepo, storeRepo, itemRepo,
			stockLotRepo, statusRepo, systemLogRepo, log, db,
		),
		approvals: service.NewApprovalService(
			orderRepo, ledgerRepo, configRepo, statusRepo,
			userRepo, notifRepo, systemLogRepo, nil, log, db,
		),
	}

	f.storeManager = testutil.CreateTestRole(t, db, "Store Manager")
	f.financeMgr = testutil.CreateTestRole(t, db, "Finance Manager")
	f.superAdmin = testutil.CreateTestRole(t, db, domain.RoleNameSuperAdmin)

	f.creator = testutil.CreateTestUser(t, db, "creator")
	f.level1User = testutil.CreateTestUser(t, db, "level1", f.storeManager)
	f.level2User = testutil.CreateTestUser(t, db, "level2", f.financeMgr)
	f.superAdminUsr = testutil.CreateTestUser(t, db, "superadmin", f.superAdmin)

	testutil.CreateWorkflowLevel(t, db, 1, f.storeManager, level1Override)
	testutil.CreateWorkflowLevel(t, db, 2, f.financeMgr, false)

	f.supplier = testutil.CreateTestSupplier(t, db, "Nordic Supplies")
	f.store = testutil.CreateTestStore(t, db, "Main Store")
	f.item = testutil.CreateTestItem(t, db, "Widget", 25.50)

	return f
}

func ctxForUser(user *domain.User, roles ...*domain.Role) context.Context {
	uc := &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}
	for _, role := range roles {
		uc.RoleIDs = append(uc.RoleIDs, role.ID)
		uc.RoleNames = append(uc.RoleNames, role.Name)
	}
	return auth.WithUserContext(context.Background(), uc)
}

func (f *approvalFixture) createDraftOrder(t *testing.T) *domain.PurchaseOrderDTO {
	t.Helper()
	dto, err := f.orders.Create(ctxForUser(f.creator), &domain.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		StoreID:    f.store.ID,
		Items: []domain.CreatePurchaseOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 10, UnitCost: 25.50},
		},
	})
	require.NoError(t, err)
	return dto
}

func (f *approvalFixture) ledgerFor(t *testing.T, orderID uuid.UUID) []domain.ApprovalLedgerEntry {
	t.Helper()
	var entries []domain.ApprovalLedgerEntry
	require.NoError(t, f.db.Where("purchase_order_id = ?", orderID).Order("sequence_no ASC").Find(&entries).Error)
	return entries
}

func TestApprovalService_SubmitCreatesLevelOnePending(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	dto, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	assert.NotNil(t, dto.WorkflowID)
	require.NotNil(t, dto.NextLevelRoleID)
	assert.Equal(t, f.storeManager.ID, *dto.NextLevelRoleID)

	entries := f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.TrailPending, entries[0].Trail)
	assert.Equal(t, "Level 1 Approval Pending", entries[0].Status)
	assert.Equal(t, 0, entries[0].SequenceNo)
	assert.False(t, entries[0].IsFinalized)

	// Level 1 approvers are notified, the submitting creator is not
	var notifications []domain.Notification
	require.NoError(t, f.db.Where("assign_to = ?", f.level1User.ID).Find(&notifications).Error)
	assert.NotEmpty(t, notifications)
}

func TestApprovalService_SubmitByNonCreatorDenied(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.level1User, f.storeManager), draft.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestApprovalService_ApproveAdvancesThenCompletes(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	// Level 1 approval advances to level 2
	dto, err := f.approvals.Approve(ctxForUser(f.level1User, f.storeManager), draft.ID, &domain.ApproveOrderRequest{Comment: "looks fine"})
	require.NoError(t, err)
	require.NotNil(t, dto.NextLevelRoleID)
	assert.Equal(t, f.financeMgr.ID, *dto.NextLevelRoleID)

	entries := f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.TrailApproved, entries[1].Trail)
	require.NotNil(t, entries[1].ApprovedBy)
	assert.Equal(t, f.level1User.ID, *entries[1].ApprovedBy)
	assert.Equal(t, "looks fine", entries[1].Comment)
	assert.Equal(t, domain.TrailPending, entries[2].Trail)
	assert.Equal(t, "Level 2 Approval Pending", entries[2].Status)

	// Level 2 approval completes the workflow
	dto, err = f.approvals.Approve(ctxForUser(f.level2User, f.financeMgr), draft.ID, &domain.ApproveOrderRequest{})
	require.NoError(t, err)
	assert.Nil(t, dto.WorkflowID)
	assert.Nil(t, dto.NextLevelRoleID)

	entries = f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 4)
	final := entries[3]
	assert.True(t, final.IsFinalized)
	assert.Equal(t, domain.TrailApproved, final.Trail)
	require.NotNil(t, final.ApprovedBy)
	assert.Equal(t, f.level2User.ID, *final.ApprovedBy)

	// Every workflow write bumps the version
	order, err := f.orderRepo.GetByID(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, order.Version)

	// Completion notifies the creator
	var notifications []domain.Notification
	require.NoError(t, f.db.Where("assign_to = ?", f.creator.ID).Find(&notifications).Error)
	assert.NotEmpty(t, notifications)
}

func TestApprovalService_ApproveWithoutRoleDenied(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	// A level 2 approver cannot act at level 1
	_, err = f.approvals.Approve(ctxForUser(f.level2User, f.financeMgr), draft.ID, &domain.ApproveOrderRequest{})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestApprovalService_SuperAdminOverrideCompletesAllLevels(t *testing.T) {
	f := setupApprovalFixture(t, true)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	dto, err := f.approvals.Approve(ctxForUser(f.superAdminUsr, f.superAdmin), draft.ID, &domain.ApproveOrderRequest{})
	require.NoError(t, err)
	assert.Nil(t, dto.WorkflowID)
	assert.Nil(t, dto.NextLevelRoleID)

	// Submit pending + level 1 approved + level 2 pending/approved pair
	entries := f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 4)
	assert.True(t, entries[3].IsFinalized)
	for _, e := range entries[:3] {
		assert.False(t, e.IsFinalized)
	}
}

func TestApprovalService_SuperAdminWithoutOverrideDenied(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	// No override flag on level 1 and the super admin does not hold the
	// level's role, so they cannot approve
	_, err = f.approvals.Approve(ctxForUser(f.superAdminUsr, f.superAdmin), draft.ID, &domain.ApproveOrderRequest{})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestApprovalService_RejectAtLevelOneReturnsToCreator(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	dto, err := f.approvals.Reject(ctxForUser(f.level1User, f.storeManager), draft.ID, &domain.RejectOrderRequest{Comment: "wrong supplier"})
	require.NoError(t, err)
	assert.Nil(t, dto.WorkflowID)
	assert.Nil(t, dto.NextLevelRoleID)

	entries := f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 2)
	rejected := entries[1]
	assert.Equal(t, domain.TrailRejected, rejected.Trail)
	assert.Equal(t, "Created - Rejected", rejected.Status)
	require.NotNil(t, rejected.RejectedBy)
	assert.Equal(t, f.level1User.ID, *rejected.RejectedBy)
	assert.Equal(t, "wrong supplier", rejected.Comment)

	// The creator is told why
	var notifications []domain.Notification
	require.NoError(t, f.db.Where("assign_to = ?", f.creator.ID).Find(&notifications).Error)
	assert.NotEmpty(t, notifications)
}

func TestApprovalService_RejectRequiresComment(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	_, err = f.approvals.Reject(ctxForUser(f.level1User, f.storeManager), draft.ID, &domain.RejectOrderRequest{})
	assert.ErrorIs(t, err, service.ErrCommentRequired)
}

func TestApprovalService_RejectAtLevelTwoReturnsToPriorApprover(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)
	_, err = f.approvals.Approve(ctxForUser(f.level1User, f.storeManager), draft.ID, &domain.ApproveOrderRequest{})
	require.NoError(t, err)

	dto, err := f.approvals.Reject(ctxForUser(f.level2User, f.financeMgr), draft.ID, &domain.RejectOrderRequest{Comment: "amount too high"})
	require.NoError(t, err)

	// Back at level 1
	require.NotNil(t, dto.NextLevelRoleID)
	assert.Equal(t, f.storeManager.ID, *dto.NextLevelRoleID)

	entries := f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 4)
	rejected := entries[3]
	assert.Equal(t, domain.TrailRejected, rejected.Trail)
	assert.Equal(t, "Level 2 Rejected", rejected.Status)
	require.NotNil(t, rejected.RejectedTo)
	assert.Equal(t, f.level1User.ID, *rejected.RejectedTo)
}

func TestApprovalService_ResubmitAfterRejection(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)
	_, err = f.approvals.Reject(ctxForUser(f.level1User, f.storeManager), draft.ID, &domain.RejectOrderRequest{Comment: "redo"})
	require.NoError(t, err)

	// Submission restarts the workflow; the old ledger stays intact and
	// sequence numbers keep increasing
	dto, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.NextLevelRoleID)
	assert.Equal(t, f.storeManager.ID, *dto.NextLevelRoleID)

	entries := f.ledgerFor(t, draft.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, 2, entries[2].SequenceNo)
	assert.Equal(t, domain.TrailPending, entries[2].Trail)
}

func TestApprovalService_LevelGapFailsFast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	log := zap.NewNop()
	orderRepo := repository.NewPurchaseOrderRepository(db)
	approvals := service.NewApprovalService(
		orderRepo,
		repository.NewApprovalLedgerRepository(db),
		repository.NewWorkflowConfigRepository(db),
		repository.NewStatusMessageRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewSystemLogRepository(db),
		nil, log, db,
	)

	roleA := testutil.CreateTestRole(t, db, "Role A")
	roleB := testutil.CreateTestRole(t, db, "Role B")
	testutil.CreateWorkflowLevel(t, db, 1, roleA, false)
	testutil.CreateWorkflowLevel(t, db, 3, roleB, false)

	_, err := approvals.Levels(context.Background())
	assert.ErrorIs(t, err, service.ErrWorkflowConfig)
}
