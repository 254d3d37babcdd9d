package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
)

// approveFully walks a draft order through both workflow levels
func (f *approvalFixture) approveFully(t *testing.T, orderID uuid.UUID) *domain.PurchaseOrderDTO {
	t.Helper()
	dto, err := f.approvals.Submit(ctxForUser(f.creator), orderID)
	require.NoError(t, err)
	dto, err = f.approvals.Approve(ctxForUser(f.level1User, f.storeManager), dto.ID, &domain.ApproveOrderRequest{})
	require.NoError(t, err)
	dto, err = f.approvals.Approve(ctxForUser(f.level2User, f.financeMgr), dto.ID, &domain.ApproveOrderRequest{})
	require.NoError(t, err)
	return dto
}

func TestPurchaseOrderService_ReceiveCreatesStockLots(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)
	f.approveFully(t, draft.ID)

	received, err := f.orders.Receive(ctxForUser(f.creator), draft.ID, &domain.ReceiveOrderRequest{
		Remarks: "all pallets intact",
	})
	require.NoError(t, err)
	require.NotNil(t, received.ReceivedAt)

	var lots []domain.StockLot
	require.NoError(t, f.db.Where("purchase_order_id = ?", draft.ID).Find(&lots).Error)
	require.Len(t, lots, 1)
	assert.Equal(t, f.item.ID, lots[0].ItemID)
	assert.Equal(t, f.store.ID, lots[0].StoreID)
	assert.Equal(t, 10.0, lots[0].Quantity)
	assert.Equal(t, 10.0, lots[0].Capacity)
	assert.Equal(t, 25.50, lots[0].UnitCost)
}

func TestPurchaseOrderService_ReceiveBeforeApprovalRejected(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	_, err := f.orders.Receive(ctxForUser(f.creator), draft.ID, &domain.ReceiveOrderRequest{})
	assert.ErrorIs(t, err, service.ErrOrderNotApproved)
}

func TestPurchaseOrderService_ReceiveTwiceRejected(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)
	f.approveFully(t, draft.ID)

	_, err := f.orders.Receive(ctxForUser(f.creator), draft.ID, &domain.ReceiveOrderRequest{})
	require.NoError(t, err)

	_, err = f.orders.Receive(ctxForUser(f.creator), draft.ID, &domain.ReceiveOrderRequest{})
	assert.ErrorIs(t, err, service.ErrOrderAlreadyReceived)
}

func TestPurchaseOrderService_UpdateBlockedWhileWorkflowActive(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)
	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	_, err = f.orders.Update(ctxForUser(f.creator), draft.ID, &domain.UpdatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		StoreID:    f.store.ID,
		Items: []domain.CreatePurchaseOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 5, UnitCost: 25.50},
		},
	})
	assert.ErrorIs(t, err, service.ErrOrderNotEditable)
}

func TestPurchaseOrderService_UpdateDraftRecalculatesTotal(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	updated, err := f.orders.Update(ctxForUser(f.creator), draft.ID, &domain.UpdatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		StoreID:    f.store.ID,
		Notes:      "restock for autumn",
		Items: []domain.CreatePurchaseOrderItemRequest{
			{ItemID: f.item.ID, Quantity: 4, UnitCost: 30},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.TotalAmount)
	assert.Equal(t, "restock for autumn", updated.Notes)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 4.0, updated.Items[0].Quantity)
}

func TestPurchaseOrderService_DeleteBlockedAfterSubmit(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)
	_, err := f.approvals.Submit(ctxForUser(f.creator), draft.ID)
	require.NoError(t, err)

	err = f.orders.Delete(ctxForUser(f.creator), draft.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotEditable)
}

func TestPurchaseOrderService_DeleteByOtherUserDenied(t *testing.T) {
	f := setupApprovalFixture(t, false)
	draft := f.createDraftOrder(t)

	err := f.orders.Delete(ctxForUser(f.level1User, f.storeManager), draft.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
