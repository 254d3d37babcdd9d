package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/service"
	"github.com/zephyrixtech/test-inventory-sub001/internal/testutil"
)

type invoiceFixture struct {
	db       *gorm.DB
	invoices *service.InvoiceService
	seller   *domain.User
	store    *domain.Store
	item     *domain.Item
}

func setupInvoiceFixture(t *testing.T) *invoiceFixture {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})

	f := &invoiceFixture{
		db: db,
		invoices: service.NewInvoiceService(
			repository.NewInvoiceRepository(db),
			repository.NewStockLotRepository(db),
			repository.NewItemRepository(db),
			repository.NewStoreRepository(db),
			repository.NewSystemLogRepository(db),
			zap.NewNop(), db,
		),
	}
	f.seller = testutil.CreateTestUser(t, db, "seller")
	f.store = testutil.CreateTestStore(t, db, "Main Store")
	f.item = testutil.CreateTestItem(t, db, "Widget", 10)
	return f
}

func (f *invoiceFixture) lotQuantities(t *testing.T) []float64 {
	t.Helper()
	var lots []domain.StockLot
	require.NoError(t, f.db.
		Where("item_id = ? AND store_id = ?", f.item.ID, f.store.ID).
		Order("created_at ASC").
		Find(&lots).Error)
	quantities := make([]float64, len(lots))
	for i, lot := range lots {
		quantities[i] = lot.Quantity
	}
	return quantities
}

func TestInvoiceService_CreateDeductsOldestLotsFirst(t *testing.T) {
	f := setupInvoiceFixture(t)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 5, 5)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 8, 8)

	dto, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: f.store.ID,
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 7, UnitPrice: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusIssued, dto.Status)
	assert.Equal(t, 140.0, dto.TotalAmount)

	// 7 consumed: the oldest lot is drained, the newer loses 2
	assert.Equal(t, []float64{0, 6}, f.lotQuantities(t))
}

func TestInvoiceService_CreateRejectsInsufficientStock(t *testing.T) {
	f := setupInvoiceFixture(t)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 3, 3)

	_, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: f.store.ID,
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 5, UnitPrice: 20},
		},
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	// Nothing was deducted
	assert.Equal(t, []float64{3}, f.lotQuantities(t))
}

func TestInvoiceService_UpdateNetsOutUnchangedLines(t *testing.T) {
	f := setupInvoiceFixture(t)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 10, 10)

	dto, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: f.store.ID,
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 4, UnitPrice: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, f.lotQuantities(t))

	// Bump the quantity from 4 to 6, stock should only drop by the delta
	updated, err := f.invoices.Update(ctxForUser(f.seller), dto.ID, &domain.UpdateInvoiceRequest{
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 6, UnitPrice: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.TotalAmount)
	assert.Equal(t, []float64{4}, f.lotQuantities(t))
}

func TestInvoiceService_CancelRestoresStock(t *testing.T) {
	f := setupInvoiceFixture(t)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 9, 9)

	dto, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: f.store.ID,
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 6, UnitPrice: 15},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, f.lotQuantities(t))

	cancelled, err := f.invoices.Cancel(ctxForUser(f.seller), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, cancelled.Status)
	assert.Equal(t, []float64{9}, f.lotQuantities(t))
}

func TestInvoiceService_RestoreRespectsLotCapacity(t *testing.T) {
	f := setupInvoiceFixture(t)
	// Two lots, the older one nearly full
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 4, 5)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 5, 10)

	dto, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: f.store.ID,
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 6, UnitPrice: 15},
		},
	})
	require.NoError(t, err)
	// FIFO: 4 from the old lot, 2 from the new
	assert.Equal(t, []float64{0, 3}, f.lotQuantities(t))

	_, err = f.invoices.Cancel(ctxForUser(f.seller), dto.ID)
	require.NoError(t, err)

	// Restore fills oldest first up to capacity, remainder spills onward
	assert.Equal(t, []float64{5, 4}, f.lotQuantities(t))
}

func TestInvoiceService_CancelIsIdempotent(t *testing.T) {
	f := setupInvoiceFixture(t)
	testutil.CreateTestStockLot(t, f.db, f.item, f.store, 5, 5)

	dto, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: f.store.ID,
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 2, UnitPrice: 15},
		},
	})
	require.NoError(t, err)

	_, err = f.invoices.Cancel(ctxForUser(f.seller), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, f.lotQuantities(t))

	// A second cancel must not restore stock again
	again, err := f.invoices.Cancel(ctxForUser(f.seller), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, again.Status)
	assert.Equal(t, []float64{5}, f.lotQuantities(t))
}

func TestInvoiceService_CreateUnknownStore(t *testing.T) {
	f := setupInvoiceFixture(t)

	_, err := f.invoices.Create(ctxForUser(f.seller), &domain.CreateInvoiceRequest{
		StoreID: uuid.New(),
		Items: []domain.CreateInvoiceItemRequest{
			{ItemID: f.item.ID, Quantity: 1, UnitPrice: 5},
		},
	})
	assert.ErrorIs(t, err, service.ErrStoreNotFound)
}
