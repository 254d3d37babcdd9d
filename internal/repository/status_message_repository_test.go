package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/testutil"
)

func TestStatusMessageEnsureExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	repo := repository.NewStatusMessageRepository(db)
	ctx := context.Background()

	// Missing key pair is created
	created, err := repo.EnsureExists(ctx, db, &domain.StatusMessage{
		Category:    domain.ProcessPurchaseOrder,
		SubCategory: "level_3_pending",
		Message:     "Level 3 Approval Pending",
		IsActive:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// A second call returns the persisted row instead of inserting again
	again, err := repo.EnsureExists(ctx, db, &domain.StatusMessage{
		Category:    domain.ProcessPurchaseOrder,
		SubCategory: "level_3_pending",
		Message:     "Level 3 Approval Pending",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&domain.StatusMessage{}).
		Where("category = ? AND sub_category = ?", domain.ProcessPurchaseOrder, "level_3_pending").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
