package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/erp"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// ERPSyncJobName is the name of the ERP price sync job
const ERPSyncJobName = "erp_price_sync"

// ERPSyncJob pulls catalog prices from the ERP system and writes them onto
// the local item master. Items without a matching ERP reference are skipped.
type ERPSyncJob struct {
	client   *erp.Client
	itemRepo *repository.ItemRepository
	logger   *zap.Logger
	timeout  time.Duration

	mu       sync.Mutex
	lastSync time.Time
}

// NewERPSyncJob creates a new ERP price sync job.
func NewERPSyncJob(client *erp.Client, itemRepo *repository.ItemRepository, logger *zap.Logger, timeout time.Duration) *ERPSyncJob {
	return &ERPSyncJob{
		client:   client,
		itemRepo: itemRepo,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the price sync. The first run pulls the full catalog, later
// runs only fetch prices updated since the previous successful sync.
func (j *ERPSyncJob) Run() {
	if !j.client.IsEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	j.mu.Lock()
	since := j.lastSync
	j.mu.Unlock()

	start := time.Now()

	prices, err := j.client.FetchItemPrices(ctx, since)
	if err != nil {
		j.logger.Error("ERP price sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	var synced, missing, failed int
	for _, price := range prices {
		item, err := j.itemRepo.GetByERPReference(ctx, price.Reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				missing++
				continue
			}
			j.logger.Warn("failed to look up item for ERP reference",
				zap.String("reference", price.Reference),
				zap.Error(err))
			failed++
			continue
		}

		if err := j.itemRepo.UpdatePricesFromERP(ctx, item.ID, price.UnitCost, price.UnitPrice, start); err != nil {
			j.logger.Warn("failed to update item prices",
				zap.String("reference", price.Reference),
				zap.Error(err))
			failed++
			continue
		}
		synced++
	}

	if failed == 0 {
		j.mu.Lock()
		j.lastSync = start
		j.mu.Unlock()
	}

	j.logger.Info("ERP price sync finished",
		zap.Int("synced", synced),
		zap.Int("missing_references", missing),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
}
