package jobs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/workflow"
)

func TestBuildReminders(t *testing.T) {
	j := NewReminderJob(nil, nil, nil, zap.NewNop(), 24*time.Hour, time.Minute)

	now := time.Now().UTC()
	order := &domain.PurchaseOrder{
		PONumber: "PO-2026-0300",
		Supplier: &domain.Supplier{Name: "Nordic Supplies"},
	}
	order.ID = uuid.New()
	order.UpdatedAt = now.Add(-26 * time.Hour)
	recipients := []uuid.UUID{uuid.New(), uuid.New()}

	notifications := j.buildReminders(order, recipients, now)
	require.Len(t, notifications, 2)

	for i, n := range notifications {
		assert.Equal(t, recipients[i], n.AssignTo)
		// reminders reference the order by its PO number, like every
		// other notification in the system
		assert.Equal(t, "PO-2026-0300", n.EntityID)
		assert.Equal(t, workflow.AlertApprovalRequest, n.AlertType)
		assert.Equal(t, domain.NotificationPriorityHigh, n.Priority)
		assert.Contains(t, n.Message, "PO-2026-0300")
		assert.Contains(t, n.Message, "Nordic Supplies")
		assert.Contains(t, n.Message, "1 day")
	}
}

func TestBuildRemindersUnknownSupplier(t *testing.T) {
	j := NewReminderJob(nil, nil, nil, zap.NewNop(), 24*time.Hour, time.Minute)

	order := &domain.PurchaseOrder{PONumber: "PO-2026-0301"}
	order.ID = uuid.New()
	order.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)

	notifications := j.buildReminders(order, []uuid.UUID{uuid.New()}, time.Now().UTC())
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "unknown supplier")
}
