package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"go.uber.org/zap"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/workflow"
)

// ReminderJobName is the name of the pending approval reminder job
const ReminderJobName = "approval_reminder"

// ReminderJob nudges approvers about purchase orders that have been sitting
// at their level for longer than the configured threshold.
type ReminderJob struct {
	orderRepo *repository.PurchaseOrderRepository
	userRepo  *repository.UserRepository
	notifRepo *repository.NotificationRepository
	logger    *zap.Logger
	after     time.Duration
	timeout   time.Duration
}

// NewReminderJob creates a new reminder job. Orders pending for longer than
// after are considered overdue.
func NewReminderJob(
	orderRepo *repository.PurchaseOrderRepository,
	userRepo *repository.UserRepository,
	notifRepo *repository.NotificationRepository,
	logger *zap.Logger,
	after time.Duration,
	timeout time.Duration,
) *ReminderJob {
	return &ReminderJob{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		logger:    logger,
		after:     after,
		timeout:   timeout,
	}
}

// Run executes the reminder job. It is called by the scheduler according to
// the configured cron expression.
func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	cutoff := start.Add(-j.after)

	orders, err := j.orderRepo.ListPendingSince(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to list overdue purchase orders", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		return
	}

	// Recipients per role are looked up once and reused across orders
	recipientsByRole := make(map[string][]uuid.UUID)

	var sent, failed int
	for i := range orders {
		order := &orders[i]
		if order.NextLevelRoleID == nil {
			continue
		}

		roleKey := order.NextLevelRoleID.String()
		recipients, ok := recipientsByRole[roleKey]
		if !ok {
			recipients, err = j.userRepo.ActiveUserIDsByRole(ctx, *order.NextLevelRoleID)
			if err != nil {
				j.logger.Warn("failed to resolve reminder recipients",
					zap.String("role_id", roleKey),
					zap.Error(err))
				failed++
				continue
			}
			recipientsByRole[roleKey] = recipients
		}
		if len(recipients) == 0 {
			continue
		}

		notifications := j.buildReminders(order, recipients, start)
		if err := j.notifRepo.CreateBatch(ctx, notifications); err != nil {
			j.logger.Warn("failed to persist reminder notifications",
				zap.String("po_number", order.PONumber),
				zap.Error(err))
			failed++
			continue
		}
		sent += len(notifications)
	}

	j.logger.Info("approval reminder job finished",
		zap.Int("overdue_orders", len(orders)),
		zap.Int("reminders_sent", sent),
		zap.Int("orders_failed", failed),
		zap.Duration("duration", time.Since(start)))
}

func (j *ReminderJob) buildReminders(order *domain.PurchaseOrder, recipients []uuid.UUID, now time.Time) []domain.Notification {
	age := durafmt.Parse(now.Sub(order.UpdatedAt).Round(time.Minute)).LimitFirstN(2).String()

	supplierName := "unknown supplier"
	if order.Supplier != nil {
		supplierName = order.Supplier.Name
	}

	message := fmt.Sprintf("Purchase order %s from %s has been awaiting your approval for %s.",
		order.PONumber, supplierName, age)

	notifications := make([]domain.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, domain.Notification{
			AssignTo:  userID,
			Title:     "Approval reminder",
			Message:   message,
			Status:    domain.NotificationStatusNew,
			Priority:  domain.NotificationPriorityHigh,
			AlertType: workflow.AlertApprovalRequest,
			EntityID:  order.PONumber,
			CompanyID: order.CompanyID,
		})
	}
	return notifications
}
