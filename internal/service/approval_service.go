package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/auth"
	"github.com/zephyrixtech/test-inventory-sub001/internal/cache"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/mapper"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
	"github.com/zephyrixtech/test-inventory-sub001/internal/workflow"
)

// ApprovalService drives purchase orders through the multi-level approval
// workflow. Decisions are computed by the workflow package; this service loads
// the inputs, persists the outcome in one transaction, and fans out
// notifications after commit.
type ApprovalService struct {
	orderRepo     *repository.PurchaseOrderRepository
	ledgerRepo    *repository.ApprovalLedgerRepository
	configRepo    *repository.WorkflowConfigRepository
	statusRepo    *repository.StatusMessageRepository
	userRepo      *repository.UserRepository
	notifRepo     *repository.NotificationRepository
	systemLogRepo *repository.SystemLogRepository
	cache         *cache.Cache
	logger        *zap.Logger
	db            *gorm.DB
}

func NewApprovalService(
	orderRepo *repository.PurchaseOrderRepository,
	ledgerRepo *repository.ApprovalLedgerRepository,
	configRepo *repository.WorkflowConfigRepository,
	statusRepo *repository.StatusMessageRepository,
	userRepo *repository.UserRepository,
	notifRepo *repository.NotificationRepository,
	systemLogRepo *repository.SystemLogRepository,
	cacheClient *cache.Cache,
	logger *zap.Logger,
	db *gorm.DB,
) *ApprovalService {
	return &ApprovalService{
		orderRepo:     orderRepo,
		ledgerRepo:    ledgerRepo,
		configRepo:    configRepo,
		statusRepo:    statusRepo,
		userRepo:      userRepo,
		notifRepo:     notifRepo,
		systemLogRepo: systemLogRepo,
		cache:         cacheClient,
		logger:        logger,
		db:            db,
	}
}

// Levels loads and validates the active approval chain for purchase orders.
// The validated chain is cached; any configuration change invalidates it.
func (s *ApprovalService) Levels(ctx context.Context) ([]workflow.Level, error) {
	key := cache.WorkflowConfigKey(domain.ProcessPurchaseOrder)
	if s.cache.Enabled() {
		var cached []workflow.Level
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	configs, err := s.configRepo.ListActiveByProcess(ctx, domain.ProcessPurchaseOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow configuration: %w", err)
	}
	levels, err := workflow.LevelsFromConfigs(configs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkflowConfig, err)
	}

	if s.cache.Enabled() {
		s.cache.Set(ctx, key, levels)
	}
	return levels, nil
}

// Submit activates the approval workflow for an order
func (s *ApprovalService) Submit(ctx context.Context, orderID uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	if order.CreatedBy != uc.UserID && !uc.IsSuperAdmin() {
		return nil, ErrPermissionDenied
	}

	levels, err := s.Levels(ctx)
	if err != nil {
		return nil, err
	}

	snap := snapshotOf(order)
	outcome, err := workflow.Submit(snap, levels)
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	if err := s.persistOutcome(ctx, order, outcome, uc, domain.LogActionSubmit,
		fmt.Sprintf("Submitted purchase order %s for approval", order.PONumber)); err != nil {
		return nil, err
	}

	s.notifySubmit(ctx, order, uc, levels)
	return s.reload(ctx, orderID)
}

// Approve applies an approval at the order's current level. Super Admins with
// override enabled on that level complete all remaining levels in one action.
func (s *ApprovalService) Approve(ctx context.Context, orderID uuid.UUID, req *domain.ApproveOrderRequest) (*domain.PurchaseOrderDTO, error) {
	return s.decide(ctx, orderID, workflow.ActionApprove, req.Comment)
}

// Reject rejects at the order's current level, returning it one level down or
// back to its creator. A comment is mandatory.
func (s *ApprovalService) Reject(ctx context.Context, orderID uuid.UUID, req *domain.RejectOrderRequest) (*domain.PurchaseOrderDTO, error) {
	return s.decide(ctx, orderID, workflow.ActionReject, req.Comment)
}

func (s *ApprovalService) decide(ctx context.Context, orderID uuid.UUID, kind workflow.ActionKind, comment string) (*domain.PurchaseOrderDTO, error) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}

	levels, err := s.Levels(ctx)
	if err != nil {
		return nil, err
	}

	action := workflow.Action{Kind: kind, Actor: uc.Actor(), Comment: comment}
	snap := snapshotOf(order)
	outcome, err := workflow.Decide(snap, levels, action)
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	logAction := domain.LogActionApprove
	description := fmt.Sprintf("Approved purchase order %s at level %d", order.PONumber, outcome.FromLevel)
	if kind == workflow.ActionReject {
		logAction = domain.LogActionReject
		description = fmt.Sprintf("Rejected purchase order %s at level %d", order.PONumber, outcome.FromLevel)
	}
	if outcome.Override {
		description = fmt.Sprintf("Approved purchase order %s at level %d via override", order.PONumber, outcome.FromLevel)
	}

	if err := s.persistOutcome(ctx, order, outcome, uc, logAction, description); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, order, outcome, action, uc, levels, snap.Ledger)
	return s.reload(ctx, orderID)
}

// persistOutcome writes the ledger batch, the order's workflow state and the
// audit entry in one transaction, guarded by the order's version.
func (s *ApprovalService) persistOutcome(ctx context.Context, order *domain.PurchaseOrder, outcome *workflow.Outcome, uc *auth.UserContext, logAction domain.SystemLogAction, description string) error {
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		status, err := s.statusRepo.EnsureExists(ctx, tx, &domain.StatusMessage{
			Category:    domain.ProcessPurchaseOrder,
			SubCategory: outcome.StatusKey,
			Message:     statusMessageText(outcome),
			IsActive:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to resolve order status: %w", err)
		}

		entries := make([]domain.ApprovalLedgerEntry, len(outcome.Entries))
		for i, e := range outcome.Entries {
			entries[i] = domain.ApprovalLedgerEntry{
				PurchaseOrderID: order.ID,
				Status:          e.Status,
				Trail:           e.Trail,
				RoleID:          e.RoleID,
				SequenceNo:      e.SequenceNo,
				IsFinalized:     e.IsFinalized,
				ApprovedBy:      e.ApprovedBy,
				RejectedBy:      e.RejectedBy,
				RejectedTo:      e.RejectedTo,
				Comment:         e.Comment,
				Date:            now,
			}
		}
		if err := s.ledgerRepo.CreateBatch(ctx, tx, entries); err != nil {
			return fmt.Errorf("failed to write approval ledger: %w", err)
		}

		fields := map[string]interface{}{
			"workflow_id":        outcome.WorkflowID,
			"next_level_role_id": outcome.NextRoleID,
			"order_status_id":    status.ID,
		}
		if err := s.orderRepo.UpdateWorkflowState(ctx, tx, order.ID, order.Version, fields); err != nil {
			return err
		}

		entry := &domain.SystemLog{
			UserID:      &uc.UserID,
			UserName:    uc.DisplayName,
			Action:      logAction,
			EntityType:  "purchase_order",
			EntityID:    &order.ID,
			EntityName:  order.PONumber,
			Description: description,
			CompanyID:   order.CompanyID,
			PerformedAt: now,
		}
		return s.systemLogRepo.CreateInTx(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// notifyDecision computes and persists the fan-out for an approve/reject.
// Notification failures never fail the decision; they are logged instead.
func (s *ApprovalService) notifyDecision(ctx context.Context, order *domain.PurchaseOrder, outcome *workflow.Outcome, action workflow.Action, uc *auth.UserContext, levels []workflow.Level, ledger []workflow.Entry) {
	roleMembers, superAdmins := s.loadRecipients(ctx, levels)

	payloads, warnings := workflow.ComputeNotifications(workflow.FanoutInput{
		Order:       workflow.OrderRef{PONumber: order.PONumber, CreatedBy: order.CreatedBy},
		Outcome:     outcome,
		Action:      action,
		ActorName:   uc.DisplayName,
		Levels:      levels,
		Ledger:      ledger,
		RoleMembers: roleMembers,
		SuperAdmins: superAdmins,
	})
	for _, w := range warnings {
		s.logger.Warn("notification fan-out warning",
			zap.String("poNumber", order.PONumber),
			zap.String("warning", w))
	}
	s.persistPayloads(ctx, order, payloads)
}

// notifySubmit informs the level 1 approvers that a new order awaits them
func (s *ApprovalService) notifySubmit(ctx context.Context, order *domain.PurchaseOrder, uc *auth.UserContext, levels []workflow.Level) {
	roleMembers, _ := s.loadRecipients(ctx, levels[:1])

	var payloads []workflow.Payload
	for _, userID := range roleMembers[levels[0].RoleID] {
		if userID == uc.UserID {
			continue
		}
		payloads = append(payloads, workflow.Payload{
			AssignTo:  userID,
			Title:     "Approval Requested",
			Message:   fmt.Sprintf("Purchase order %s requires your approval at level 1.", order.PONumber),
			Priority:  domain.NotificationPriorityHigh,
			AlertType: workflow.AlertApprovalRequest,
			EntityID:  order.PONumber,
		})
	}
	s.persistPayloads(ctx, order, payloads)
}

func (s *ApprovalService) loadRecipients(ctx context.Context, levels []workflow.Level) (map[uuid.UUID][]uuid.UUID, []uuid.UUID) {
	roleMembers := make(map[uuid.UUID][]uuid.UUID, len(levels))
	for _, l := range levels {
		members, err := s.userRepo.ActiveUserIDsByRole(ctx, l.RoleID)
		if err != nil {
			s.logger.Warn("failed to load role members for fan-out",
				zap.String("roleId", l.RoleID.String()), zap.Error(err))
			continue
		}
		roleMembers[l.RoleID] = members
	}

	superAdmins, err := s.userRepo.SuperAdminIDs(ctx)
	if err != nil {
		s.logger.Warn("failed to load super admins for fan-out", zap.Error(err))
	}
	return roleMembers, superAdmins
}

func (s *ApprovalService) persistPayloads(ctx context.Context, order *domain.PurchaseOrder, payloads []workflow.Payload) {
	if len(payloads) == 0 {
		return
	}
	notifications := make([]domain.Notification, len(payloads))
	for i, p := range payloads {
		notifications[i] = domain.Notification{
			AssignTo:  p.AssignTo,
			Title:     p.Title,
			Message:   p.Message,
			Status:    domain.NotificationStatusNew,
			Priority:  p.Priority,
			AlertType: p.AlertType,
			EntityID:  p.EntityID,
			CompanyID: order.CompanyID,
		}
	}
	if err := s.notifRepo.CreateBatch(ctx, notifications); err != nil {
		s.logger.Error("failed to persist notifications",
			zap.String("poNumber", order.PONumber),
			zap.Int("count", len(notifications)),
			zap.Error(err))
	}
}

func (s *ApprovalService) reload(ctx context.Context, orderID uuid.UUID) (*domain.PurchaseOrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload purchase order: %w", err)
	}
	return mapper.ToPurchaseOrderDTO(order), nil
}

// snapshotOf converts an order's persisted ledger into the workflow's view
func snapshotOf(order *domain.PurchaseOrder) workflow.Snapshot {
	ledger := make([]workflow.Entry, len(order.Approvals))
	for i, a := range order.Approvals {
		ledger[i] = workflow.Entry{
			Status:      a.Status,
			Trail:       a.Trail,
			RoleID:      a.RoleID,
			SequenceNo:  a.SequenceNo,
			IsFinalized: a.IsFinalized,
			ApprovedBy:  a.ApprovedBy,
			RejectedBy:  a.RejectedBy,
			RejectedTo:  a.RejectedTo,
			Comment:     a.Comment,
		}
	}
	return workflow.Snapshot{WorkflowID: order.WorkflowID, Ledger: ledger}
}

// statusMessageText derives a display message for a status key, used when the
// status row has not been seeded yet
func statusMessageText(outcome *workflow.Outcome) string {
	switch outcome.StatusKey {
	case domain.StatusKeyCreated:
		return "Created"
	case domain.StatusKeyCompleted:
		return "Completed"
	}
	for i := len(outcome.Entries) - 1; i >= 0; i-- {
		if outcome.Entries[i].Trail == domain.TrailPending {
			return outcome.Entries[i].Status
		}
	}
	return outcome.StatusKey
}

func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrMissingComment):
		return ErrCommentRequired
	case errors.Is(err, workflow.ErrPermissionDenied):
		return ErrPermissionDenied
	case errors.Is(err, workflow.ErrNotActive):
		return fmt.Errorf("%w: order has no active approval level", ErrInvalidInput)
	case errors.Is(err, workflow.ErrConfiguration):
		return fmt.Errorf("%w: %v", ErrWorkflowConfig, err)
	default:
		return err
	}
}
