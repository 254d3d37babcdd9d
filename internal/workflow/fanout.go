package workflow

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

// Alert types carried on computed notifications
const (
	AlertApprovalConfirmation  = "po_approval_confirmation"
	AlertApprovalInfo          = "po_approval_info"
	AlertApprovalRequest       = "po_approval_request"
	AlertApprovalProgress      = "po_approval_progress"
	AlertApprovalCompleted     = "po_approval_completed"
	AlertOverrideCompleted     = "po_override_completed"
	AlertRejection             = "po_rejected"
	AlertRejectionConfirmation = "po_rejection_confirmation"
)

// Payload is one computed notification, not yet persisted
type Payload struct {
	AssignTo  uuid.UUID
	Title     string
	Message   string
	Priority  domain.NotificationPriority
	AlertType string
	EntityID  string
}

// OrderRef carries the order fields fan-out needs
type OrderRef struct {
	PONumber  string
	CreatedBy uuid.UUID
}

// FanoutInput gathers everything ComputeNotifications reads. RoleMembers maps
// a role id to the active users holding it; SuperAdmins lists active Super
// Admin user ids.
type FanoutInput struct {
	Order       OrderRef
	Outcome     *Outcome
	Action      Action
	ActorName   string
	Levels      []Level
	Ledger      []Entry
	RoleMembers map[uuid.UUID][]uuid.UUID
	SuperAdmins []uuid.UUID
}

// ComputeNotifications derives the notification set for a decided action.
// It is deterministic for a given input and never fails; recipients that
// cannot be resolved are skipped and reported as warnings.
func ComputeNotifications(in FanoutInput) ([]Payload, []string) {
	b := &fanoutBuilder{
		order: in.Order,
		actor: in.Action.Actor.UserID,
		seen:  make(map[string]bool),
	}

	switch in.Action.Kind {
	case ActionApprove:
		b.approve(in)
	case ActionReject:
		b.reject(in)
	}
	return b.payloads, b.warnings
}

type fanoutBuilder struct {
	order    OrderRef
	actor    uuid.UUID
	payloads []Payload
	warnings []string
	seen     map[string]bool
}

// add appends a payload unless the recipient is unresolved or the same
// (recipient, alertType) pair was already queued in this action.
func (b *fanoutBuilder) add(to uuid.UUID, title, message string, priority domain.NotificationPriority, alertType string) {
	if to == uuid.Nil {
		return
	}
	key := to.String() + "|" + alertType
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.payloads = append(b.payloads, Payload{
		AssignTo:  to,
		Title:     title,
		Message:   message,
		Priority:  priority,
		AlertType: alertType,
		EntityID:  b.order.PONumber,
	})
}

func (b *fanoutBuilder) addAll(users []uuid.UUID, title, message string, priority domain.NotificationPriority, alertType string) {
	for _, u := range users {
		if u == b.actor {
			continue
		}
		b.add(u, title, message, priority, alertType)
	}
}

func (b *fanoutBuilder) approve(in FanoutInput) {
	po := in.Order.PONumber
	level := in.Outcome.FromLevel

	if in.Outcome.Override {
		b.add(b.actor, "Purchase Order Approved",
			fmt.Sprintf("You approved purchase order %s, completing all remaining approval levels via override.", po),
			domain.NotificationPriorityLow, AlertApprovalConfirmation)
	} else {
		b.add(b.actor, "Purchase Order Approved",
			fmt.Sprintf("You approved purchase order %s at level %d.", po, level),
			domain.NotificationPriorityLow, AlertApprovalConfirmation)
	}

	b.addAll(in.SuperAdmins, "Purchase Order Approved",
		fmt.Sprintf("%s approved purchase order %s at level %d.", in.ActorName, po, level),
		domain.NotificationPriorityMedium, AlertApprovalInfo)

	if in.Outcome.Override {
		b.overrideFanout(in)
		return
	}

	currentHolders := in.RoleMembers[roleAtLevel(in.Levels, level)]
	b.addAll(currentHolders, "Purchase Order Approved",
		fmt.Sprintf("%s approved purchase order %s at level %d.", in.ActorName, po, level),
		domain.NotificationPriorityLow, AlertApprovalProgress)

	if in.Outcome.Kind == OutcomeCompleted {
		msg := fmt.Sprintf("Purchase order %s has been fully approved and completed.", po)
		if in.Order.CreatedBy != b.actor {
			b.add(in.Order.CreatedBy, "Purchase Order Completed", msg,
				domain.NotificationPriorityMedium, AlertApprovalCompleted)
		}
		for _, l := range in.Levels {
			b.addAll(in.RoleMembers[l.RoleID], "Purchase Order Completed", msg,
				domain.NotificationPriorityMedium, AlertApprovalCompleted)
		}
		return
	}

	nextLevel := level + 1
	nextHolders := in.RoleMembers[roleAtLevel(in.Levels, nextLevel)]
	b.addAll(nextHolders, "Approval Requested",
		fmt.Sprintf("Purchase order %s requires your approval at level %d.", po, nextLevel),
		domain.NotificationPriorityHigh, AlertApprovalRequest)
}

// overrideFanout covers every level from the override origin through the max
// level with wording that distinguishes the current, intermediate, and final
// tiers. A single-level chain gets one combined message.
func (b *fanoutBuilder) overrideFanout(in FanoutInput) {
	po := in.Order.PONumber
	from := in.Outcome.FromLevel
	max := in.Levels[len(in.Levels)-1].Level

	for _, l := range in.Levels {
		if l.Level < from {
			continue
		}
		var msg string
		switch {
		case from == max:
			msg = fmt.Sprintf("Purchase order %s was approved and completed by %s via Super Admin override.", po, in.ActorName)
		case l.Level == from:
			msg = fmt.Sprintf("%s approved purchase order %s at level %d via Super Admin override.", in.ActorName, po, l.Level)
		case l.Level == max:
			msg = fmt.Sprintf("Purchase order %s was fully approved by %s via Super Admin override.", po, in.ActorName)
		default:
			msg = fmt.Sprintf("Level %d approval for purchase order %s was completed by %s via Super Admin override.", l.Level, po, in.ActorName)
		}
		b.addAll(in.RoleMembers[l.RoleID], "Purchase Order Override", msg,
			domain.NotificationPriorityMedium, AlertOverrideCompleted)
	}

	if in.Order.CreatedBy != b.actor {
		b.add(in.Order.CreatedBy, "Purchase Order Completed",
			fmt.Sprintf("Your purchase order %s was fully completed via Super Admin override by %s.", po, in.ActorName),
			domain.NotificationPriorityMedium, AlertApprovalCompleted)
	}
}

func (b *fanoutBuilder) reject(in FanoutInput) {
	po := in.Order.PONumber
	level := in.Outcome.FromLevel
	reason := in.Action.Comment
	if reason == "" {
		reason = "No reason provided"
	}

	b.add(b.actor, "Purchase Order Rejected",
		fmt.Sprintf("You rejected purchase order %s at level %d.", po, level),
		domain.NotificationPriorityLow, AlertRejectionConfirmation)

	b.addAll(in.SuperAdmins, "Purchase Order Rejected",
		fmt.Sprintf("%s rejected purchase order %s at level %d.", in.ActorName, po, level),
		domain.NotificationPriorityMedium, AlertApprovalInfo)

	if level == 1 {
		if in.Order.CreatedBy == uuid.Nil {
			b.warnings = append(b.warnings, fmt.Sprintf("purchase order %s has no creator, level 1 rejection notification skipped", po))
			return
		}
		b.add(in.Order.CreatedBy, "Purchase Order Rejected",
			fmt.Sprintf("Your purchase order %s was rejected at Level 1 by %s. Reason: %s", po, in.ActorName, reason),
			domain.NotificationPriorityHigh, AlertRejection)
		return
	}

	prevRole := roleAtLevel(in.Levels, level-1)
	if prior := PriorApprover(in.Ledger, prevRole); prior != nil {
		b.add(*prior, "Purchase Order Rejected",
			fmt.Sprintf("Purchase order %s you approved at level %d was rejected at level %d by %s. Reason: %s", po, level-1, level, in.ActorName, reason),
			domain.NotificationPriorityHigh, AlertRejection)
	} else {
		b.warnings = append(b.warnings, fmt.Sprintf("no level %d approver found for purchase order %s, prior approver notification skipped", level-1, po))
	}

	if in.Order.CreatedBy == uuid.Nil {
		b.warnings = append(b.warnings, fmt.Sprintf("purchase order %s has no creator, rejection notification skipped", po))
		return
	}
	b.add(in.Order.CreatedBy, "Purchase Order Rejected",
		fmt.Sprintf("Your purchase order %s was rejected at level %d by %s. Reason: %s", po, level, in.ActorName, reason),
		domain.NotificationPriorityHigh, AlertRejection)
}

func roleAtLevel(levels []Level, n int) uuid.UUID {
	for _, l := range levels {
		if l.Level == n {
			return l.RoleID
		}
	}
	return uuid.Nil
}
