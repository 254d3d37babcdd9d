// Package workflow contains the pure decision logic for the purchase order
// approval process. Decide computes the ledger entries and order mutation for
// an approve/reject action without touching storage; the approval service
// performs the writes.
package workflow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

var (
	// ErrMissingComment is returned when a rejection carries no comment
	ErrMissingComment = errors.New("rejection requires a comment")

	// ErrPermissionDenied is returned when the actor may not act at the current level
	ErrPermissionDenied = errors.New("actor is not authorized to act at the current level")

	// ErrNotActive is returned when the order has no active workflow level
	ErrNotActive = errors.New("order has no active approval level")

	// ErrConfiguration is returned when the workflow configuration is missing or invalid
	ErrConfiguration = errors.New("invalid workflow configuration")
)

// ActionKind is the closed set of workflow actions
type ActionKind string

const (
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
)

// Actor identifies the acting user and the roles they hold
type Actor struct {
	UserID       uuid.UUID
	RoleIDs      []uuid.UUID
	IsSuperAdmin bool
}

// HasRole reports whether the actor holds the given role
func (a Actor) HasRole(roleID uuid.UUID) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Action is a tagged approve/reject request against an order
type Action struct {
	Kind    ActionKind
	Actor   Actor
	Comment string
}

// Level is one tier of the approval chain, derived from WorkflowConfig rows
type Level struct {
	ConfigID        uuid.UUID
	Level           int
	RoleID          uuid.UUID
	OverrideEnabled bool
}

// Entry is a ledger event produced by a decision. The approval service turns
// these into persisted ApprovalLedgerEntry rows.
type Entry struct {
	Status      string
	Trail       domain.ApprovalTrail
	RoleID      uuid.UUID
	SequenceNo  int
	IsFinalized bool
	ApprovedBy  *uuid.UUID
	RejectedBy  *uuid.UUID
	RejectedTo  *uuid.UUID
	Comment     string
}

// Snapshot is the workflow-relevant state of an order at decision time
type Snapshot struct {
	WorkflowID *uuid.UUID
	Ledger     []Entry
}

// OutcomeKind is the closed set of decision results
type OutcomeKind string

const (
	// OutcomeAdvanced moves the order to the next approval level
	OutcomeAdvanced OutcomeKind = "advanced"
	// OutcomeCompleted finalizes the workflow successfully
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeReturned sends the order back to the previous level after rejection
	OutcomeReturned OutcomeKind = "returned"
	// OutcomeReverted returns the order to its creator after a level-1 rejection
	OutcomeReverted OutcomeKind = "reverted"
)

// Outcome is the computed mutation for one action
type Outcome struct {
	Kind       OutcomeKind
	Entries    []Entry
	WorkflowID *uuid.UUID
	NextRoleID *uuid.UUID
	StatusKey  string
	FromLevel  int
	Override   bool
}

// PendingStatusKey returns the status-message sub-category for a level's
// pending state.
func PendingStatusKey(level int) string {
	return fmt.Sprintf("level_%d_pending", level)
}

// LevelsFromConfigs validates and orders workflow config rows into levels.
// Levels must be contiguous starting at 1 with exactly one row per level;
// a violation fails fast with ErrConfiguration rather than silently picking
// the first matching row.
func LevelsFromConfigs(configs []domain.WorkflowConfig) ([]Level, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: no levels configured", ErrConfiguration)
	}

	levels := make([]Level, 0, len(configs))
	for _, c := range configs {
		levels = append(levels, Level{
			ConfigID:        c.ID,
			Level:           c.Level,
			RoleID:          c.RoleID,
			OverrideEnabled: c.OverrideEnabled,
		})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })

	for i, l := range levels {
		if l.Level != i+1 {
			return nil, fmt.Errorf("%w: levels must be contiguous from 1, got level %d at position %d", ErrConfiguration, l.Level, i+1)
		}
	}
	return levels, nil
}

// NextSequence returns the sequence number the next appended entry must use
func NextSequence(ledger []Entry) int {
	max := -1
	for _, e := range ledger {
		if e.SequenceNo > max {
			max = e.SequenceNo
		}
	}
	return max + 1
}

// Submit activates the workflow for a newly created (or fully rejected)
// order, producing the level-1 pending entry.
func Submit(snap Snapshot, levels []Level) (*Outcome, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels configured", ErrConfiguration)
	}
	if snap.WorkflowID != nil {
		return nil, fmt.Errorf("order already has an active approval level")
	}

	first := levels[0]
	seq := NextSequence(snap.Ledger)
	entry := Entry{
		Status:     fmt.Sprintf("Level %d Approval Pending", first.Level),
		Trail:      domain.TrailPending,
		RoleID:     first.RoleID,
		SequenceNo: seq,
	}

	return &Outcome{
		Kind:       OutcomeAdvanced,
		Entries:    []Entry{entry},
		WorkflowID: &first.ConfigID,
		NextRoleID: &first.RoleID,
		StatusKey:  PendingStatusKey(first.Level),
		FromLevel:  0,
	}, nil
}

// Decide computes the outcome of an approve or reject action.
func Decide(snap Snapshot, levels []Level, action Action) (*Outcome, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels configured", ErrConfiguration)
	}
	if snap.WorkflowID == nil {
		return nil, ErrNotActive
	}

	current, ok := levelByConfigID(levels, *snap.WorkflowID)
	if !ok {
		return nil, fmt.Errorf("%w: order points at unknown level config %s", ErrConfiguration, *snap.WorkflowID)
	}

	switch action.Kind {
	case ActionApprove:
		return decideApprove(snap, levels, current, action)
	case ActionReject:
		return decideReject(snap, levels, current, action)
	default:
		return nil, fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

func decideApprove(snap Snapshot, levels []Level, current Level, action Action) (*Outcome, error) {
	maxLevel := levels[len(levels)-1].Level

	// Super Admin override completes every remaining level in one action,
	// but only where the current level's config allows it. Without the
	// override flag a Super Admin may still act as a regular approver when
	// they hold the current level's role.
	override := action.Actor.IsSuperAdmin && current.OverrideEnabled
	if !override && !action.Actor.HasRole(current.RoleID) {
		return nil, ErrPermissionDenied
	}

	seq := NextSequence(snap.Ledger)
	actorID := action.Actor.UserID

	if override {
		entries := []Entry{{
			Status:     fmt.Sprintf("Level %d Approved", current.Level),
			Trail:      domain.TrailApproved,
			RoleID:     current.RoleID,
			SequenceNo: seq,
			ApprovedBy: &actorID,
			Comment:    action.Comment,
		}}
		seq++

		for _, l := range levels {
			if l.Level <= current.Level {
				continue
			}
			entries = append(entries,
				Entry{
					Status:     fmt.Sprintf("Level %d Approval Pending", l.Level),
					Trail:      domain.TrailPending,
					RoleID:     l.RoleID,
					SequenceNo: seq,
				},
				Entry{
					Status:     fmt.Sprintf("Level %d Approved", l.Level),
					Trail:      domain.TrailApproved,
					RoleID:     l.RoleID,
					SequenceNo: seq + 1,
					ApprovedBy: &actorID,
				},
			)
			seq += 2
		}

		entries[len(entries)-1].IsFinalized = true

		return &Outcome{
			Kind:      OutcomeCompleted,
			Entries:   entries,
			StatusKey: domain.StatusKeyCompleted,
			FromLevel: current.Level,
			Override:  true,
		}, nil
	}

	if current.Level == maxLevel {
		entry := Entry{
			Status:      fmt.Sprintf("Level %d Approved", current.Level),
			Trail:       domain.TrailApproved,
			RoleID:      current.RoleID,
			SequenceNo:  seq,
			IsFinalized: true,
			ApprovedBy:  &actorID,
			Comment:     action.Comment,
		}
		return &Outcome{
			Kind:      OutcomeCompleted,
			Entries:   []Entry{entry},
			StatusKey: domain.StatusKeyCompleted,
			FromLevel: current.Level,
		}, nil
	}

	next, ok := levelByNumber(levels, current.Level+1)
	if !ok {
		return nil, fmt.Errorf("%w: level %d config missing", ErrConfiguration, current.Level+1)
	}

	entries := []Entry{
		{
			Status:     fmt.Sprintf("Level %d Approved", current.Level),
			Trail:      domain.TrailApproved,
			RoleID:     current.RoleID,
			SequenceNo: seq,
			ApprovedBy: &actorID,
			Comment:    action.Comment,
		},
		{
			Status:     fmt.Sprintf("Level %d Approval Pending", next.Level),
			Trail:      domain.TrailPending,
			RoleID:     next.RoleID,
			SequenceNo: seq + 1,
		},
	}

	return &Outcome{
		Kind:       OutcomeAdvanced,
		Entries:    entries,
		WorkflowID: &next.ConfigID,
		NextRoleID: &next.RoleID,
		StatusKey:  PendingStatusKey(next.Level),
		FromLevel:  current.Level,
	}, nil
}

func decideReject(snap Snapshot, levels []Level, current Level, action Action) (*Outcome, error) {
	if action.Comment == "" {
		return nil, ErrMissingComment
	}
	if !action.Actor.IsSuperAdmin && !action.Actor.HasRole(current.RoleID) {
		return nil, ErrPermissionDenied
	}

	seq := NextSequence(snap.Ledger)
	actorID := action.Actor.UserID

	if current.Level == 1 {
		entry := Entry{
			Status:     "Created - Rejected",
			Trail:      domain.TrailRejected,
			RoleID:     current.RoleID,
			SequenceNo: seq,
			RejectedBy: &actorID,
			Comment:    action.Comment,
		}
		return &Outcome{
			Kind:      OutcomeReverted,
			Entries:   []Entry{entry},
			StatusKey: domain.StatusKeyCreated,
			FromLevel: current.Level,
		}, nil
	}

	prev, ok := levelByNumber(levels, current.Level-1)
	if !ok {
		return nil, fmt.Errorf("%w: level %d config missing", ErrConfiguration, current.Level-1)
	}

	entry := Entry{
		Status:     fmt.Sprintf("Level %d Rejected", current.Level),
		Trail:      domain.TrailRejected,
		RoleID:     current.RoleID,
		SequenceNo: seq,
		RejectedBy: &actorID,
		RejectedTo: PriorApprover(snap.Ledger, prev.RoleID),
		Comment:    action.Comment,
	}

	return &Outcome{
		Kind:       OutcomeReturned,
		Entries:    []Entry{entry},
		WorkflowID: &prev.ConfigID,
		NextRoleID: &prev.RoleID,
		StatusKey:  PendingStatusKey(prev.Level),
		FromLevel:  current.Level,
	}, nil
}

// PriorApprover finds the user who most recently approved at the level
// identified by roleID, scanning the ledger by sequence number descending.
func PriorApprover(ledger []Entry, roleID uuid.UUID) *uuid.UUID {
	var best *Entry
	for i := range ledger {
		e := &ledger[i]
		if e.Trail != domain.TrailApproved || e.RoleID != roleID || e.ApprovedBy == nil {
			continue
		}
		if best == nil || e.SequenceNo > best.SequenceNo {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.ApprovedBy
}

func levelByConfigID(levels []Level, configID uuid.UUID) (Level, bool) {
	for _, l := range levels {
		if l.ConfigID == configID {
			return l, true
		}
	}
	return Level{}, false
}

func levelByNumber(levels []Level, n int) (Level, bool) {
	for _, l := range levels {
		if l.Level == n {
			return l, true
		}
	}
	return Level{}, false
}
