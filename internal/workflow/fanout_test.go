package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

type fanoutFixture struct {
	levels      []Level
	members     map[uuid.UUID][]uuid.UUID
	superAdmins []uuid.UUID
	creator     uuid.UUID
	order       OrderRef
}

func newFanoutFixture(t *testing.T, levelCount, holdersPerLevel int) *fanoutFixture {
	t.Helper()
	f := &fanoutFixture{
		levels:      makeLevels(t, levelCount, true),
		members:     make(map[uuid.UUID][]uuid.UUID),
		superAdmins: []uuid.UUID{uuid.New(), uuid.New()},
		creator:     uuid.New(),
	}
	for _, l := range f.levels {
		for i := 0; i < holdersPerLevel; i++ {
			f.members[l.RoleID] = append(f.members[l.RoleID], uuid.New())
		}
	}
	f.order = OrderRef{PONumber: "PO-2026-0147", CreatedBy: f.creator}
	return f
}

func (f *fanoutFixture) input(action Action, outcome *Outcome) FanoutInput {
	return FanoutInput{
		Order:       f.order,
		Outcome:     outcome,
		Action:      action,
		ActorName:   "Dana Meyer",
		Levels:      f.levels,
		RoleMembers: f.members,
		SuperAdmins: f.superAdmins,
	}
}

func recipientsOf(payloads []Payload, alertType string) []uuid.UUID {
	var out []uuid.UUID
	for _, p := range payloads {
		if p.AlertType == alertType {
			out = append(out, p.AssignTo)
		}
	}
	return out
}

func TestFanoutApproveAdvance(t *testing.T) {
	f := newFanoutFixture(t, 2, 2)
	actor := Actor{UserID: f.members[f.levels[0].RoleID][0], RoleIDs: []uuid.UUID{f.levels[0].RoleID}}
	action := Action{Kind: ActionApprove, Actor: actor}
	outcome := &Outcome{Kind: OutcomeAdvanced, FromLevel: 1}

	payloads, warnings := ComputeNotifications(f.input(action, outcome))
	assert.Empty(t, warnings)

	// actor confirmation
	require.Len(t, recipientsOf(payloads, AlertApprovalConfirmation), 1)
	assert.Equal(t, actor.UserID, recipientsOf(payloads, AlertApprovalConfirmation)[0])

	// both super admins informed
	assert.ElementsMatch(t, f.superAdmins, recipientsOf(payloads, AlertApprovalInfo))

	// the other level-1 holder sees progress, the actor does not
	progress := recipientsOf(payloads, AlertApprovalProgress)
	require.Len(t, progress, 1)
	assert.NotEqual(t, actor.UserID, progress[0])

	// every level-2 holder is asked to approve
	assert.ElementsMatch(t, f.members[f.levels[1].RoleID], recipientsOf(payloads, AlertApprovalRequest))

	for _, p := range payloads {
		assert.Equal(t, "PO-2026-0147", p.EntityID)
		assert.NotEmpty(t, p.Message)
	}
}

func TestFanoutApproveFinal(t *testing.T) {
	f := newFanoutFixture(t, 2, 2)
	actor := Actor{UserID: f.members[f.levels[1].RoleID][0], RoleIDs: []uuid.UUID{f.levels[1].RoleID}}
	action := Action{Kind: ActionApprove, Actor: actor}
	outcome := &Outcome{Kind: OutcomeCompleted, FromLevel: 2}

	payloads, _ := ComputeNotifications(f.input(action, outcome))

	completed := recipientsOf(payloads, AlertApprovalCompleted)
	want := []uuid.UUID{f.creator}
	for _, l := range f.levels {
		for _, u := range f.members[l.RoleID] {
			if u != actor.UserID {
				want = append(want, u)
			}
		}
	}
	assert.ElementsMatch(t, want, completed)
	assert.NotContains(t, completed, actor.UserID)
}

func TestFanoutApproveFinalByCreator(t *testing.T) {
	f := newFanoutFixture(t, 2, 2)
	actor := Actor{UserID: f.members[f.levels[1].RoleID][0], RoleIDs: []uuid.UUID{f.levels[1].RoleID}}
	f.order.CreatedBy = actor.UserID
	action := Action{Kind: ActionApprove, Actor: actor}
	outcome := &Outcome{Kind: OutcomeCompleted, FromLevel: 2}

	payloads, _ := ComputeNotifications(f.input(action, outcome))

	// the creator approved the final level themselves; they get the actor
	// confirmation only, never the completion broadcast
	completed := recipientsOf(payloads, AlertApprovalCompleted)
	assert.NotContains(t, completed, actor.UserID)

	want := make([]uuid.UUID, 0, 3)
	for _, l := range f.levels {
		for _, u := range f.members[l.RoleID] {
			if u != actor.UserID {
				want = append(want, u)
			}
		}
	}
	assert.ElementsMatch(t, want, completed)
}

func TestFanoutOverride(t *testing.T) {
	f := newFanoutFixture(t, 3, 2)
	admin := Actor{UserID: f.superAdmins[0], IsSuperAdmin: true}
	action := Action{Kind: ActionApprove, Actor: admin}
	outcome := &Outcome{Kind: OutcomeCompleted, FromLevel: 1, Override: true}

	payloads, _ := ComputeNotifications(f.input(action, outcome))

	// every role holder at levels 1..3 plus the creator
	override := recipientsOf(payloads, AlertOverrideCompleted)
	var holders []uuid.UUID
	for _, l := range f.levels {
		holders = append(holders, f.members[l.RoleID]...)
	}
	assert.ElementsMatch(t, holders, override)
	assert.Equal(t, []uuid.UUID{f.creator}, recipientsOf(payloads, AlertApprovalCompleted))

	// the acting admin gets the confirmation, not the info copy
	info := recipientsOf(payloads, AlertApprovalInfo)
	assert.NotContains(t, info, admin.UserID)
	assert.Contains(t, info, f.superAdmins[1])
}

func TestFanoutOverrideSingleLevel(t *testing.T) {
	f := newFanoutFixture(t, 1, 2)
	admin := Actor{UserID: uuid.New(), IsSuperAdmin: true}
	action := Action{Kind: ActionApprove, Actor: admin}
	outcome := &Outcome{Kind: OutcomeCompleted, FromLevel: 1, Override: true}

	payloads, _ := ComputeNotifications(f.input(action, outcome))

	for _, p := range payloads {
		if p.AlertType == AlertOverrideCompleted {
			assert.Contains(t, p.Message, "approved and completed")
		}
	}
}

func TestFanoutRejectLevelOne(t *testing.T) {
	f := newFanoutFixture(t, 2, 1)
	actor := Actor{UserID: f.members[f.levels[0].RoleID][0], RoleIDs: []uuid.UUID{f.levels[0].RoleID}}
	action := Action{Kind: ActionReject, Actor: actor, Comment: "wrong supplier"}
	outcome := &Outcome{Kind: OutcomeReverted, FromLevel: 1}

	payloads, warnings := ComputeNotifications(f.input(action, outcome))
	assert.Empty(t, warnings)

	rejected := recipientsOf(payloads, AlertRejection)
	require.Len(t, rejected, 1)
	assert.Equal(t, f.creator, rejected[0])

	for _, p := range payloads {
		if p.AlertType == AlertRejection {
			assert.Contains(t, p.Message, "wrong supplier")
			assert.Contains(t, p.Message, "Level 1")
		}
	}
}

func TestFanoutRejectMissingCreator(t *testing.T) {
	f := newFanoutFixture(t, 2, 1)
	f.order.CreatedBy = uuid.Nil
	actor := Actor{UserID: f.members[f.levels[0].RoleID][0], RoleIDs: []uuid.UUID{f.levels[0].RoleID}}
	action := Action{Kind: ActionReject, Actor: actor, Comment: "duplicate order"}
	outcome := &Outcome{Kind: OutcomeReverted, FromLevel: 1}

	payloads, warnings := ComputeNotifications(f.input(action, outcome))

	assert.Empty(t, recipientsOf(payloads, AlertRejection))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no creator")
	// the action itself still produced the actor and super admin copies
	assert.NotEmpty(t, payloads)
}

func TestFanoutRejectUpperLevel(t *testing.T) {
	f := newFanoutFixture(t, 2, 1)
	priorApprover := uuid.New()
	actor := Actor{UserID: f.members[f.levels[1].RoleID][0], RoleIDs: []uuid.UUID{f.levels[1].RoleID}}
	action := Action{Kind: ActionReject, Actor: actor, Comment: ""}
	outcome := &Outcome{Kind: OutcomeReturned, FromLevel: 2}

	in := f.input(action, outcome)
	in.Ledger = []Entry{
		{Trail: domain.TrailApproved, RoleID: f.levels[0].RoleID, SequenceNo: 1, ApprovedBy: &priorApprover},
	}

	payloads, warnings := ComputeNotifications(in)
	assert.Empty(t, warnings)

	rejected := recipientsOf(payloads, AlertRejection)
	assert.ElementsMatch(t, []uuid.UUID{priorApprover, f.creator}, rejected)

	for _, p := range payloads {
		if p.AlertType == AlertRejection {
			assert.Contains(t, p.Message, "No reason provided")
		}
	}
}

func TestFanoutDeterminism(t *testing.T) {
	f := newFanoutFixture(t, 3, 3)
	actor := Actor{UserID: f.members[f.levels[0].RoleID][0], RoleIDs: []uuid.UUID{f.levels[0].RoleID}}
	action := Action{Kind: ActionApprove, Actor: actor}
	outcome := &Outcome{Kind: OutcomeAdvanced, FromLevel: 1}

	first, _ := ComputeNotifications(f.input(action, outcome))
	second, _ := ComputeNotifications(f.input(action, outcome))
	assert.Equal(t, first, second)
}
