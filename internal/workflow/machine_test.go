package workflow

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

func makeLevels(t *testing.T, count int, overrideEnabled bool) []Level {
	t.Helper()
	levels := make([]Level, 0, count)
	for i := 1; i <= count; i++ {
		levels = append(levels, Level{
			ConfigID:        uuid.New(),
			Level:           i,
			RoleID:          uuid.New(),
			OverrideEnabled: overrideEnabled,
		})
	}
	return levels
}

func approverAt(level Level) Actor {
	return Actor{UserID: uuid.New(), RoleIDs: []uuid.UUID{level.RoleID}}
}

func TestLevelsFromConfigs(t *testing.T) {
	roleA, roleB := uuid.New(), uuid.New()

	t.Run("orders by level", func(t *testing.T) {
		levels, err := LevelsFromConfigs([]domain.WorkflowConfig{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 2, RoleID: roleB},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 1, RoleID: roleA},
		})
		require.NoError(t, err)
		require.Len(t, levels, 2)
		assert.Equal(t, 1, levels[0].Level)
		assert.Equal(t, roleA, levels[0].RoleID)
		assert.Equal(t, 2, levels[1].Level)
	})

	t.Run("empty config fails", func(t *testing.T) {
		_, err := LevelsFromConfigs(nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("gap in levels fails", func(t *testing.T) {
		_, err := LevelsFromConfigs([]domain.WorkflowConfig{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 1, RoleID: roleA},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 3, RoleID: roleB},
		})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("duplicate level fails", func(t *testing.T) {
		_, err := LevelsFromConfigs([]domain.WorkflowConfig{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 1, RoleID: roleA},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 1, RoleID: roleB},
		})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("must start at one", func(t *testing.T) {
		_, err := LevelsFromConfigs([]domain.WorkflowConfig{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Level: 2, RoleID: roleA},
		})
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestSubmit(t *testing.T) {
	levels := makeLevels(t, 2, false)

	outcome, err := Submit(Snapshot{}, levels)
	require.NoError(t, err)
	require.Len(t, outcome.Entries, 1)

	entry := outcome.Entries[0]
	assert.Equal(t, domain.TrailPending, entry.Trail)
	assert.Equal(t, 0, entry.SequenceNo)
	assert.Equal(t, levels[0].RoleID, entry.RoleID)
	assert.Equal(t, "Level 1 Approval Pending", entry.Status)
	assert.Equal(t, &levels[0].ConfigID, outcome.WorkflowID)
	assert.Equal(t, "level_1_pending", outcome.StatusKey)

	t.Run("already active", func(t *testing.T) {
		_, err := Submit(Snapshot{WorkflowID: &levels[0].ConfigID}, levels)
		assert.Error(t, err)
	})
}

func TestDecideApprove(t *testing.T) {
	t.Run("advances to next level", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		actor := approverAt(levels[0])
		snap := Snapshot{
			WorkflowID: &levels[0].ConfigID,
			Ledger: []Entry{
				{Trail: domain.TrailPending, RoleID: levels[0].RoleID, SequenceNo: 0},
			},
		}

		outcome, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: actor})
		require.NoError(t, err)
		assert.Equal(t, OutcomeAdvanced, outcome.Kind)
		require.Len(t, outcome.Entries, 2)

		approved, pending := outcome.Entries[0], outcome.Entries[1]
		assert.Equal(t, domain.TrailApproved, approved.Trail)
		assert.Equal(t, 1, approved.SequenceNo)
		assert.False(t, approved.IsFinalized)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, actor.UserID, *approved.ApprovedBy)

		assert.Equal(t, domain.TrailPending, pending.Trail)
		assert.Equal(t, 2, pending.SequenceNo)
		assert.Equal(t, levels[1].RoleID, pending.RoleID)

		assert.Equal(t, &levels[1].ConfigID, outcome.WorkflowID)
		assert.Equal(t, &levels[1].RoleID, outcome.NextRoleID)
		assert.Equal(t, "level_2_pending", outcome.StatusKey)
	})

	t.Run("final level completes", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		actor := approverAt(levels[1])
		snap := Snapshot{
			WorkflowID: &levels[1].ConfigID,
			Ledger: []Entry{
				{Trail: domain.TrailPending, RoleID: levels[0].RoleID, SequenceNo: 0},
				{Trail: domain.TrailApproved, RoleID: levels[0].RoleID, SequenceNo: 1},
				{Trail: domain.TrailPending, RoleID: levels[1].RoleID, SequenceNo: 2},
			},
		}

		outcome, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: actor})
		require.NoError(t, err)
		assert.Equal(t, OutcomeCompleted, outcome.Kind)
		require.Len(t, outcome.Entries, 1)
		assert.True(t, outcome.Entries[0].IsFinalized)
		assert.Equal(t, 3, outcome.Entries[0].SequenceNo)
		assert.Nil(t, outcome.WorkflowID)
		assert.Nil(t, outcome.NextRoleID)
		assert.Equal(t, domain.StatusKeyCompleted, outcome.StatusKey)
	})

	t.Run("wrong role denied", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		actor := approverAt(levels[1])
		snap := Snapshot{WorkflowID: &levels[0].ConfigID}

		_, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: actor})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("finalized order rejected", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		_, err := Decide(Snapshot{}, levels, Action{Kind: ActionApprove, Actor: approverAt(levels[0])})
		assert.ErrorIs(t, err, ErrNotActive)
	})

	t.Run("no configured levels", func(t *testing.T) {
		id := uuid.New()
		_, err := Decide(Snapshot{WorkflowID: &id}, nil, Action{Kind: ActionApprove})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("unknown level config", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		stale := uuid.New()
		_, err := Decide(Snapshot{WorkflowID: &stale}, levels, Action{Kind: ActionApprove, Actor: approverAt(levels[0])})
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestDecideOverride(t *testing.T) {
	t.Run("completes remaining levels from level 1 of 3", func(t *testing.T) {
		levels := makeLevels(t, 3, true)
		admin := Actor{UserID: uuid.New(), IsSuperAdmin: true}
		snap := Snapshot{
			WorkflowID: &levels[0].ConfigID,
			Ledger: []Entry{
				{Trail: domain.TrailPending, RoleID: levels[0].RoleID, SequenceNo: 0},
			},
		}

		outcome, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: admin})
		require.NoError(t, err)
		assert.Equal(t, OutcomeCompleted, outcome.Kind)
		assert.True(t, outcome.Override)

		// 1 + 2*(max-current) entries, only the last finalized
		require.Len(t, outcome.Entries, 5)
		for i, e := range outcome.Entries {
			assert.Equal(t, i+1, e.SequenceNo, "sequence must continue gap-free")
			assert.Equal(t, i == len(outcome.Entries)-1, e.IsFinalized, "entry %d", i)
		}
		assert.Equal(t, domain.TrailApproved, outcome.Entries[0].Trail)
		assert.Equal(t, domain.TrailPending, outcome.Entries[1].Trail)
		assert.Equal(t, domain.TrailApproved, outcome.Entries[2].Trail)
		assert.Equal(t, domain.TrailPending, outcome.Entries[3].Trail)
		assert.Equal(t, domain.TrailApproved, outcome.Entries[4].Trail)
		assert.Nil(t, outcome.WorkflowID)
		assert.Equal(t, domain.StatusKeyCompleted, outcome.StatusKey)
	})

	t.Run("override at max level yields single finalized entry", func(t *testing.T) {
		levels := makeLevels(t, 2, true)
		admin := Actor{UserID: uuid.New(), IsSuperAdmin: true}
		snap := Snapshot{WorkflowID: &levels[1].ConfigID}

		outcome, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: admin})
		require.NoError(t, err)
		require.Len(t, outcome.Entries, 1)
		assert.True(t, outcome.Entries[0].IsFinalized)
		assert.Equal(t, OutcomeCompleted, outcome.Kind)
	})

	t.Run("super admin without override flag needs the current role", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		admin := Actor{UserID: uuid.New(), IsSuperAdmin: true}
		snap := Snapshot{WorkflowID: &levels[0].ConfigID}

		_, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: admin})
		assert.ErrorIs(t, err, ErrPermissionDenied)

		// holding the role lets them act as a regular approver
		admin.RoleIDs = []uuid.UUID{levels[0].RoleID}
		outcome, err := Decide(snap, levels, Action{Kind: ActionApprove, Actor: admin})
		require.NoError(t, err)
		assert.Equal(t, OutcomeAdvanced, outcome.Kind)
		assert.False(t, outcome.Override)
		require.Len(t, outcome.Entries, 2)
	})
}

func TestDecideReject(t *testing.T) {
	t.Run("requires comment", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		snap := Snapshot{WorkflowID: &levels[0].ConfigID}
		_, err := Decide(snap, levels, Action{Kind: ActionReject, Actor: approverAt(levels[0])})
		assert.ErrorIs(t, err, ErrMissingComment)
	})

	t.Run("level 1 reverts to created", func(t *testing.T) {
		levels := makeLevels(t, 2, false)
		actor := approverAt(levels[0])
		snap := Snapshot{
			WorkflowID: &levels[0].ConfigID,
			Ledger: []Entry{
				{Trail: domain.TrailPending, RoleID: levels[0].RoleID, SequenceNo: 0},
			},
		}

		outcome, err := Decide(snap, levels, Action{Kind: ActionReject, Actor: actor, Comment: "missing quotes"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeReverted, outcome.Kind)
		require.Len(t, outcome.Entries, 1)

		entry := outcome.Entries[0]
		assert.Equal(t, domain.TrailRejected, entry.Trail)
		assert.Equal(t, "Created - Rejected", entry.Status)
		assert.Equal(t, 1, entry.SequenceNo)
		require.NotNil(t, entry.RejectedBy)
		assert.Equal(t, actor.UserID, *entry.RejectedBy)
		assert.Nil(t, entry.RejectedTo)
		assert.Equal(t, "missing quotes", entry.Comment)
		assert.Nil(t, outcome.WorkflowID)
		assert.Equal(t, domain.StatusKeyCreated, outcome.StatusKey)
	})

	t.Run("level 2 returns to level 1 approver", func(t *testing.T) {
		levels := makeLevels(t, 3, false)
		firstApprover := uuid.New()
		laterApprover := uuid.New()
		actor := approverAt(levels[1])
		snap := Snapshot{
			WorkflowID: &levels[1].ConfigID,
			Ledger: []Entry{
				{Trail: domain.TrailPending, RoleID: levels[0].RoleID, SequenceNo: 0},
				{Trail: domain.TrailApproved, RoleID: levels[0].RoleID, SequenceNo: 1, ApprovedBy: &firstApprover},
				{Trail: domain.TrailRejected, RoleID: levels[1].RoleID, SequenceNo: 2},
				// re-approved after an earlier rejection; the most recent approver wins
				{Trail: domain.TrailApproved, RoleID: levels[0].RoleID, SequenceNo: 3, ApprovedBy: &laterApprover},
				{Trail: domain.TrailPending, RoleID: levels[1].RoleID, SequenceNo: 4},
			},
		}

		outcome, err := Decide(snap, levels, Action{Kind: ActionReject, Actor: actor, Comment: "price mismatch"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeReturned, outcome.Kind)
		require.Len(t, outcome.Entries, 1)

		entry := outcome.Entries[0]
		assert.Equal(t, "Level 2 Rejected", entry.Status)
		assert.Equal(t, 5, entry.SequenceNo)
		require.NotNil(t, entry.RejectedTo)
		assert.Equal(t, laterApprover, *entry.RejectedTo)
		assert.Equal(t, &levels[0].ConfigID, outcome.WorkflowID)
		assert.Equal(t, "level_1_pending", outcome.StatusKey)
	})
}

func TestSequenceNumbering(t *testing.T) {
	assert.Equal(t, 0, NextSequence(nil))
	assert.Equal(t, 4, NextSequence([]Entry{{SequenceNo: 3}, {SequenceNo: 1}}))

	// a full pass over a 3-level chain stays gap-free
	levels := makeLevels(t, 3, false)
	snap := Snapshot{}

	outcome, err := Submit(snap, levels)
	require.NoError(t, err)
	snap.Ledger = append(snap.Ledger, outcome.Entries...)
	snap.WorkflowID = outcome.WorkflowID

	for i := 0; i < 3; i++ {
		current, ok := levelByConfigID(levels, *snap.WorkflowID)
		require.True(t, ok)
		outcome, err = Decide(snap, levels, Action{Kind: ActionApprove, Actor: approverAt(current)})
		require.NoError(t, err, "level %d", i+1)
		snap.Ledger = append(snap.Ledger, outcome.Entries...)
		snap.WorkflowID = outcome.WorkflowID
	}

	require.Len(t, snap.Ledger, 6)
	finalized := 0
	for i, e := range snap.Ledger {
		assert.Equal(t, i, e.SequenceNo, fmt.Sprintf("entry %d", i))
		if e.IsFinalized {
			finalized++
		}
	}
	assert.Equal(t, 1, finalized, "exactly one finalized entry per completed workflow")
	assert.Nil(t, snap.WorkflowID)
}
