package approval_test

import (
	"errors"
	"testing"
	"time"

	"hris-payroll/internal/approval"
	approvalerrors "hris-payroll/internal/approval/errors"
	"hris-payroll/internal/rbac"
	"hris-payroll/internal/rbac/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T) *approval.Machine {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	require.NoError(t, err)
	return approval.NewMachine(rbac.NewService(enforcer))
}

type fixture struct {
	supervisor approval.Actor
	hr         approval.Actor
	superAdmin approval.Actor
	rec        approval.Record
}

func newFixture() fixture {
	supID := uuid.New()
	hrID := uuid.New()
	return fixture{
		supervisor: approval.Actor{ID: supID, Role: rbac.RoleSupervisor},
		hr:         approval.Actor{ID: hrID, Role: rbac.RoleHR},
		superAdmin: approval.Actor{ID: uuid.New(), Role: rbac.RoleSuperAdmin},
		rec:        approval.NewRecord(&supID, &hrID),
	}
}

func act(stage approval.Stage, decision approval.Decision, actor approval.Actor) approval.Action {
	return approval.Action{
		Kind:     "leave",
		Stage:    stage,
		Decision: decision,
		Actor:    actor,
		Comments: "ok",
		At:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestMachine_HappyPath(t *testing.T) {
	m := newMachine(t)
	f := newFixture()

	assert.Equal(t, approval.DisplayPendingSupervisor, f.rec.DisplayStatus())
	assert.Nil(t, f.rec.HRStatus)

	out, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
	require.NoError(t, err)
	assert.Equal(t, approval.DisplayPendingHR, out.To)
	assert.Equal(t, approval.CreditNone, out.Credit)
	require.NotNil(t, f.rec.HRStatus)
	assert.Equal(t, approval.StatusPending, *f.rec.HRStatus)
	assert.Equal(t, approval.StatusPending, f.rec.Status)
	assert.Equal(t, f.supervisor.ID, *f.rec.SupervisorApprovedBy)

	out, err = m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.hr))
	require.NoError(t, err)
	assert.Equal(t, approval.DisplayApproved, out.To)
	assert.Equal(t, approval.CreditUse, out.Credit)
	assert.False(t, out.Override)
	assert.Equal(t, approval.StatusApproved, f.rec.Status)
	assert.True(t, f.rec.CreditsApplied)
}

func TestMachine_HRReversalRefunds(t *testing.T) {
	m := newMachine(t)
	f := newFixture()

	_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
	require.NoError(t, err)
	_, err = m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.hr))
	require.NoError(t, err)

	out, err := m.Apply(&f.rec, act(approval.StageHR, approval.Reject, f.hr))
	require.NoError(t, err)
	assert.Equal(t, approval.CreditRefund, out.Credit)
	assert.Equal(t, approval.DisplayRejectedByHR, out.To)
	assert.False(t, f.rec.CreditsApplied)
	assert.Equal(t, approval.StatusRejected, f.rec.Status)
}

func TestMachine_FreshHRRejectionDoesNotRefund(t *testing.T) {
	m := newMachine(t)
	f := newFixture()

	_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
	require.NoError(t, err)

	out, err := m.Apply(&f.rec, act(approval.StageHR, approval.Reject, f.hr))
	require.NoError(t, err)
	assert.Equal(t, approval.CreditNone, out.Credit)
	assert.Equal(t, approval.DisplayRejectedByHR, f.rec.DisplayStatus())
}

func TestMachine_SupervisorRejectionLocksOutHR(t *testing.T) {
	m := newMachine(t)
	f := newFixture()

	_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Reject, f.supervisor))
	require.NoError(t, err)
	assert.Equal(t, approval.DisplayRejectedBySupervisor, f.rec.DisplayStatus())

	before := f.rec
	for _, d := range []approval.Decision{approval.Approve, approval.Reject} {
		_, err = m.Apply(&f.rec, act(approval.StageHR, d, f.hr))
		assert.ErrorIs(t, err, approvalerrors.ErrRejectedBySupervisor)
		assert.True(t, approval.IsInvalidTransition(err))
		assert.Equal(t, before, f.rec, "record must not change")
		assert.Nil(t, f.rec.HRStatus)
	}
}

func TestMachine_SuperAdminOverride(t *testing.T) {
	m := newMachine(t)
	f := newFixture()

	_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Reject, f.supervisor))
	require.NoError(t, err)

	out, err := m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.superAdmin))
	require.NoError(t, err)
	assert.True(t, out.Override)
	assert.Equal(t, approval.CreditUse, out.Credit)
	assert.Equal(t, approval.DisplayApproved, f.rec.DisplayStatus())
	assert.Equal(t, approval.StatusRejected, f.rec.SupervisorStatus)
}

func TestMachine_OutOfTurn(t *testing.T) {
	m := newMachine(t)

	t.Run("hr before supervisor", func(t *testing.T) {
		f := newFixture()
		before := f.rec
		_, err := m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.hr))
		assert.ErrorIs(t, err, approvalerrors.ErrAwaitingSupervisor)
		assert.Equal(t, before, f.rec)
	})

	t.Run("super admin cannot skip supervisor", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.superAdmin))
		assert.ErrorIs(t, err, approvalerrors.ErrAwaitingSupervisor)
	})

	t.Run("supervisor decides twice", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
		require.NoError(t, err)
		_, err = m.Apply(&f.rec, act(approval.StageSupervisor, approval.Reject, f.supervisor))
		assert.ErrorIs(t, err, approvalerrors.ErrStageAlreadyDecided)
	})

	t.Run("hr approves twice", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
		require.NoError(t, err)
		_, err = m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.hr))
		require.NoError(t, err)
		_, err = m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.hr))
		assert.ErrorIs(t, err, approvalerrors.ErrStageAlreadyDecided)
	})

	t.Run("hr acts on hr rejection", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
		require.NoError(t, err)
		_, err = m.Apply(&f.rec, act(approval.StageHR, approval.Reject, f.hr))
		require.NoError(t, err)
		_, err = m.Apply(&f.rec, act(approval.StageHR, approval.Approve, f.hr))
		assert.ErrorIs(t, err, approvalerrors.ErrStageAlreadyDecided)
	})
}

func TestMachine_Authorization(t *testing.T) {
	m := newMachine(t)

	t.Run("employee cannot decide", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, approval.Actor{ID: uuid.New(), Role: rbac.RoleEmployee}))
		assert.ErrorIs(t, err, approvalerrors.ErrNotAuthorized)
	})

	t.Run("hr cannot act as supervisor", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.hr))
		assert.ErrorIs(t, err, approvalerrors.ErrNotAuthorized)
	})

	t.Run("other supervisor is not the assignee", func(t *testing.T) {
		f := newFixture()
		other := approval.Actor{ID: uuid.New(), Role: rbac.RoleSupervisor}
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, other))
		assert.ErrorIs(t, err, approvalerrors.ErrNotAssignedApprover)
	})

	t.Run("super admin may act unassigned", func(t *testing.T) {
		f := newFixture()
		_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.superAdmin))
		assert.NoError(t, err)
	})

	t.Run("unassigned stage accepts any holder", func(t *testing.T) {
		rec := approval.NewRecord(nil, nil)
		_, err := m.Apply(&rec, act(approval.StageSupervisor, approval.Approve, approval.Actor{ID: uuid.New(), Role: rbac.RoleSupervisor}))
		assert.NoError(t, err)
	})
}

type failingPolicy struct{}

func (failingPolicy) Can(role, resource, action string) (bool, error) {
	return false, errors.New("policy store down")
}

func TestMachine_PolicyErrorPropagates(t *testing.T) {
	m := approval.NewMachine(failingPolicy{})
	f := newFixture()

	_, err := m.Apply(&f.rec, act(approval.StageSupervisor, approval.Approve, f.supervisor))
	assert.EqualError(t, err, "policy store down")
	assert.False(t, approval.IsInvalidTransition(err))
}

func TestParse(t *testing.T) {
	_, err := approval.ParseStage("finance")
	assert.ErrorIs(t, err, approvalerrors.ErrInvalidStage)
	_, err = approval.ParseDecision("maybe")
	assert.ErrorIs(t, err, approvalerrors.ErrInvalidDecision)

	s, err := approval.ParseStage("hr")
	assert.NoError(t, err)
	assert.Equal(t, approval.StageHR, s)
}
