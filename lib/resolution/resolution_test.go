package resolutionhandler

import (
	"context"
	"testing"
	"time"

	orgevents "mfg-ops-backend/lib/org-events"
	resolutionmonitor "mfg-ops-backend/lib/resolution/monitor"
	"mfg-ops-backend/models"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeAssignments struct {
	active map[string]*dbmodels.PositionAssignment
	err    error
	calls  int
	// вызывается после чтения, но до возврата записи
	onGetCurrent func()
}

func (f *fakeAssignments) Assign(companyID, positionID string, request orgapimodels.AssignmentData, actor string) (orgapimodels.AssignmentView, error) {
	return orgapimodels.AssignmentView{}, nil
}

func (f *fakeAssignments) GetCurrentAssignment(companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec := f.active[positionID]
	if f.onGetCurrent != nil {
		f.onGetCurrent()
	}
	return rec, nil
}

func (f *fakeAssignments) GetHistory(companyID, positionID string, pagination apimodels.Pagination) ([]orgapimodels.AssignmentView, int64, error) {
	return nil, 0, nil
}

func (f *fakeAssignments) End(companyID, assignmentID string, endAt *time.Time, actor string) error {
	return nil
}

type fakeDelegations struct {
	active map[string]*dbmodels.Delegation
}

func (f *fakeDelegations) Activate(companyID string, request orgapimodels.DelegationData, actor string) (string, error) {
	return "", nil
}

func (f *fakeDelegations) Revoke(companyID, delegationID, actor string) error {
	return nil
}

func (f *fakeDelegations) GetActiveDelegation(companyID, positionID string, at time.Time) (*dbmodels.Delegation, error) {
	rec := f.active[positionID]
	if rec == nil || !rec.Covers(at) {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeDelegations) ListByPosition(companyID, positionID string) ([]orgapimodels.DelegationView, error) {
	return nil, nil
}

func activeAssignment(positionID, userID string) *dbmodels.PositionAssignment {
	return &dbmodels.PositionAssignment{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: "assignment-" + positionID},
			CompanyID: "c1",
		},
		PositionID: positionID,
		UserID:     userID,
		Status:     models.AssignmentStatusActive,
		StartAt:    time.Now().Add(-time.Hour),
	}
}

func activeDelegation(positionID, delegator, delegate string, start, end time.Time) *dbmodels.Delegation {
	return &dbmodels.Delegation{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: "delegation-" + positionID},
			CompanyID: "c1",
		},
		DelegatorPositionID: positionID,
		DelegatorUserID:     delegator,
		DelegateUserID:      delegate,
		StartAt:             start,
		EndAt:               end,
		Status:              models.DelegationStatusActive,
		Reason:              "отпуск",
	}
}

func newTestImpl(assignments *fakeAssignments, delegations *fakeDelegations) *impl {
	return newImpl(assignments, delegations, resolutionmonitor.NewMonitor(time.Minute), 4)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run(`vacant position resolves to nil`, func(t *testing.T) {
		i := newTestImpl(&fakeAssignments{active: map[string]*dbmodels.PositionAssignment{}}, &fakeDelegations{})
		rec, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.Nil(t, rec)
	})

	t.Run(`no delegation resolves to occupant`, func(t *testing.T) {
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		i := newTestImpl(assignments, &fakeDelegations{})
		rec, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "user-a", rec.UserID)
		require.False(t, rec.IsDelegated)
		require.Equal(t, "assignment-p1", rec.SourceAssignmentID)
	})

	t.Run(`active delegation wins over ledger`, func(t *testing.T) {
		now := time.Now()
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		delegations := &fakeDelegations{active: map[string]*dbmodels.Delegation{
			"p1": activeDelegation("p1", "user-a", "user-b", now.Add(-time.Hour), now.Add(time.Hour)),
		}}
		i := newTestImpl(assignments, delegations)
		rec, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.NotNil(t, rec)
		require.Equal(t, "user-b", rec.UserID)
		require.True(t, rec.IsDelegated)
		require.Equal(t, "user-a", rec.SourceUserID)
	})

	t.Run(`delegation interval boundaries`, func(t *testing.T) {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		delegations := &fakeDelegations{active: map[string]*dbmodels.Delegation{
			"p1": activeDelegation("p1", "user-a", "user-b", start, end),
		}}
		i := newTestImpl(assignments, delegations)

		// начало интервала включительно
		rec, err := i.ResolveAt(ctx, "c1", "p1", start)
		require.Nil(t, err)
		require.Equal(t, "user-b", rec.UserID)

		// конец интервала исключительно
		rec, err = i.ResolveAt(ctx, "c1", "p1", end)
		require.Nil(t, err)
		require.Equal(t, "user-a", rec.UserID)

		rec, err = i.ResolveAt(ctx, "c1", "p1", start.Add(-time.Second))
		require.Nil(t, err)
		require.Equal(t, "user-a", rec.UserID)
	})

	t.Run(`second resolve served from cache`, func(t *testing.T) {
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		i := newTestImpl(assignments, &fakeDelegations{})
		first, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		storeCalls := assignments.calls
		second, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.Equal(t, storeCalls, assignments.calls)
		require.Equal(t, first.UserID, second.UserID)
		require.Equal(t, first.SourceAssignmentID, second.SourceAssignmentID)
	})

	t.Run(`resolve at point in time bypasses cache`, func(t *testing.T) {
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		i := newTestImpl(assignments, &fakeDelegations{})
		_, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		storeCalls := assignments.calls
		_, err = i.ResolveAt(ctx, "c1", "p1", time.Now().Add(-time.Hour))
		require.Nil(t, err)
		require.Greater(t, assignments.calls, storeCalls)
	})

	t.Run(`ledger change event invalidates cache`, func(t *testing.T) {
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		i := newTestImpl(assignments, &fakeDelegations{})
		_, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		storeCalls := assignments.calls

		assignments.active["p1"] = activeAssignment("p1", "user-b")
		i.onLedgerChange(orgevents.Event{
			Type:       orgevents.EventAssignmentChanged,
			CompanyID:  "c1",
			PositionID: "p1",
		})
		rec, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.Greater(t, assignments.calls, storeCalls)
		require.Equal(t, "user-b", rec.UserID)
	})

	t.Run(`invalidation during in-flight resolve is not overwritten`, func(t *testing.T) {
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		i := newTestImpl(assignments, &fakeDelegations{})
		// смена исполнителя коммитится и инвалидирует кэш, пока первое
		// разрешение ещё держит прочитанную до коммита запись
		assignments.onGetCurrent = func() {
			assignments.onGetCurrent = nil
			assignments.active["p1"] = activeAssignment("p1", "user-b")
			i.onLedgerChange(orgevents.Event{
				Type:       orgevents.EventAssignmentChanged,
				CompanyID:  "c1",
				PositionID: "p1",
			})
		}
		first, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.Equal(t, "user-a", first.UserID)

		second, err := i.Resolve(ctx, "c1", "p1")
		require.Nil(t, err)
		require.Equal(t, "user-b", second.UserID)
	})
}

func TestResolveWorkItem(t *testing.T) {
	ctx := context.Background()

	t.Run(`delegation chain is built`, func(t *testing.T) {
		now := time.Now()
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-a"),
		}}
		delegations := &fakeDelegations{active: map[string]*dbmodels.Delegation{
			"p1": activeDelegation("p1", "user-a", "user-b", now.Add(-time.Hour), now.Add(time.Hour)),
		}}
		i := newTestImpl(assignments, delegations)
		result := i.ResolveWorkItem(ctx, "c1", orgapimodels.WorkItemRef{
			ItemType:   models.WorkItemTypeTask,
			ItemID:     "t1",
			PositionID: "p1",
			UserID:     "user-a",
		})
		require.Equal(t, "user-b", result.EffectiveUserID)
		require.Len(t, result.DelegationChain, 1)
		require.Equal(t, "user-a", result.DelegationChain[0].FromUserID)
		require.Equal(t, "user-b", result.DelegationChain[0].ToUserID)
		require.Equal(t, "отпуск", result.DelegationChain[0].Reason)
	})

	t.Run(`resolution failure falls back to original assignee`, func(t *testing.T) {
		assignments := &fakeAssignments{err: errors.New("БД недоступна")}
		i := newTestImpl(assignments, &fakeDelegations{})
		result := i.ResolveWorkItem(ctx, "c1", orgapimodels.WorkItemRef{
			ItemType:   models.WorkItemTypeApproval,
			ItemID:     "a1",
			PositionID: "p1",
			UserID:     "user-a",
		})
		require.Equal(t, "user-a", result.EffectiveUserID)
		require.Empty(t, result.DelegationChain)
	})

	t.Run(`missing position keeps original assignee`, func(t *testing.T) {
		i := newTestImpl(&fakeAssignments{active: map[string]*dbmodels.PositionAssignment{}}, &fakeDelegations{})
		result := i.ResolveWorkItem(ctx, "c1", orgapimodels.WorkItemRef{
			ItemType: models.WorkItemTypeProject,
			ItemID:   "pr1",
			UserID:   "user-a",
		})
		require.Equal(t, "user-a", result.EffectiveUserID)
	})
}

func TestResolveMany(t *testing.T) {
	ctx := context.Background()

	t.Run(`order of results matches request`, func(t *testing.T) {
		assignments := &fakeAssignments{active: map[string]*dbmodels.PositionAssignment{
			"p1": activeAssignment("p1", "user-1"),
			"p2": activeAssignment("p2", "user-2"),
			"p3": activeAssignment("p3", "user-3"),
		}}
		i := newTestImpl(assignments, &fakeDelegations{})
		items := []orgapimodels.WorkItemRef{
			{ItemType: models.WorkItemTypeTask, ItemID: "t1", PositionID: "p3", UserID: "old-3"},
			{ItemType: models.WorkItemTypeTask, ItemID: "t2", PositionID: "p1", UserID: "old-1"},
			{ItemType: models.WorkItemTypeTask, ItemID: "t3", PositionID: "p2", UserID: "old-2"},
			{ItemType: models.WorkItemTypeTask, ItemID: "t4", PositionID: "", UserID: "old-4"},
		}
		results := i.ResolveMany(ctx, "c1", items)
		require.Len(t, results, len(items))
		require.Equal(t, "t1", results[0].ItemID)
		require.Equal(t, "user-3", results[0].EffectiveUserID)
		require.Equal(t, "t2", results[1].ItemID)
		require.Equal(t, "user-1", results[1].EffectiveUserID)
		require.Equal(t, "t3", results[2].ItemID)
		require.Equal(t, "user-2", results[2].EffectiveUserID)
		require.Equal(t, "old-4", results[3].EffectiveUserID)
	})
}
