package delegationexpireworker

import (
	"context"
	"fmt"
	"testing"
	"time"

	orgevents "mfg-ops-backend/lib/org-events"
	baseworker "mfg-ops-backend/lib/utils/base-worker"
	"mfg-ops-backend/models"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeDelegationStore struct {
	expired   []dbmodels.Delegation
	updateErr error
	listCalls int
	updated   map[string]models.DelegationStatus
}

func newFakeDelegationStore(expiredCount int) *fakeDelegationStore {
	f := &fakeDelegationStore{updated: map[string]models.DelegationStatus{}}
	for idx := 0; idx < expiredCount; idx++ {
		f.expired = append(f.expired, dbmodels.Delegation{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				BaseModel: dbmodels.BaseModel{ID: fmt.Sprintf("del-%v", idx)},
				CompanyID: "c1",
			},
			DelegatorPositionID: "p1",
			DelegatorUserID:     "user-a",
			DelegateUserID:      "user-b",
			EndAt:               time.Now().Add(-time.Hour),
			Status:              models.DelegationStatusActive,
		})
	}
	return f
}

func (f *fakeDelegationStore) Create(rec dbmodels.Delegation) (string, error) {
	return "", nil
}

func (f *fakeDelegationStore) GetByID(companyID, id string) (*dbmodels.Delegation, error) {
	return nil, nil
}

func (f *fakeDelegationStore) Update(companyID, id string, updMap map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = updMap["status"].(models.DelegationStatus)
	remaining := f.expired[:0]
	for _, rec := range f.expired {
		if rec.ID != id {
			remaining = append(remaining, rec)
		}
	}
	f.expired = remaining
	return nil
}

func (f *fakeDelegationStore) ListActiveByPosition(companyID, positionID string, at time.Time) ([]dbmodels.Delegation, error) {
	return nil, nil
}

func (f *fakeDelegationStore) ListByPosition(companyID, positionID string) ([]dbmodels.Delegation, error) {
	return nil, nil
}

func (f *fakeDelegationStore) ListExpiredActive(limit int) ([]dbmodels.Delegation, error) {
	f.listCalls++
	if len(f.expired) > limit {
		return append([]dbmodels.Delegation{}, f.expired[:limit]...), nil
	}
	return append([]dbmodels.Delegation{}, f.expired...), nil
}

type fakeAudit struct {
	actions []models.AuditAction
}

func (f *fakeAudit) Log(companyID, actor string, action models.AuditAction, objectType, objectID string, changes dbmodels.EntityChanges) {
	f.actions = append(f.actions, action)
}

func (f *fakeAudit) List(companyID string, page, limit int) ([]orgapimodels.AuditEntryView, int64, error) {
	return nil, 0, nil
}

func (f *fakeAudit) Count(companyID string) (int64, error) {
	return 0, nil
}

type fakeEvents struct {
	published []orgevents.Event
}

func (f *fakeEvents) Publish(event orgevents.Event) {
	f.published = append(f.published, event)
}

func (f *fakeEvents) Subscribe(name string, subscriber orgevents.Subscriber) {}

func newTestWorker(store *fakeDelegationStore) (worker, *fakeAudit, *fakeEvents) {
	audit := &fakeAudit{}
	events := &fakeEvents{}
	w := worker{
		BaseImpl: *baseworker.NewInstance("delegation_expire", 0, 0),
		store:    store,
		audit:    audit,
		events:   events,
	}
	return w, audit, events
}

func TestExpireJob(t *testing.T) {
	ctx := context.Background()

	t.Run(`expired delegations are flipped with audit and events`, func(t *testing.T) {
		store := newFakeDelegationStore(2)
		w, audit, events := newTestWorker(store)
		w.job(ctx)
		require.Len(t, store.updated, 2)
		for _, status := range store.updated {
			require.Equal(t, models.DelegationStatusExpired, status)
		}
		require.Equal(t, []models.AuditAction{
			models.AuditActionDelegationExpired,
			models.AuditActionDelegationExpired,
		}, audit.actions)
		require.Len(t, events.published, 2)
		require.Equal(t, orgevents.EventDelegationChanged, events.published[0].Type)
	})

	t.Run(`full batch continues to the next one`, func(t *testing.T) {
		store := newFakeDelegationStore(batchSize + 10)
		w, _, events := newTestWorker(store)
		w.job(ctx)
		require.Len(t, store.updated, batchSize+10)
		require.Len(t, events.published, batchSize+10)
		require.Equal(t, 2, store.listCalls)
	})

	t.Run(`persistent update failure stops the pass`, func(t *testing.T) {
		store := newFakeDelegationStore(batchSize)
		store.updateErr = errors.New("БД недоступна")
		w, audit, _ := newTestWorker(store)
		w.job(ctx)
		// без прогресса выборка не повторяется в том же запуске
		require.Equal(t, 1, store.listCalls)
		require.Empty(t, store.updated)
		require.Empty(t, audit.actions)
	})
}
