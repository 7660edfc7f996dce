package assignmenthandler

import (
	"fmt"
	"testing"
	"time"

	assignmentstore "mfg-ops-backend/lib/assignment/store"
	audithandler "mfg-ops-backend/lib/audit"
	orgevents "mfg-ops-backend/lib/org-events"
	"mfg-ops-backend/models"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records map[string]*dbmodels.PositionAssignment
	seq     int
	// имитация конкурентного изменения строки между проверкой и обновлением
	concurrentEnd bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*dbmodels.PositionAssignment{}}
}

func (f *fakeStore) addActive(positionID, userID string) string {
	f.seq++
	id := fmt.Sprintf("a%v", f.seq)
	f.records[id] = &dbmodels.PositionAssignment{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			CompanyID: "c1",
		},
		PositionID: positionID,
		UserID:     userID,
		Status:     models.AssignmentStatusActive,
	}
	return id
}

func (f *fakeStore) Create(rec dbmodels.PositionAssignment) (string, error) {
	for _, existing := range f.records {
		if existing.PositionID == rec.PositionID && existing.Status == models.AssignmentStatusActive {
			return "", errors.Wrap(models.ErrConflict, "активное назначение на должность уже существует")
		}
	}
	f.seq++
	rec.ID = fmt.Sprintf("a%v", f.seq)
	f.records[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeStore) GetByID(companyID, id string) (*dbmodels.PositionAssignment, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeStore) GetActiveByPosition(companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	for _, rec := range f.records {
		if rec.CompanyID == companyID && rec.PositionID == positionID && rec.Status == models.AssignmentStatusActive {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetActiveByPositionForUpdate(companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	return f.GetActiveByPosition(companyID, positionID)
}

func (f *fakeStore) Update(companyID, id string, updMap map[string]interface{}) error {
	rec, ok := f.records[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	if status, ok := updMap["status"]; ok {
		rec.Status = status.(models.AssignmentStatus)
	}
	if endAt, ok := updMap["end_at"]; ok {
		endTime := endAt.(time.Time)
		rec.EndAt = &endTime
	}
	return nil
}

func (f *fakeStore) EndActive(companyID, id string, endAt time.Time) (bool, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return false, nil
	}
	if f.concurrentEnd || rec.Status != models.AssignmentStatusActive {
		return false, nil
	}
	rec.Status = models.AssignmentStatusEnded
	rec.EndAt = &endAt
	return true, nil
}

func (f *fakeStore) History(companyID, positionID string, page, limit int) ([]dbmodels.PositionAssignment, int64, error) {
	return nil, 0, nil
}

type fakePositions struct {
	records map[string]*dbmodels.Position
}

func (f *fakePositions) Create(rec dbmodels.Position) (string, error) {
	return "", nil
}

func (f *fakePositions) GetByID(companyID, id string) (*dbmodels.Position, error) {
	return f.records[id], nil
}

func (f *fakePositions) GetByCode(companyID, code string) (*dbmodels.Position, error) {
	return nil, nil
}

func (f *fakePositions) Update(companyID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakePositions) ListByDepartment(companyID, departmentID string) ([]dbmodels.Position, error) {
	return nil, nil
}

func (f *fakePositions) ListByReportsTo(companyID, positionID string) ([]dbmodels.Position, error) {
	return nil, nil
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

type ledgerFixture struct {
	store     *fakeStore
	positions *fakePositions
	audit     *fakeAudit
	events    *fakeEvents
	handler   impl
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		store: newFakeStore(),
		positions: &fakePositions{records: map[string]*dbmodels.Position{
			"p1": {
				BaseCompanyModel: dbmodels.BaseCompanyModel{
					BaseModel: dbmodels.BaseModel{ID: "p1"},
					CompanyID: "c1",
				},
				Title:  "Мастер участка",
				Status: models.OrgUnitStatusActive,
			},
		}},
		audit:  &fakeAudit{},
		events: &fakeEvents{},
	}
	f.handler = impl{
		store:         f.store,
		positionStore: f.positions,
		audit:         f.audit,
		events:        f.events,
		runTx: func(fn func(store assignmentstore.Provider, audit audithandler.Provider) error) error {
			return fn(f.store, f.audit)
		},
	}
	return f
}

func TestAssign(t *testing.T) {
	t.Run(`new assignment ends the current one`, func(t *testing.T) {
		f := newLedgerFixture()
		currentID := f.store.addActive("p1", "user-a")
		view, err := f.handler.Assign("c1", "p1", orgapimodels.AssignmentData{UserID: "user-b"}, "admin")
		require.Nil(t, err)
		require.Equal(t, "user-b", view.UserID)
		require.Equal(t, models.AssignmentStatusActive, view.Status)
		require.Equal(t, models.AssignmentStatusEnded, f.store.records[currentID].Status)
		require.NotNil(t, f.store.records[currentID].EndAt)
		// каждая мутация журнала оставляет записи аудита
		require.Equal(t, []models.AuditAction{
			models.AuditActionAssignmentEnded,
			models.AuditActionAssignmentCreated,
		}, f.audit.actions)
		require.Len(t, f.events.published, 1)
		require.Equal(t, orgevents.EventAssignmentChanged, f.events.published[0].Type)
		require.Equal(t, "user-a", f.events.published[0].OldUserID)
		require.Equal(t, "user-b", f.events.published[0].NewUserID)
	})

	t.Run(`vacant position without ending`, func(t *testing.T) {
		f := newLedgerFixture()
		view, err := f.handler.Assign("c1", "p1", orgapimodels.AssignmentData{UserID: "user-a"}, "admin")
		require.Nil(t, err)
		require.Equal(t, "user-a", view.UserID)
		require.Equal(t, []models.AuditAction{models.AuditActionAssignmentCreated}, f.audit.actions)
	})

	t.Run(`inactive position is rejected`, func(t *testing.T) {
		f := newLedgerFixture()
		f.positions.records["p1"].Status = models.OrgUnitStatusInactive
		_, err := f.handler.Assign("c1", "p1", orgapimodels.AssignmentData{UserID: "user-a"}, "admin")
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
		require.Empty(t, f.audit.actions)
		require.Empty(t, f.events.published)
	})

	t.Run(`empty user is rejected`, func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.handler.Assign("c1", "p1", orgapimodels.AssignmentData{}, "admin")
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
	})
}

func TestEnd(t *testing.T) {
	t.Run(`active assignment is ended with audit`, func(t *testing.T) {
		f := newLedgerFixture()
		id := f.store.addActive("p1", "user-a")
		err := f.handler.End("c1", id, nil, "admin")
		require.Nil(t, err)
		require.Equal(t, models.AssignmentStatusEnded, f.store.records[id].Status)
		require.Equal(t, []models.AuditAction{models.AuditActionAssignmentEnded}, f.audit.actions)
		require.Len(t, f.events.published, 1)
		require.Equal(t, "user-a", f.events.published[0].OldUserID)
	})

	t.Run(`missing assignment`, func(t *testing.T) {
		f := newLedgerFixture()
		err := f.handler.End("c1", "missing", nil, "admin")
		require.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run(`ended assignment cannot be ended again`, func(t *testing.T) {
		f := newLedgerFixture()
		id := f.store.addActive("p1", "user-a")
		f.store.records[id].Status = models.AssignmentStatusEnded
		err := f.handler.End("c1", id, nil, "admin")
		require.True(t, errors.Is(err, models.ErrInvalidState))
		require.Empty(t, f.audit.actions)
	})

	t.Run(`row changed between check and update`, func(t *testing.T) {
		f := newLedgerFixture()
		id := f.store.addActive("p1", "user-a")
		f.store.concurrentEnd = true
		err := f.handler.End("c1", id, nil, "admin")
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrInvalidState))
		require.Empty(t, f.audit.actions)
		require.Empty(t, f.events.published)
	})
}
