package positionprovider

import (
	"fmt"
	"testing"

	"mfg-ops-backend/models"
	dictapimodels "mfg-ops-backend/models/api/dict"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakePositionStore struct {
	records map[string]*dbmodels.Position
	seq     int
}

func newFakePositionStore() *fakePositionStore {
	return &fakePositionStore{records: map[string]*dbmodels.Position{}}
}

func (f *fakePositionStore) add(id, reportsTo string, level int) {
	f.records[id] = &dbmodels.Position{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			CompanyID: "c1",
		},
		DepartmentID:        "d1",
		Title:               "Должность " + id,
		Code:                id,
		Level:               level,
		ReportsToPositionID: reportsTo,
		Status:              models.OrgUnitStatusActive,
	}
}

func (f *fakePositionStore) Create(rec dbmodels.Position) (string, error) {
	f.seq++
	id := fmt.Sprintf("p%v", f.seq)
	rec.ID = id
	f.records[id] = &rec
	return id, nil
}

func (f *fakePositionStore) GetByID(companyID, id string) (*dbmodels.Position, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakePositionStore) GetByCode(companyID, code string) (*dbmodels.Position, error) {
	for _, rec := range f.records {
		if rec.CompanyID == companyID && rec.Code == code {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakePositionStore) Update(companyID, id string, updMap map[string]interface{}) error {
	rec, ok := f.records[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	if level, ok := updMap["level"]; ok {
		rec.Level = level.(int)
	}
	if reportsTo, ok := updMap["reports_to_position_id"]; ok {
		rec.ReportsToPositionID = reportsTo.(string)
	}
	return nil
}

func (f *fakePositionStore) ListByDepartment(companyID, departmentID string) ([]dbmodels.Position, error) {
	return nil, nil
}

func (f *fakePositionStore) ListByReportsTo(companyID, positionID string) ([]dbmodels.Position, error) {
	list := []dbmodels.Position{}
	for _, rec := range f.records {
		if rec.CompanyID == companyID && rec.ReportsToPositionID == positionID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

type fakeDepartmentStore struct{}

func (f fakeDepartmentStore) Create(rec dbmodels.Department) (string, error) {
	return "", nil
}

func (f fakeDepartmentStore) GetByID(companyID, id string) (*dbmodels.Department, error) {
	return &dbmodels.Department{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			CompanyID: companyID,
		},
		Status: models.OrgUnitStatusActive,
	}, nil
}

func (f fakeDepartmentStore) GetByCode(companyID, code string) (*dbmodels.Department, error) {
	return nil, nil
}

func (f fakeDepartmentStore) Update(companyID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f fakeDepartmentStore) List(companyID string) ([]dbmodels.Department, error) {
	return nil, nil
}

func updateRequest(rec dbmodels.Position, level int) dictapimodels.PositionData {
	return dictapimodels.PositionData{
		DepartmentID:        rec.DepartmentID,
		Title:               rec.Title,
		Code:                rec.Code,
		Level:               level,
		ReportsToPositionID: rec.ReportsToPositionID,
	}
}

func TestPosition(t *testing.T) {
	t.Run(`level below manager level is rejected`, func(t *testing.T) {
		store := newFakePositionStore()
		store.add("boss", "", 2)
		handler := impl{store: store, departmentStore: fakeDepartmentStore{}}
		_, err := handler.Create("c1", dictapimodels.PositionData{
			DepartmentID:        "d1",
			Title:               "Мастер",
			Code:                "FOREMAN",
			Level:               2,
			ReportsToPositionID: "boss",
		})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run(`reporting cycle is rejected`, func(t *testing.T) {
		// boss -> mid -> leaf, перевод boss под leaf замыкает цикл
		store := newFakePositionStore()
		store.add("boss", "", 1)
		store.add("mid", "boss", 2)
		store.add("leaf", "mid", 3)
		handler := impl{store: store, departmentStore: fakeDepartmentStore{}}
		rec := *store.records["boss"]
		request := updateRequest(rec, 4)
		request.ReportsToPositionID = "leaf"
		err := handler.Update("c1", "boss", request)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run(`raising level above direct reports is rejected`, func(t *testing.T) {
		store := newFakePositionStore()
		store.add("boss", "", 1)
		store.add("mid", "boss", 2)
		handler := impl{store: store, departmentStore: fakeDepartmentStore{}}
		err := handler.Update("c1", "boss", updateRequest(*store.records["boss"], 2))
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
		require.Equal(t, 1, store.records["boss"].Level)
	})

	t.Run(`level change within the invariant passes`, func(t *testing.T) {
		store := newFakePositionStore()
		store.add("boss", "", 1)
		store.add("mid", "boss", 3)
		handler := impl{store: store, departmentStore: fakeDepartmentStore{}}
		err := handler.Update("c1", "boss", updateRequest(*store.records["boss"], 2))
		require.Nil(t, err)
		require.Equal(t, 2, store.records["boss"].Level)
	})

	t.Run(`unchanged level skips the reports check`, func(t *testing.T) {
		store := newFakePositionStore()
		store.add("boss", "", 2)
		// существующее нарушение уровня не блокирует обновление без смены уровня
		store.add("mid", "boss", 2)
		handler := impl{store: store, departmentStore: fakeDepartmentStore{}}
		request := updateRequest(*store.records["boss"], 2)
		request.Title = "Начальник цеха"
		err := handler.Update("c1", "boss", request)
		require.Nil(t, err)
	})
}
