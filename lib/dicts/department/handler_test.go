package departmentprovider

import (
	"fmt"
	"testing"

	"mfg-ops-backend/models"
	dictapimodels "mfg-ops-backend/models/api/dict"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records map[string]*dbmodels.Department
	seq     int
	updates map[string]map[string]interface{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]*dbmodels.Department{},
		updates: map[string]map[string]interface{}{},
	}
}

func (f *fakeStore) add(id, parentID, code string) {
	f.records[id] = &dbmodels.Department{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			CompanyID: "c1",
		},
		ParentID: parentID,
		Name:     "Подразделение " + id,
		Code:     code,
		Status:   models.OrgUnitStatusActive,
	}
}

func (f *fakeStore) Create(rec dbmodels.Department) (string, error) {
	f.seq++
	id := fmt.Sprintf("d%v", f.seq)
	rec.ID = id
	f.records[id] = &rec
	return id, nil
}

func (f *fakeStore) GetByID(companyID, id string) (*dbmodels.Department, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeStore) GetByCode(companyID, code string) (*dbmodels.Department, error) {
	for _, rec := range f.records {
		if rec.CompanyID == companyID && rec.Code == code {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Update(companyID, id string, updMap map[string]interface{}) error {
	rec, ok := f.records[id]
	if !ok {
		return errors.New("запись не найдена")
	}
	f.updates[id] = updMap
	if parentID, ok := updMap["parent_id"]; ok {
		rec.ParentID = parentID.(string)
	}
	if status, ok := updMap["status"]; ok {
		rec.Status = status.(models.OrgUnitStatus)
	}
	return nil
}

func (f *fakeStore) List(companyID string) ([]dbmodels.Department, error) {
	list := []dbmodels.Department{}
	for _, rec := range f.records {
		if rec.CompanyID == companyID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func TestDepartment(t *testing.T) {
	t.Run(`create rejects duplicate code`, func(t *testing.T) {
		store := newFakeStore()
		store.add("d1", "", "ASSEMBLY")
		handler := impl{store: store}
		_, err := handler.Create("c1", dictapimodels.DepartmentData{
			Name: "Сборочный цех",
			Code: "ASSEMBLY",
		})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run(`create rejects missing parent`, func(t *testing.T) {
		store := newFakeStore()
		handler := impl{store: store}
		_, err := handler.Create("c1", dictapimodels.DepartmentData{
			Name:     "Сборочный цех",
			Code:     "ASSEMBLY",
			ParentID: "missing",
		})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run(`reparent to own descendant is rejected`, func(t *testing.T) {
		// d1 -> d2 -> d3
		store := newFakeStore()
		store.add("d1", "", "ROOT")
		store.add("d2", "d1", "SHOP")
		store.add("d3", "d2", "LINE")
		handler := impl{store: store}
		err := handler.Update("c1", "d1", dictapimodels.DepartmentData{
			Name:     "Подразделение d1",
			ParentID: "d3",
		})
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrValidation))
		require.Equal(t, "", store.records["d1"].ParentID)
	})

	t.Run(`reparent to sibling branch passes`, func(t *testing.T) {
		store := newFakeStore()
		store.add("d1", "", "ROOT")
		store.add("d2", "d1", "SHOP")
		store.add("d3", "d1", "LINE")
		handler := impl{store: store}
		err := handler.Update("c1", "d3", dictapimodels.DepartmentData{
			Name:     "Подразделение d3",
			ParentID: "d2",
		})
		require.Nil(t, err)
		require.Equal(t, "d2", store.records["d3"].ParentID)
	})

	t.Run(`tree nests children under roots`, func(t *testing.T) {
		store := newFakeStore()
		store.add("d1", "", "ROOT")
		store.add("d2", "d1", "SHOP")
		store.add("d3", "d2", "LINE")
		handler := impl{store: store}
		tree, err := handler.GetTree("c1")
		require.Nil(t, err)
		require.Len(t, tree, 1)
		require.Equal(t, "d1", tree[0].ID)
		require.Len(t, tree[0].SubUnits, 1)
		require.Equal(t, "d2", tree[0].SubUnits[0].ID)
		require.Len(t, tree[0].SubUnits[0].SubUnits, 1)
		require.Equal(t, "d3", tree[0].SubUnits[0].SubUnits[0].ID)
	})

	t.Run(`deactivate keeps the record`, func(t *testing.T) {
		store := newFakeStore()
		store.add("d1", "", "ROOT")
		handler := impl{store: store}
		require.Nil(t, handler.Deactivate("c1", "d1"))
		require.Equal(t, models.OrgUnitStatusInactive, store.records["d1"].Status)
		_, err := handler.Get("c1", "d1")
		require.Nil(t, err)
	})

	t.Run(`foreign company does not see the record`, func(t *testing.T) {
		store := newFakeStore()
		store.add("d1", "", "ROOT")
		handler := impl{store: store}
		_, err := handler.Get("c2", "d1")
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrNotFound))
	})
}
