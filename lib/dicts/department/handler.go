package departmentprovider

import (
	"mfg-ops-backend/db"
	departmentstore "mfg-ops-backend/lib/dicts/department/store"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	"mfg-ops-backend/models"
	dictapimodels "mfg-ops-backend/models/api/dict"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(companyID string, request dictapimodels.DepartmentData) (id string, err error)
	Update(companyID, id string, request dictapimodels.DepartmentData) error
	Get(companyID, id string) (item dictapimodels.DepartmentView, err error)
	GetTree(companyID string) (tree []dictapimodels.DepartmentTreeItem, err error)
	Deactivate(companyID, id string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store: departmentstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
}

type impl struct {
	store departmentstore.Provider
}

func (i impl) Create(companyID string, request dictapimodels.DepartmentData) (id string, err error) {
	logger := log.WithField("company_id", companyID)
	existing, err := i.store.GetByCode(companyID, request.Code)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errors.Wrapf(models.ErrValidation, "подразделение с кодом %v уже существует", request.Code)
	}
	if request.ParentID != "" {
		parent, err := i.store.GetByID(companyID, request.ParentID)
		if err != nil {
			return "", err
		}
		if parent == nil {
			return "", errors.Wrap(models.ErrNotFound, "родительское подразделение не найдено")
		}
	}
	rec := dbmodels.Department{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: companyID,
		},
		ParentID: request.ParentID,
		Name:     request.Name,
		Code:     request.Code,
		Location: request.Location,
		Status:   models.OrgUnitStatusActive,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	logger.
		WithField("department_name", rec.Name).
		WithField("rec_id", id).
		Info("создано подразделение")
	return id, nil
}

func (i impl) Update(companyID, id string, request dictapimodels.DepartmentData) error {
	logger := log.WithField("company_id", companyID).
		WithField("rec_id", id)
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "подразделение не найдено")
	}
	if request.ParentID != "" {
		if err = i.checkCycle(companyID, id, request.ParentID); err != nil {
			return err
		}
	}
	updMap := map[string]interface{}{
		"name":      request.Name,
		"parent_id": request.ParentID,
		"location":  request.Location,
	}
	err = i.store.Update(companyID, id, updMap)
	if err != nil {
		return err
	}
	logger.Info("обновлено подразделение")
	return nil
}

func (i impl) Get(companyID, id string) (item dictapimodels.DepartmentView, err error) {
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return dictapimodels.DepartmentView{}, err
	}
	if rec == nil {
		return dictapimodels.DepartmentView{}, errors.Wrap(models.ErrNotFound, "подразделение не найдено")
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) GetTree(companyID string) (tree []dictapimodels.DepartmentTreeItem, err error) {
	recList, err := i.store.List(companyID)
	if err != nil {
		return nil, err
	}
	tree = []dictapimodels.DepartmentTreeItem{}
	for _, rec := range recList {
		if rec.ParentID != "" {
			continue
		}
		item := dictapimodels.DepartmentTreeItem{
			DepartmentView: dictapimodels.DepartmentConvert(rec),
			SubUnits:       getChildren(rec.ID, recList),
		}
		tree = append(tree, item)
	}
	return tree, nil
}

// Deactivate - мягкая деактивация, записи подразделений не удаляются
func (i impl) Deactivate(companyID, id string) error {
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "подразделение не найдено")
	}
	err = i.store.Update(companyID, id, map[string]interface{}{
		"status": models.OrgUnitStatusInactive,
	})
	if err != nil {
		return err
	}
	log.WithField("company_id", companyID).
		WithField("rec_id", id).
		Info("деактивировано подразделение")
	return nil
}

// checkCycle проверяет что новый родитель не является потомком записи
func (i impl) checkCycle(companyID, id, parentID string) error {
	visited := map[string]bool{id: true}
	currentID := parentID
	for currentID != "" {
		if visited[currentID] {
			return errors.Wrap(models.ErrValidation, "иерархия подразделений не может содержать цикл")
		}
		visited[currentID] = true
		parent, err := i.store.GetByID(companyID, currentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return errors.Wrap(models.ErrNotFound, "родительское подразделение не найдено")
		}
		currentID = parent.ParentID
	}
	return nil
}

func getChildren(parentID string, recList []dbmodels.Department) []dictapimodels.DepartmentTreeItem {
	result := []dictapimodels.DepartmentTreeItem{}
	for _, rec := range recList {
		if rec.ParentID != parentID {
			continue
		}
		item := dictapimodels.DepartmentTreeItem{
			DepartmentView: dictapimodels.DepartmentConvert(rec),
			SubUnits:       getChildren(rec.ID, recList),
		}
		result = append(result, item)
	}
	return result
}
