package positionprovider

import (
	"mfg-ops-backend/db"
	departmentstore "mfg-ops-backend/lib/dicts/department/store"
	positionstore "mfg-ops-backend/lib/dicts/position/store"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	"mfg-ops-backend/models"
	dictapimodels "mfg-ops-backend/models/api/dict"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(companyID string, request dictapimodels.PositionData) (id string, err error)
	Update(companyID, id string, request dictapimodels.PositionData) error
	Get(companyID, id string) (item dictapimodels.PositionView, err error)
	ListByDepartment(companyID, departmentID string) (list []dictapimodels.PositionView, err error)
	Deactivate(companyID, id string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:           positionstore.NewInstance(db.DB),
		departmentStore: departmentstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
		"departmentStore", instance.departmentStore,
	)
	Instance = instance
}

type impl struct {
	store           positionstore.Provider
	departmentStore departmentstore.Provider
}

func (i impl) Create(companyID string, request dictapimodels.PositionData) (id string, err error) {
	logger := log.WithField("company_id", companyID)
	department, err := i.departmentStore.GetByID(companyID, request.DepartmentID)
	if err != nil {
		return "", err
	}
	if department == nil {
		return "", errors.Wrap(models.ErrNotFound, "подразделение не найдено")
	}
	existing, err := i.store.GetByCode(companyID, request.Code)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errors.Wrapf(models.ErrValidation, "должность с кодом %v уже существует", request.Code)
	}
	if err = i.checkReporting(companyID, "", request.ReportsToPositionID, request.Level); err != nil {
		return "", err
	}
	rec := dbmodels.Position{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: companyID,
		},
		DepartmentID:        request.DepartmentID,
		Title:               request.Title,
		Code:                request.Code,
		Level:               request.Level,
		ReportsToPositionID: request.ReportsToPositionID,
		ApprovalAuthority:   request.ApprovalAuthority,
		Status:              models.OrgUnitStatusActive,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	logger.
		WithField("position_title", rec.Title).
		WithField("rec_id", id).
		Info("создана должность")
	return id, nil
}

func (i impl) Update(companyID, id string, request dictapimodels.PositionData) error {
	logger := log.WithField("company_id", companyID).
		WithField("rec_id", id)
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "должность не найдена")
	}
	if err = i.checkReporting(companyID, id, request.ReportsToPositionID, request.Level); err != nil {
		return err
	}
	if request.Level != rec.Level {
		if err = i.checkDirectReports(companyID, id, request.Level); err != nil {
			return err
		}
	}
	updMap := map[string]interface{}{
		"title":                  request.Title,
		"level":                  request.Level,
		"reports_to_position_id": request.ReportsToPositionID,
		"approval_authority":     request.ApprovalAuthority,
	}
	err = i.store.Update(companyID, id, updMap)
	if err != nil {
		return err
	}
	logger.Info("обновлена должность")
	return nil
}

func (i impl) Get(companyID, id string) (item dictapimodels.PositionView, err error) {
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return dictapimodels.PositionView{}, err
	}
	if rec == nil {
		return dictapimodels.PositionView{}, errors.Wrap(models.ErrNotFound, "должность не найдена")
	}
	return dictapimodels.PositionConvert(*rec), nil
}

func (i impl) ListByDepartment(companyID, departmentID string) (list []dictapimodels.PositionView, err error) {
	recList, err := i.store.ListByDepartment(companyID, departmentID)
	if err != nil {
		return nil, err
	}
	list = make([]dictapimodels.PositionView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, dictapimodels.PositionConvert(rec))
	}
	return list, nil
}

func (i impl) Deactivate(companyID, id string) error {
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "должность не найдена")
	}
	err = i.store.Update(companyID, id, map[string]interface{}{
		"status": models.OrgUnitStatusInactive,
	})
	if err != nil {
		return err
	}
	log.WithField("company_id", companyID).
		WithField("rec_id", id).
		Info("деактивирована должность")
	return nil
}

// checkDirectReports проверяет что смена уровня не нарушает инвариант
// для уже подчинённых должностей: их уровень должен оставаться
// не меньше нового уровня руководителя + 1
func (i impl) checkDirectReports(companyID, id string, level int) error {
	reports, err := i.store.ListByReportsTo(companyID, id)
	if err != nil {
		return err
	}
	for _, report := range reports {
		if report.Level < level+1 {
			return errors.Wrapf(models.ErrValidation,
				"уровень подчинённой должности %v меньше %v", report.Code, level+1)
		}
	}
	return nil
}

// checkReporting проверяет инварианты подчинения:
// граф подчинения без циклов, уровень должности не выше уровня руководителя + 1
func (i impl) checkReporting(companyID, id, reportsToID string, level int) error {
	if reportsToID == "" {
		return nil
	}
	if reportsToID == id {
		return errors.Wrap(models.ErrValidation, "должность не может подчиняться самой себе")
	}
	parent, err := i.store.GetByID(companyID, reportsToID)
	if err != nil {
		return err
	}
	if parent == nil {
		return errors.Wrap(models.ErrNotFound, "руководящая должность не найдена")
	}
	if level < parent.Level+1 {
		return errors.Wrapf(models.ErrValidation, "уровень должности должен быть не меньше %v", parent.Level+1)
	}
	// подъём по цепочке подчинения до корня
	visited := map[string]bool{}
	if id != "" {
		visited[id] = true
	}
	currentID := reportsToID
	for currentID != "" {
		if visited[currentID] {
			return errors.Wrap(models.ErrValidation, "граф подчинения не может содержать цикл")
		}
		visited[currentID] = true
		current, err := i.store.GetByID(companyID, currentID)
		if err != nil {
			return err
		}
		if current == nil {
			break
		}
		currentID = current.ReportsToPositionID
	}
	return nil
}
