package positionstore

import (
	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Position) (id string, err error)
	GetByID(companyID, id string) (rec *dbmodels.Position, err error)
	GetByCode(companyID, code string) (rec *dbmodels.Position, err error)
	Update(companyID, id string, updMap map[string]interface{}) error
	ListByDepartment(companyID, departmentID string) (list []dbmodels.Position, err error)
	ListByReportsTo(companyID, positionID string) (list []dbmodels.Position, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Position) (id string, err error) {
	if err = rec.Validate(); err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания должности")
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.Position, error) {
	rec := dbmodels.Position{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByCode(companyID, code string) (*dbmodels.Position, error) {
	rec := dbmodels.Position{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("code = ?", code).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(companyID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Position{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// ListByReportsTo - прямые подчинённые должности
func (i impl) ListByReportsTo(companyID, positionID string) (list []dbmodels.Position, err error) {
	list = []dbmodels.Position{}
	err = i.db.
		Where("company_id = ?", companyID).
		Where("reports_to_position_id = ?", positionID).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListByDepartment(companyID, departmentID string) (list []dbmodels.Position, err error) {
	list = []dbmodels.Position{}
	err = i.db.
		Where("company_id = ?", companyID).
		Where("department_id = ?", departmentID).
		Where("status = ?", models.OrgUnitStatusActive).
		Order("level ASC").
		Order("title ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
