package delegationstore

import (
	"time"

	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Delegation) (id string, err error)
	GetByID(companyID, id string) (rec *dbmodels.Delegation, err error)
	Update(companyID, id string, updMap map[string]interface{}) error
	ListActiveByPosition(companyID, positionID string, at time.Time) (list []dbmodels.Delegation, err error)
	ListByPosition(companyID, positionID string) (list []dbmodels.Delegation, err error)
	ListExpiredActive(limit int) (list []dbmodels.Delegation, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Delegation) (id string, err error) {
	if err = rec.Validate(); err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания делегирования")
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.Delegation, error) {
	rec := dbmodels.Delegation{}
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

func (i impl) Update(companyID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Delegation{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// ListActiveByPosition - активные делегирования, чей интервал [start_at, end_at)
// содержит момент at, отсортированы от самых свежих
func (i impl) ListActiveByPosition(companyID, positionID string, at time.Time) (list []dbmodels.Delegation, err error) {
	list = []dbmodels.Delegation{}
	err = i.db.
		Where("company_id = ?", companyID).
		Where("delegator_position_id = ?", positionID).
		Where("status = ?", models.DelegationStatusActive).
		Where("start_at <= ?", at).
		Where("end_at > ?", at).
		Order("created_at DESC").
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

func (i impl) ListByPosition(companyID, positionID string) (list []dbmodels.Delegation, err error) {
	list = []dbmodels.Delegation{}
	err = i.db.
		Where("company_id = ?", companyID).
		Where("delegator_position_id = ?", positionID).
		Order("start_at DESC").
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

// ListExpiredActive - активные делегирования с истёкшим сроком, для воркера
func (i impl) ListExpiredActive(limit int) (list []dbmodels.Delegation, err error) {
	list = []dbmodels.Delegation{}
	err = i.db.
		Where("status = ?", models.DelegationStatusActive).
		Where("end_at <= ?", time.Now()).
		Limit(limit).
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
