package swapstore

import (
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.OccupantSwapRequest) (id string, err error)
	GetByID(companyID, id string) (rec *dbmodels.OccupantSwapRequest, err error)
	Update(companyID, id string, updMap map[string]interface{}) error
	List(companyID string, page, limit int) (list []dbmodels.OccupantSwapRequest, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.OccupantSwapRequest) (id string, err error) {
	if err = rec.Validate(); err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания заявки на ротацию")
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.OccupantSwapRequest, error) {
	rec := dbmodels.OccupantSwapRequest{}
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
		Model(&dbmodels.OccupantSwapRequest{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(companyID string, page, limit int) (list []dbmodels.OccupantSwapRequest, rowCount int64, err error) {
	list = []dbmodels.OccupantSwapRequest{}
	tx := i.db.
		Model(&dbmodels.OccupantSwapRequest{}).
		Where("company_id = ?", companyID)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	err = tx.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return list, rowCount, nil
}
