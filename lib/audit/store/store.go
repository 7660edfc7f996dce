package orgauditstore

import (
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.OrgAuditLogEntry) (id string, err error)
	List(companyID string, page, limit int) (list []dbmodels.OrgAuditLogEntry, rowCount int64, err error)
	CountByCompany(companyID string) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.OrgAuditLogEntry) (id string, err error) {
	if err = rec.Validate(); err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка записи в журнал аудита")
	}
	return rec.ID, nil
}

func (i impl) List(companyID string, page, limit int) (list []dbmodels.OrgAuditLogEntry, rowCount int64, err error) {
	list = []dbmodels.OrgAuditLogEntry{}
	tx := i.db.
		Model(&dbmodels.OrgAuditLogEntry{}).
		Where("company_id = ?", companyID)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	err = tx.
		Order("sequence DESC").
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

func (i impl) CountByCompany(companyID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.OrgAuditLogEntry{}).
		Where("company_id = ?", companyID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
