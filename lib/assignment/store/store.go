package assignmentstore

import (
	"strings"
	"time"

	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.PositionAssignment) (id string, err error)
	GetByID(companyID, id string) (rec *dbmodels.PositionAssignment, err error)
	GetActiveByPosition(companyID, positionID string) (rec *dbmodels.PositionAssignment, err error)
	GetActiveByPositionForUpdate(companyID, positionID string) (rec *dbmodels.PositionAssignment, err error)
	Update(companyID, id string, updMap map[string]interface{}) error
	EndActive(companyID, id string, endAt time.Time) (updated bool, err error)
	History(companyID, positionID string, page, limit int) (list []dbmodels.PositionAssignment, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PositionAssignment) (id string, err error) {
	if err = rec.Validate(); err != nil {
		return "", err
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		// частичный уникальный индекс: не более одного активного назначения на должность
		if strings.Contains(err.Error(), "(SQLSTATE 23505)") {
			return "", errors.Wrap(models.ErrConflict, "активное назначение на должность уже существует")
		}
		return "", errors.Wrap(err, "ошибка создания назначения")
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.PositionAssignment, error) {
	rec := dbmodels.PositionAssignment{}
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

func (i impl) GetActiveByPosition(companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	return i.getActive(i.db, companyID, positionID)
}

// GetActiveByPositionForUpdate блокирует активную строку до конца транзакции,
// вызывать только внутри транзакции
func (i impl) GetActiveByPositionForUpdate(companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	return i.getActive(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), companyID, positionID)
}

func (i impl) getActive(tx *gorm.DB, companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	rec := dbmodels.PositionAssignment{}
	err := tx.
		Where("company_id = ?", companyID).
		Where("position_id = ?", positionID).
		Where("status = ?", models.AssignmentStatusActive).
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
		Model(&dbmodels.PositionAssignment{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// EndActive переводит назначение в ended со статусной проверкой в самом
// запросе: если строка уже не активна, обновления не происходит и
// возвращается false. Защита от гонки проверка-потом-запись
func (i impl) EndActive(companyID, id string, endAt time.Time) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.PositionAssignment{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Where("status = ?", models.AssignmentStatusActive).
		Updates(map[string]interface{}{
			"status": models.AssignmentStatusEnded,
			"end_at": endAt,
		})
	if tx.Error != nil {
		return false, errors.Wrap(tx.Error, "ошибка завершения назначения")
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) History(companyID, positionID string, page, limit int) (list []dbmodels.PositionAssignment, rowCount int64, err error) {
	list = []dbmodels.PositionAssignment{}
	tx := i.db.
		Model(&dbmodels.PositionAssignment{}).
		Where("company_id = ?", companyID).
		Where("position_id = ?", positionID)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	err = tx.
		Order("start_at DESC").
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
