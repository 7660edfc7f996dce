package dbmodels

import (
	"mfg-ops-backend/models"

	"github.com/pkg/errors"
)

type Department struct {
	BaseCompanyModel
	ParentID string               `gorm:"type:varchar(36);index"`
	Name     string               `gorm:"type:varchar(255)"`
	Code     string               `gorm:"type:varchar(50);index"` // уникальность в рамках компании обеспечивает индекс в миграции
	Status   models.OrgUnitStatus `gorm:"type:varchar(20);default:'active'"`
	Location string               `gorm:"type:varchar(255)"`
}

func (d *Department) Validate() error {
	if err := d.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if d.Name == "" {
		return errors.New("не указано название подразделения")
	}
	if d.Code == "" {
		return errors.New("не указан код подразделения")
	}
	if d.ParentID == d.ID && d.ID != "" {
		return errors.New("подразделение не может быть родителем самого себя")
	}
	return nil
}
