package dbmodels

import (
	"time"

	"mfg-ops-backend/models"

	"github.com/pkg/errors"
)

// Delegation - временная передача полномочий по должности,
// журнал назначений при этом не изменяется
type Delegation struct {
	BaseCompanyModel
	DelegatorPositionID string                  `gorm:"type:varchar(36);index"`
	DelegatorUserID     string                  `gorm:"type:varchar(36)"`
	DelegateUserID      string                  `gorm:"type:varchar(36)"`
	StartAt             time.Time               `gorm:"index"`
	EndAt               time.Time               `gorm:"index"`
	Status              models.DelegationStatus `gorm:"type:varchar(20);index"`
	Reason              string                  `gorm:"type:varchar(500)"`
}

func (d *Delegation) Validate() error {
	if err := d.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if d.DelegatorPositionID == "" {
		return errors.New("отсутсвует ссылка на должность")
	}
	if d.DelegatorUserID == "" {
		return errors.New("не указан делегирующий сотрудник")
	}
	if d.DelegateUserID == "" {
		return errors.New("не указан замещающий сотрудник")
	}
	if d.DelegateUserID == d.DelegatorUserID {
		return errors.New("сотрудник не может делегировать полномочия самому себе")
	}
	if !d.EndAt.After(d.StartAt) {
		return errors.New("дата окончания должна быть позже даты начала")
	}
	return nil
}

// Covers - попадает ли момент в интервал действия [StartAt, EndAt)
func (d Delegation) Covers(at time.Time) bool {
	return !at.Before(d.StartAt) && at.Before(d.EndAt)
}
