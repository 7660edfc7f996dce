package dbmodels

import (
	"time"

	"mfg-ops-backend/models"

	"github.com/pkg/errors"
)

// PositionAssignment - запись журнала назначений, записи не удаляются,
// активной для должности может быть не более одной (частичный уникальный индекс в миграции)
type PositionAssignment struct {
	BaseCompanyModel
	PositionID     string                  `gorm:"type:varchar(36);index"`
	UserID         string                  `gorm:"type:varchar(36);index"`
	AssignmentType models.AssignmentType   `gorm:"type:varchar(20)"`
	StartAt        time.Time               `gorm:"index"`
	EndAt          *time.Time              // nil - бессрочное
	Status         models.AssignmentStatus `gorm:"type:varchar(20);index"`
	Reason         string                  `gorm:"type:varchar(500)"`
	Notes          string                  `gorm:"type:varchar(1000)"`
	CreatedBy      string                  `gorm:"type:varchar(36)"`
}

func (a *PositionAssignment) Validate() error {
	if err := a.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if a.PositionID == "" {
		return errors.New("отсутсвует ссылка на должность")
	}
	if a.UserID == "" {
		return errors.New("не указан сотрудник")
	}
	if !a.AssignmentType.IsValid() {
		return errors.New("не указан тип назначения")
	}
	if a.EndAt != nil && !a.EndAt.After(a.StartAt) {
		return errors.New("дата окончания должна быть позже даты начала")
	}
	return nil
}

func (a PositionAssignment) IsActive() bool {
	return a.Status == models.AssignmentStatusActive
}
