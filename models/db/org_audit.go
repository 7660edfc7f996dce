package dbmodels

import (
	"mfg-ops-backend/models"

	"github.com/pkg/errors"
)

// OrgAuditLogEntry - неизменяемый журнал изменений назначений и делегирований,
// (company_id, sequence) задаёт полный порядок записей
type OrgAuditLogEntry struct {
	BaseCompanyModel
	Sequence   int64              `gorm:"autoIncrement;uniqueIndex"`
	Actor      string             `gorm:"type:varchar(36)"`
	Action     models.AuditAction `gorm:"type:varchar(50);index"`
	ObjectType string             `gorm:"type:varchar(50)"`
	ObjectID   string             `gorm:"type:varchar(36);index"`
	Changes    EntityChanges      `gorm:"type:jsonb"`
}

func (e *OrgAuditLogEntry) Validate() error {
	if err := e.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if e.Action == "" {
		return errors.New("не указано действие")
	}
	return nil
}
