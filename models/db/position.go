package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"mfg-ops-backend/models"

	"github.com/pkg/errors"
)

type Position struct {
	BaseCompanyModel
	DepartmentID        string               `gorm:"type:varchar(36);index"`
	Title               string               `gorm:"type:varchar(255)"`
	Code                string               `gorm:"type:varchar(50);index"` // уникальность в рамках компании обеспечивает индекс в миграции
	Level               int                  // 1 - верхний уровень
	ReportsToPositionID string               `gorm:"type:varchar(36);index"`
	ApprovalAuthority   ApprovalAuthority    `gorm:"type:jsonb"`
	Status              models.OrgUnitStatus `gorm:"type:varchar(20);default:'active'"`
}

type ApprovalAuthority struct {
	ExpenseCeiling     float64 `json:"expense_ceiling"`      // лимит одобряемых расходов
	CanApproveTimeOff  bool    `json:"can_approve_time_off"`
	CanApproveProjects bool    `json:"can_approve_projects"`
}

func (a ApprovalAuthority) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}

func (a *ApprovalAuthority) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &a); err != nil {
		return err
	}
	return nil
}

func (p *Position) Validate() error {
	if err := p.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if p.DepartmentID == "" {
		return errors.New("отсутсвует ссылка на подразделение")
	}
	if p.Title == "" {
		return errors.New("не указано название должности")
	}
	if p.Code == "" {
		return errors.New("не указан код должности")
	}
	if p.Level < 1 {
		return errors.New("уровень должности должен быть не меньше 1")
	}
	if p.ReportsToPositionID == p.ID && p.ID != "" {
		return errors.New("должность не может подчиняться самой себе")
	}
	return nil
}
