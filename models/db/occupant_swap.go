package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"mfg-ops-backend/models"

	"github.com/pkg/errors"
)

// OccupantSwapRequest - заявка на ротацию двух должностей,
// статус меняется координатором по мере выполнения шагов
type OccupantSwapRequest struct {
	BaseCompanyModel
	PositionAID         string              `gorm:"type:varchar(36);index"`
	PositionBID         string              `gorm:"type:varchar(36);index"`
	Reason              string              `gorm:"type:varchar(500)"`
	Notes               string              `gorm:"type:varchar(1000)"`
	EffectiveDate       time.Time
	RequestedBy         string              `gorm:"type:varchar(36)"`
	Status              models.SwapStatus   `gorm:"type:varchar(30);index"`
	ReassignmentDetails ReassignmentDetails `gorm:"type:jsonb"`
}

type ReassignmentDetails struct {
	TasksReassigned      int      `json:"tasks_reassigned"`
	ProjectsUpdated      int      `json:"projects_updated"`
	ApprovalsTransferred int      `json:"approvals_transferred"`
	Errors               []string `json:"errors"`
}

func (r ReassignmentDetails) Value() (driver.Value, error) {
	valueString, err := json.Marshal(r)
	return string(valueString), err
}

func (r *ReassignmentDetails) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &r); err != nil {
		return err
	}
	return nil
}

func (s *OccupantSwapRequest) Validate() error {
	if err := s.BaseCompanyModel.Validate(); err != nil {
		return err
	}
	if s.PositionAID == "" || s.PositionBID == "" {
		return errors.New("не указаны должности для ротации")
	}
	if s.PositionAID == s.PositionBID {
		return errors.New("нельзя выполнить ротацию должности с самой собой")
	}
	if s.RequestedBy == "" {
		return errors.New("не указан инициатор ротации")
	}
	return nil
}
