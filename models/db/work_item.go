package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"mfg-ops-backend/models"
)

// Метаданные о применённом делегировании, сохраняются на рабочем элементе
// при назначении фактического исполнителя
type AssignmentInfo struct {
	EffectiveAssignmentID string                 `json:"effective_assignment_id,omitempty"`
	IsDelegated           bool                   `json:"is_delegated"`
	DelegationChain       []DelegationChainEntry `json:"delegation_chain,omitempty"`
	ResolvedAt            time.Time              `json:"resolved_at"`
}

type DelegationChainEntry struct {
	DelegationID string `json:"delegation_id"`
	FromUserID   string `json:"from_user_id"`
	ToUserID     string `json:"to_user_id"`
	Reason       string `json:"reason,omitempty"`
}

func (a AssignmentInfo) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}

func (a *AssignmentInfo) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &a); err != nil {
		return err
	}
	return nil
}

type ProjectTask struct {
	BaseCompanyModel
	ProjectID           string                `gorm:"type:varchar(36);index"`
	Title               string                `gorm:"type:varchar(255)"`
	AssignedPositionID  string                `gorm:"type:varchar(36);index"`
	AssigneeUserID      string                `gorm:"type:varchar(36);index"`
	EffectiveAssigneeID string                `gorm:"type:varchar(36)"`
	AssignmentInfo      AssignmentInfo        `gorm:"type:jsonb"`
	Status              models.WorkItemStatus `gorm:"type:varchar(20);index"`
	DueDate             *time.Time
}

type Project struct {
	BaseCompanyModel
	Name                string                `gorm:"type:varchar(255)"`
	AssignedPositionID  string                `gorm:"type:varchar(36);index"` // должность руководителя проекта
	AssigneeUserID      string                `gorm:"type:varchar(36);index"`
	EffectiveAssigneeID string                `gorm:"type:varchar(36)"`
	AssignmentInfo      AssignmentInfo        `gorm:"type:jsonb"`
	Status              models.WorkItemStatus `gorm:"type:varchar(20);index"`
}

type ApprovalRequest struct {
	BaseCompanyModel
	Subject             string                `gorm:"type:varchar(255)"`
	Amount              float64               // сумма согласуемых расходов
	AssignedPositionID  string                `gorm:"type:varchar(36);index"`
	AssigneeUserID      string                `gorm:"type:varchar(36);index"`
	EffectiveAssigneeID string                `gorm:"type:varchar(36)"`
	AssignmentInfo      AssignmentInfo        `gorm:"type:jsonb"`
	Status              models.WorkItemStatus `gorm:"type:varchar(20);index"`
	DecidedAt           *time.Time
}

type QualityCheck struct {
	BaseCompanyModel
	ProductionLine      string                `gorm:"type:varchar(100)"`
	AssignedPositionID  string                `gorm:"type:varchar(36);index"`
	AssigneeUserID      string                `gorm:"type:varchar(36);index"`
	EffectiveAssigneeID string                `gorm:"type:varchar(36)"`
	AssignmentInfo      AssignmentInfo        `gorm:"type:jsonb"`
	Status              models.WorkItemStatus `gorm:"type:varchar(20);index"`
	ScheduledAt         *time.Time
}

type SafetyInspection struct {
	BaseCompanyModel
	Area                string                `gorm:"type:varchar(100)"`
	AssignedPositionID  string                `gorm:"type:varchar(36);index"`
	AssigneeUserID      string                `gorm:"type:varchar(36);index"`
	EffectiveAssigneeID string                `gorm:"type:varchar(36)"`
	AssignmentInfo      AssignmentInfo        `gorm:"type:jsonb"`
	Status              models.WorkItemStatus `gorm:"type:varchar(20);index"`
	ScheduledAt         *time.Time
}
