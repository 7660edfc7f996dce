package orgapimodels

import (
	"time"

	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
)

type DelegationData struct {
	DelegatorPositionID string    `json:"delegator_position_id"`
	DelegateUserID      string    `json:"delegate_user_id"`
	StartAt             time.Time `json:"start_at"`
	EndAt               time.Time `json:"end_at"`
	Reason              string    `json:"reason"`
}

func (d DelegationData) Validate() error {
	if d.DelegatorPositionID == "" {
		return errors.New("отсутсвует ссылка на должность")
	}
	if d.DelegateUserID == "" {
		return errors.New("не указан замещающий сотрудник")
	}
	if !d.EndAt.After(d.StartAt) {
		return errors.New("дата окончания должна быть позже даты начала")
	}
	return nil
}

type DelegationView struct {
	ID                  string                  `json:"id"`
	DelegatorPositionID string                  `json:"delegator_position_id"`
	DelegatorUserID     string                  `json:"delegator_user_id"`
	DelegateUserID      string                  `json:"delegate_user_id"`
	StartAt             time.Time               `json:"start_at"`
	EndAt               time.Time               `json:"end_at"`
	Status              models.DelegationStatus `json:"status"`
	Reason              string                  `json:"reason,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
}

func DelegationConvert(rec dbmodels.Delegation) DelegationView {
	return DelegationView{
		ID:                  rec.ID,
		DelegatorPositionID: rec.DelegatorPositionID,
		DelegatorUserID:     rec.DelegatorUserID,
		DelegateUserID:      rec.DelegateUserID,
		StartAt:             rec.StartAt,
		EndAt:               rec.EndAt,
		Status:              rec.Status,
		Reason:              rec.Reason,
		CreatedAt:           rec.CreatedAt,
	}
}
