package orgapimodels

import (
	"time"

	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
)

type AssignmentData struct {
	UserID         string                `json:"user_id"`
	AssignmentType models.AssignmentType `json:"assignment_type"`
	StartAt        time.Time             `json:"start_at"`
	EndAt          *time.Time            `json:"end_at"`
	Reason         string                `json:"reason"`
	Notes          string                `json:"notes"`
}

func (a AssignmentData) Validate() error {
	if a.UserID == "" {
		return errors.New("не указан сотрудник")
	}
	if a.AssignmentType != "" && !a.AssignmentType.IsValid() {
		return errors.New("неизвестный тип назначения")
	}
	if a.EndAt != nil && !a.EndAt.After(a.StartAt) {
		return errors.New("дата окончания должна быть позже даты начала")
	}
	return nil
}

type AssignmentView struct {
	ID             string                  `json:"id"`
	PositionID     string                  `json:"position_id"`
	UserID         string                  `json:"user_id"`
	AssignmentType models.AssignmentType   `json:"assignment_type"`
	TypeName       string                  `json:"type_name"`
	StartAt        time.Time               `json:"start_at"`
	EndAt          *time.Time              `json:"end_at,omitempty"`
	Status         models.AssignmentStatus `json:"status"`
	Reason         string                  `json:"reason,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	CreatedBy      string                  `json:"created_by,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

func AssignmentConvert(rec dbmodels.PositionAssignment) AssignmentView {
	return AssignmentView{
		ID:             rec.ID,
		PositionID:     rec.PositionID,
		UserID:         rec.UserID,
		AssignmentType: rec.AssignmentType,
		TypeName:       rec.AssignmentType.ToHuman(),
		StartAt:        rec.StartAt,
		EndAt:          rec.EndAt,
		Status:         rec.Status,
		Reason:         rec.Reason,
		Notes:          rec.Notes,
		CreatedBy:      rec.CreatedBy,
		CreatedAt:      rec.CreatedAt,
	}
}

type EndAssignmentData struct {
	EndAt *time.Time `json:"end_at"`
}
