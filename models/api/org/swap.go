package orgapimodels

import (
	"time"

	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
)

type SwapData struct {
	PositionAID   string    `json:"position_a_id"`
	PositionBID   string    `json:"position_b_id"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes"`
	EffectiveDate time.Time `json:"effective_date"`
}

func (s SwapData) Validate() error {
	if s.PositionAID == "" || s.PositionBID == "" {
		return errors.New("не указаны должности для ротации")
	}
	if s.PositionAID == s.PositionBID {
		return errors.New("нельзя выполнить ротацию должности с самой собой")
	}
	return nil
}

type SwapView struct {
	ID                  string                       `json:"id"`
	PositionAID         string                       `json:"position_a_id"`
	PositionBID         string                       `json:"position_b_id"`
	Reason              string                       `json:"reason,omitempty"`
	Notes               string                       `json:"notes,omitempty"`
	EffectiveDate       time.Time                    `json:"effective_date"`
	RequestedBy         string                       `json:"requested_by"`
	Status              models.SwapStatus            `json:"status"`
	ReassignmentDetails dbmodels.ReassignmentDetails `json:"reassignment_details"`
	CreatedAt           time.Time                    `json:"created_at"`
}

func SwapConvert(rec dbmodels.OccupantSwapRequest) SwapView {
	return SwapView{
		ID:                  rec.ID,
		PositionAID:         rec.PositionAID,
		PositionBID:         rec.PositionBID,
		Reason:              rec.Reason,
		Notes:               rec.Notes,
		EffectiveDate:       rec.EffectiveDate,
		RequestedBy:         rec.RequestedBy,
		Status:              rec.Status,
		ReassignmentDetails: rec.ReassignmentDetails,
		CreatedAt:           rec.CreatedAt,
	}
}
