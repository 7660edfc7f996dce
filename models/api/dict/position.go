package dictapimodels

import (
	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
)

type PositionData struct {
	DepartmentID        string                     `json:"department_id"`
	Title               string                     `json:"title"`
	Code                string                     `json:"code"`
	Level               int                        `json:"level"`
	ReportsToPositionID string                     `json:"reports_to_position_id"`
	ApprovalAuthority   dbmodels.ApprovalAuthority `json:"approval_authority"`
}

type PositionView struct {
	PositionData
	ID     string               `json:"id"`
	Status models.OrgUnitStatus `json:"status"`
}

func (p PositionData) Validate() error {
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
	return nil
}

func PositionConvert(rec dbmodels.Position) PositionView {
	return PositionView{
		PositionData: PositionData{
			DepartmentID:        rec.DepartmentID,
			Title:               rec.Title,
			Code:                rec.Code,
			Level:               rec.Level,
			ReportsToPositionID: rec.ReportsToPositionID,
			ApprovalAuthority:   rec.ApprovalAuthority,
		},
		ID:     rec.ID,
		Status: rec.Status,
	}
}
