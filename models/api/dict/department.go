package dictapimodels

import (
	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
)

type DepartmentData struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	ParentID string `json:"parent_id"`
	Location string `json:"location"`
}

type DepartmentView struct {
	DepartmentData
	ID     string               `json:"id"`
	Status models.OrgUnitStatus `json:"status"`
}

func (c DepartmentData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название подразделения")
	}
	if c.Code == "" {
		return errors.New("не указан код подразделения")
	}
	return nil
}

func DepartmentConvert(rec dbmodels.Department) DepartmentView {
	return DepartmentView{
		DepartmentData: DepartmentData{
			Name:     rec.Name,
			Code:     rec.Code,
			ParentID: rec.ParentID,
			Location: rec.Location,
		},
		ID:     rec.ID,
		Status: rec.Status,
	}
}

type DepartmentTreeItem struct {
	DepartmentView
	SubUnits []DepartmentTreeItem `json:"sub_units"`
}
