package workitemstore

import (
	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Доступ к коллекциям рабочих элементов (задачи, проекты, согласования,
// проверки качества, инспекции). Каждая коллекция - отдельная таблица
// с одинаковыми полями назначения.

type WorkItemBrief struct {
	ID                  string
	AssigneeUserID      string
	EffectiveAssigneeID string
	Status              models.WorkItemStatus
}

type Provider interface {
	ListOpenByPosition(companyID string, itemType models.WorkItemType, positionID string) (list []WorkItemBrief, err error)
	UpdateAssignee(companyID string, itemType models.WorkItemType, itemID, newUserID string, info dbmodels.AssignmentInfo) error
	GetBrief(companyID string, itemType models.WorkItemType, itemID string) (rec *WorkItemBrief, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func modelFor(itemType models.WorkItemType) (interface{}, error) {
	switch itemType {
	case models.WorkItemTypeTask:
		return &dbmodels.ProjectTask{}, nil
	case models.WorkItemTypeProject:
		return &dbmodels.Project{}, nil
	case models.WorkItemTypeApproval:
		return &dbmodels.ApprovalRequest{}, nil
	case models.WorkItemTypeQualityCheck:
		return &dbmodels.QualityCheck{}, nil
	case models.WorkItemTypeSafetyInspection:
		return &dbmodels.SafetyInspection{}, nil
	}
	return nil, errors.Wrapf(models.ErrValidation, "неизвестный тип рабочего элемента %v", itemType)
}

func (i impl) ListOpenByPosition(companyID string, itemType models.WorkItemType, positionID string) (list []WorkItemBrief, err error) {
	model, err := modelFor(itemType)
	if err != nil {
		return nil, err
	}
	list = []WorkItemBrief{}
	err = i.db.
		Model(model).
		Select("id, assignee_user_id, effective_assignee_id, status").
		Where("company_id = ?", companyID).
		Where("assigned_position_id = ?", positionID).
		Where("status IN ?", itemType.OpenStatuses()).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) UpdateAssignee(companyID string, itemType models.WorkItemType, itemID, newUserID string, info dbmodels.AssignmentInfo) error {
	model, err := modelFor(itemType)
	if err != nil {
		return err
	}
	result := i.db.
		Model(model).
		Where("id = ?", itemID).
		Where("company_id = ?", companyID).
		Updates(map[string]interface{}{
			"effective_assignee_id": newUserID,
			"assignment_info":       info,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(models.ErrNotFound, "рабочий элемент не найден")
	}
	return nil
}

func (i impl) GetBrief(companyID string, itemType models.WorkItemType, itemID string) (rec *WorkItemBrief, err error) {
	model, err := modelFor(itemType)
	if err != nil {
		return nil, err
	}
	brief := WorkItemBrief{}
	err = i.db.
		Model(model).
		Select("id, assignee_user_id, effective_assignee_id, status").
		Where("id = ?", itemID).
		Where("company_id = ?", companyID).
		First(&brief).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brief, nil
}
