package models

type WorkItemType string

const (
	WorkItemTypeTask             WorkItemType = "task"
	WorkItemTypeProject          WorkItemType = "project"
	WorkItemTypeApproval         WorkItemType = "approval"
	WorkItemTypeQualityCheck     WorkItemType = "quality_check"
	WorkItemTypeSafetyInspection WorkItemType = "safety_inspection"
)

var workItemTypeHumanName = map[WorkItemType]string{
	WorkItemTypeTask:             "Задача",
	WorkItemTypeProject:          "Проект",
	WorkItemTypeApproval:         "Согласование",
	WorkItemTypeQualityCheck:     "Проверка качества",
	WorkItemTypeSafetyInspection: "Инспекция по охране труда",
}

func (t WorkItemType) ToHuman() string {
	if human, exist := workItemTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t WorkItemType) IsValid() bool {
	_, exist := workItemTypeHumanName[t]
	return exist
}

type WorkItemStatus string

const (
	WorkItemStatusAssigned   WorkItemStatus = "assigned"
	WorkItemStatusInProgress WorkItemStatus = "in_progress"
	WorkItemStatusPending    WorkItemStatus = "pending"
	WorkItemStatusOnHold     WorkItemStatus = "on_hold"
	WorkItemStatusCompleted  WorkItemStatus = "completed"
	WorkItemStatusCancelled  WorkItemStatus = "cancelled"
	WorkItemStatusRejected   WorkItemStatus = "rejected"
)

// открытые статусы по типам, закрытый список вместо динамических фильтров
var openStatusesByType = map[WorkItemType][]WorkItemStatus{
	WorkItemTypeTask:             {WorkItemStatusAssigned, WorkItemStatusInProgress},
	WorkItemTypeProject:          {WorkItemStatusAssigned, WorkItemStatusInProgress, WorkItemStatusOnHold},
	WorkItemTypeApproval:         {WorkItemStatusPending},
	WorkItemTypeQualityCheck:     {WorkItemStatusAssigned, WorkItemStatusPending, WorkItemStatusInProgress},
	WorkItemTypeSafetyInspection: {WorkItemStatusAssigned, WorkItemStatusPending, WorkItemStatusInProgress},
}

func (t WorkItemType) OpenStatuses() []WorkItemStatus {
	return openStatusesByType[t]
}

func (t WorkItemType) IsOpenStatus(status WorkItemStatus) bool {
	for _, open := range openStatusesByType[t] {
		if open == status {
			return true
		}
	}
	return false
}
