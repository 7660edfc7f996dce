package workitemhandler

import (
	"context"
	"fmt"
	"time"

	"mfg-ops-backend/db"
	orgevents "mfg-ops-backend/lib/org-events"
	"mfg-ops-backend/lib/utils/helpers"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	workitemstore "mfg-ops-backend/lib/work-item/store"
	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// Переназначение открытых рабочих элементов при смене исполнителя должности.
// Каждый элемент обновляется независимо: ошибка одного не прерывает
// обработку остальных, все ошибки собираются в результат.

type ReassignResult struct {
	Updated      int
	CountsByType map[models.WorkItemType]int
	Errors       []string
}

type Provider interface {
	Reassign(ctx context.Context, companyID, positionID, oldUserID, newUserID string) ReassignResult
}

var Instance Provider

func NewHandler(slaThreshold time.Duration) {
	instance := impl{
		store:        workitemstore.NewInstance(db.DB),
		slaThreshold: slaThreshold,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
	// переназначение запускается и по событиям смены исполнителя
	orgevents.Instance.Subscribe("work_item_reassign", instance.onAssignmentChange)
}

type impl struct {
	store        workitemstore.Provider
	slaThreshold time.Duration
}

// Смена занимающего должность вне ротации тоже переносит открытые элементы.
// Ротацию координатор обрабатывает сам, здесь она пропускается.
func (i impl) onAssignmentChange(event orgevents.Event) {
	if event.Type != orgevents.EventAssignmentChanged {
		return
	}
	if event.NewUserID == "" || event.OldUserID == "" || event.NewUserID == event.OldUserID {
		return
	}
	result := i.Reassign(context.Background(), event.CompanyID, event.PositionID, event.OldUserID, event.NewUserID)
	if len(result.Errors) > 0 {
		log.WithField("company_id", event.CompanyID).
			WithField("position_id", event.PositionID).
			WithField("error_count", len(result.Errors)).
			Warn("часть рабочих элементов не переназначена")
	}
}

func (i impl) Reassign(ctx context.Context, companyID, positionID, oldUserID, newUserID string) ReassignResult {
	started := time.Now()
	logger := log.WithField("company_id", companyID).
		WithField("position_id", positionID).
		WithField("old_user_id", oldUserID).
		WithField("new_user_id", newUserID)
	result := ReassignResult{
		CountsByType: map[models.WorkItemType]int{},
		Errors:       []string{},
	}
	itemTypes := []models.WorkItemType{
		models.WorkItemTypeTask,
		models.WorkItemTypeProject,
		models.WorkItemTypeApproval,
		models.WorkItemTypeQualityCheck,
		models.WorkItemTypeSafetyInspection,
	}
	info := dbmodels.AssignmentInfo{
		ResolvedAt: time.Now(),
	}
	for _, itemType := range itemTypes {
		if helpers.IsContextDone(ctx) {
			result.Errors = append(result.Errors, fmt.Sprintf("%v: переназначение прервано по дедлайну", itemType))
			break
		}
		list, err := i.store.ListOpenByPosition(companyID, itemType, positionID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%v: ошибка получения списка: %v", itemType, err))
			continue
		}
		for _, item := range list {
			err = i.store.UpdateAssignee(companyID, itemType, item.ID, newUserID, info)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%v %v: %v", itemType, item.ID, err))
				continue
			}
			result.Updated++
			result.CountsByType[itemType]++
		}
	}
	elapsed := time.Since(started)
	if i.slaThreshold > 0 && elapsed > i.slaThreshold {
		logger.
			WithField("elapsed_ms", elapsed.Milliseconds()).
			WithField("sla_threshold_ms", i.slaThreshold.Milliseconds()).
			Warn("превышен SLA переназначения рабочих элементов")
	}
	logger.
		WithField("updated", result.Updated).
		WithField("error_count", len(result.Errors)).
		Info("переназначение рабочих элементов выполнено")
	return result
}
