package swaphandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	assignmenthandler "mfg-ops-backend/lib/assignment"
	audithandler "mfg-ops-backend/lib/audit"
	"mfg-ops-backend/db"
	orgevents "mfg-ops-backend/lib/org-events"
	swapstore "mfg-ops-backend/lib/swap/store"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	"mfg-ops-backend/lib/utils/lock"
	workitemhandler "mfg-ops-backend/lib/work-item"
	"mfg-ops-backend/models"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Координатор ротации: занимающие две должности меняются местами, их
// открытые рабочие элементы переносятся. Завершение старых и создание
// новых назначений выполняются одной транзакцией журнала; после её
// коммита операция обязана дойти до конца - сбои переназначения
// собираются в детали заявки и дают статус partial_failure, отката
// назначений не происходит. Операция не идемпотентна: повторная
// ротация возвращает исходных занимающих.

const swapLockWait = 10 * time.Second

type Provider interface {
	Swap(ctx context.Context, companyID string, request orgapimodels.SwapData, requestedBy string) (view orgapimodels.SwapView, err error)
	Get(companyID, id string) (view orgapimodels.SwapView, err error)
	List(companyID string, pagination apimodels.Pagination) (list []orgapimodels.SwapView, rowCount int64, err error)
}

var Instance Provider

func NewHandler(reassignTimeout time.Duration) {
	instance := impl{
		store:           swapstore.NewInstance(db.DB),
		assignment:      assignmenthandler.Instance,
		workItems:       workitemhandler.Instance,
		audit:           audithandler.Instance,
		events:          orgevents.Instance,
		reassignTimeout: reassignTimeout,
		runLedgerTx: func(fn func(ledger assignmenthandler.Provider) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(assignmenthandler.NewHandlerWithTx(tx))
			})
		},
	}
	initchecker.CheckInit(
		"store", instance.store,
		"assignment", instance.assignment,
		"workItems", instance.workItems,
		"audit", instance.audit,
		"events", instance.events,
	)
	Instance = instance
}

type impl struct {
	store           swapstore.Provider
	assignment      assignmenthandler.Provider
	workItems       workitemhandler.Provider
	audit           audithandler.Provider
	events          orgevents.Provider
	reassignTimeout time.Duration
	runLedgerTx     func(fn func(ledger assignmenthandler.Provider) error) error
}

func (i impl) GetLogger(companyID, positionAID, positionBID string) *log.Entry {
	logger := log.
		WithField("company_id", companyID).
		WithField("position_a_id", positionAID).
		WithField("position_b_id", positionBID)
	return logger
}

func (i impl) Swap(ctx context.Context, companyID string, request orgapimodels.SwapData, requestedBy string) (view orgapimodels.SwapView, err error) {
	logger := i.GetLogger(companyID, request.PositionAID, request.PositionBID)
	if err = request.Validate(); err != nil {
		return orgapimodels.SwapView{}, errors.Wrap(models.ErrValidation, err.Error())
	}
	if requestedBy == "" {
		return orgapimodels.SwapView{}, errors.Wrap(models.ErrValidation, "не указан инициатор ротации")
	}

	// одновременные ротации по пересекающимся должностям сериализуются
	lockKey := swapLockKey(companyID, request.PositionAID, request.PositionBID)
	var result orgapimodels.SwapView
	acquired, err := lock.WithDelay(ctx, lockKey, swapLockWait, func() error {
		result, err = i.doSwap(ctx, companyID, request, requestedBy)
		return err
	})
	if err != nil {
		return orgapimodels.SwapView{}, err
	}
	if !acquired {
		logger.Warn("не удалось получить блокировку для ротации")
		return orgapimodels.SwapView{}, errors.Wrap(models.ErrConflict, "по этим должностям уже выполняется ротация")
	}
	return result, nil
}

func (i impl) doSwap(ctx context.Context, companyID string, request orgapimodels.SwapData, requestedBy string) (view orgapimodels.SwapView, err error) {
	logger := i.GetLogger(companyID, request.PositionAID, request.PositionBID)
	effectiveDate := request.EffectiveDate
	if effectiveDate.IsZero() {
		effectiveDate = time.Now()
	}
	rec := dbmodels.OccupantSwapRequest{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: companyID,
		},
		PositionAID:   request.PositionAID,
		PositionBID:   request.PositionBID,
		Reason:        request.Reason,
		Notes:         request.Notes,
		EffectiveDate: effectiveDate,
		RequestedBy:   requestedBy,
		Status:        models.SwapStatusPending,
		ReassignmentDetails: dbmodels.ReassignmentDetails{
			Errors: []string{},
		},
	}
	recID, err := i.store.Create(rec)
	if err != nil {
		return orgapimodels.SwapView{}, err
	}
	rec.ID = recID
	i.audit.Log(companyID, requestedBy, models.AuditActionSwapInitiated, "occupant_swap", recID,
		dbmodels.EntityChanges{
			Description: "запущена ротация должностей",
			Data: []dbmodels.FieldChanges{
				{Field: "position_a_id", NewValue: request.PositionAID},
				{Field: "position_b_id", NewValue: request.PositionBID},
			},
		})

	// валидация: на обеих должностях должны быть активные назначения
	i.setStatus(companyID, recID, &rec, models.SwapStatusValidating, nil)
	assignmentA, err := i.assignment.GetCurrentAssignment(companyID, request.PositionAID)
	if err == nil && assignmentA == nil {
		err = errors.Wrap(models.ErrValidation, "на первой должности нет активного назначения")
	}
	if err != nil {
		i.fail(companyID, recID, &rec, requestedBy, err)
		return orgapimodels.SwapView{}, err
	}
	assignmentB, err := i.assignment.GetCurrentAssignment(companyID, request.PositionBID)
	if err == nil && assignmentB == nil {
		err = errors.Wrap(models.ErrValidation, "на второй должности нет активного назначения")
	}
	if err != nil {
		i.fail(companyID, recID, &rec, requestedBy, err)
		return orgapimodels.SwapView{}, err
	}
	userA := assignmentA.UserID
	userB := assignmentB.UserID

	// завершение старых и создание перекрёстных назначений одной транзакцией
	err = i.runLedgerTx(func(ledger assignmenthandler.Provider) error {
		if err := ledger.End(companyID, assignmentA.ID, &effectiveDate, requestedBy); err != nil {
			return err
		}
		if err := ledger.End(companyID, assignmentB.ID, &effectiveDate, requestedBy); err != nil {
			return err
		}
		crossData := orgapimodels.AssignmentData{
			AssignmentType: models.AssignmentTypePermanent,
			StartAt:        effectiveDate,
			Reason:         request.Reason,
			Notes:          request.Notes,
		}
		dataA := crossData
		dataA.UserID = userB
		if _, err := ledger.Assign(companyID, request.PositionAID, dataA, requestedBy); err != nil {
			return err
		}
		dataB := crossData
		dataB.UserID = userA
		if _, err := ledger.Assign(companyID, request.PositionBID, dataB, requestedBy); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		// транзакция откатилась целиком, должности остались занятыми
		i.fail(companyID, recID, &rec, requestedBy, err)
		return orgapimodels.SwapView{}, errors.Wrap(err, "ошибка обмена назначениями")
	}
	i.setStatus(companyID, recID, &rec, models.SwapStatusEndedOldAssignments, nil)
	i.setStatus(companyID, recID, &rec, models.SwapStatusCreatedAssignments, nil)
	// инвалидация кэша обеих должностей до переназначения элементов
	i.events.Publish(orgevents.Event{
		Type:            orgevents.EventOccupantsSwapped,
		CompanyID:       companyID,
		PositionID:      request.PositionAID,
		OtherPositionID: request.PositionBID,
		OldUserID:       userA,
		NewUserID:       userB,
		Action:          models.AuditActionSwapAssignments,
	})
	i.audit.Log(companyID, requestedBy, models.AuditActionSwapAssignments, "occupant_swap", recID,
		dbmodels.EntityChanges{
			Description: "занимающие должности обменяны",
			Data: []dbmodels.FieldChanges{
				{Field: "position_a_user", OldValue: userA, NewValue: userB},
				{Field: "position_b_user", OldValue: userB, NewValue: userA},
			},
		})

	// с этого места откат невозможен: сбои только накапливаются в деталях
	i.setStatus(companyID, recID, &rec, models.SwapStatusReassigning, nil)
	details := dbmodels.ReassignmentDetails{
		Errors: []string{},
	}
	i.reassignPosition(ctx, companyID, request.PositionAID, userA, userB, &details)
	i.reassignPosition(ctx, companyID, request.PositionBID, userB, userA, &details)

	finalStatus := models.SwapStatusCompleted
	finalAction := models.AuditActionSwapCompleted
	if len(details.Errors) > 0 {
		finalStatus = models.SwapStatusPartialFailure
		finalAction = models.AuditActionSwapFailed
	}
	i.setStatus(companyID, recID, &rec, finalStatus, &details)
	i.audit.Log(companyID, requestedBy, finalAction, "occupant_swap", recID,
		dbmodels.EntityChanges{
			Description: fmt.Sprintf("ротация завершена, перенесено элементов: %v, ошибок: %v",
				details.TasksReassigned+details.ProjectsUpdated+details.ApprovalsTransferred, len(details.Errors)),
		})
	logger.
		WithField("rec_id", recID).
		WithField("status", string(finalStatus)).
		WithField("error_count", len(details.Errors)).
		Info("ротация должностей выполнена")
	return orgapimodels.SwapConvert(rec), nil
}

func (i impl) reassignPosition(ctx context.Context, companyID, positionID, oldUserID, newUserID string, details *dbmodels.ReassignmentDetails) {
	reassignCtx := ctx
	if i.reassignTimeout > 0 {
		var cancel context.CancelFunc
		reassignCtx, cancel = context.WithTimeout(ctx, i.reassignTimeout)
		defer cancel()
	}
	result := i.workItems.Reassign(reassignCtx, companyID, positionID, oldUserID, newUserID)
	// проверки качества и инспекции учитываются вместе с задачами
	details.TasksReassigned += result.CountsByType[models.WorkItemTypeTask] +
		result.CountsByType[models.WorkItemTypeQualityCheck] +
		result.CountsByType[models.WorkItemTypeSafetyInspection]
	details.ProjectsUpdated += result.CountsByType[models.WorkItemTypeProject]
	details.ApprovalsTransferred += result.CountsByType[models.WorkItemTypeApproval]
	details.Errors = append(details.Errors, result.Errors...)
}

func (i impl) setStatus(companyID, recID string, rec *dbmodels.OccupantSwapRequest, status models.SwapStatus, details *dbmodels.ReassignmentDetails) {
	rec.Status = status
	updMap := map[string]interface{}{
		"status": status,
	}
	if details != nil {
		rec.ReassignmentDetails = *details
		updMap["reassignment_details"] = *details
	}
	err := i.store.Update(companyID, recID, updMap)
	if err != nil {
		log.WithError(err).
			WithField("company_id", companyID).
			WithField("rec_id", recID).
			WithField("status", string(status)).
			Error("не удалось обновить статус заявки на ротацию")
	}
}

func (i impl) fail(companyID, recID string, rec *dbmodels.OccupantSwapRequest, actor string, cause error) {
	details := rec.ReassignmentDetails
	details.Errors = append(details.Errors, cause.Error())
	i.setStatus(companyID, recID, rec, models.SwapStatusFailed, &details)
	i.audit.Log(companyID, actor, models.AuditActionSwapFailed, "occupant_swap", recID,
		dbmodels.EntityChanges{
			Description: "ротация прервана до изменения назначений",
		})
}

func (i impl) Get(companyID, id string) (view orgapimodels.SwapView, err error) {
	rec, err := i.store.GetByID(companyID, id)
	if err != nil {
		return orgapimodels.SwapView{}, err
	}
	if rec == nil {
		return orgapimodels.SwapView{}, errors.Wrap(models.ErrNotFound, "заявка на ротацию не найдена")
	}
	return orgapimodels.SwapConvert(*rec), nil
}

func (i impl) List(companyID string, pagination apimodels.Pagination) (list []orgapimodels.SwapView, rowCount int64, err error) {
	page, limit := pagination.GetPage()
	recList, rowCount, err := i.store.List(companyID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	list = make([]orgapimodels.SwapView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, orgapimodels.SwapConvert(rec))
	}
	return list, rowCount, nil
}

// ключ блокировки не зависит от порядка должностей в запросе
func swapLockKey(companyID, positionAID, positionBID string) string {
	first, second := positionAID, positionBID
	if strings.Compare(first, second) > 0 {
		first, second = second, first
	}
	return fmt.Sprintf("swap/%s/%s/%s", companyID, first, second)
}
