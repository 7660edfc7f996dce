package assignmenthandler

import (
	"time"

	"mfg-ops-backend/db"
	assignmentstore "mfg-ops-backend/lib/assignment/store"
	audithandler "mfg-ops-backend/lib/audit"
	positionstore "mfg-ops-backend/lib/dicts/position/store"
	orgevents "mfg-ops-backend/lib/org-events"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	"mfg-ops-backend/models"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Журнал назначений на должности. Единственный владелец жизненного цикла
// PositionAssignment: завершение текущего и вставка нового назначения
// выполняются одной транзакцией с блокировкой строки. Завершение вне
// транзакции использует статусную проверку в самом обновлении, два
// конкурентных завершения не могут сработать по одной строке.

type Provider interface {
	Assign(companyID, positionID string, request orgapimodels.AssignmentData, actor string) (view orgapimodels.AssignmentView, err error)
	GetCurrentAssignment(companyID, positionID string) (rec *dbmodels.PositionAssignment, err error)
	GetHistory(companyID, positionID string, pagination apimodels.Pagination) (list []orgapimodels.AssignmentView, rowCount int64, err error)
	End(companyID, assignmentID string, endAt *time.Time, actor string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:         assignmentstore.NewInstance(db.DB),
		positionStore: positionstore.NewInstance(db.DB),
		audit:         audithandler.Instance,
		events:        orgevents.Instance,
		runTx: func(fn func(store assignmentstore.Provider, audit audithandler.Provider) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(assignmentstore.NewInstance(tx), audithandler.NewHandlerWithTx(tx))
			})
		},
	}
	initchecker.CheckInit(
		"store", instance.store,
		"positionStore", instance.positionStore,
		"audit", instance.audit,
		"events", instance.events,
	)
	Instance = instance
}

// NewHandlerWithTx - операции журнала в рамках внешней транзакции,
// события изменений публикует вызывающая сторона после коммита
func NewHandlerWithTx(tx *gorm.DB) Provider {
	store := assignmentstore.NewInstance(tx)
	audit := audithandler.NewHandlerWithTx(tx)
	return impl{
		store:         store,
		positionStore: positionstore.NewInstance(tx),
		audit:         audit,
		runTx: func(fn func(store assignmentstore.Provider, audit audithandler.Provider) error) error {
			// уже внутри внешней транзакции
			return fn(store, audit)
		},
	}
}

type impl struct {
	store         assignmentstore.Provider
	positionStore positionstore.Provider
	audit         audithandler.Provider
	events        orgevents.Provider
	runTx         func(fn func(store assignmentstore.Provider, audit audithandler.Provider) error) error
}

func (i impl) GetLogger(companyID, positionID string) *log.Entry {
	logger := log.
		WithField("company_id", companyID).
		WithField("position_id", positionID)
	return logger
}

func (i impl) Assign(companyID, positionID string, request orgapimodels.AssignmentData, actor string) (view orgapimodels.AssignmentView, err error) {
	logger := i.GetLogger(companyID, positionID)
	if err = request.Validate(); err != nil {
		return orgapimodels.AssignmentView{}, errors.Wrap(models.ErrValidation, err.Error())
	}
	position, err := i.positionStore.GetByID(companyID, positionID)
	if err != nil {
		return orgapimodels.AssignmentView{}, err
	}
	if position == nil {
		return orgapimodels.AssignmentView{}, errors.Wrap(models.ErrNotFound, "должность не найдена")
	}
	if position.Status != models.OrgUnitStatusActive {
		return orgapimodels.AssignmentView{}, errors.Wrap(models.ErrValidation, "должность неактивна")
	}

	assignmentType := request.AssignmentType
	if assignmentType == "" {
		assignmentType = models.AssignmentTypePermanent
	}
	startAt := request.StartAt
	if startAt.IsZero() {
		startAt = time.Now()
	}

	var created dbmodels.PositionAssignment
	var endedUserID string
	err = i.runTx(func(txStore assignmentstore.Provider, txAudit audithandler.Provider) error {
		// блокируем текущее активное назначение до конца транзакции
		current, err := txStore.GetActiveByPositionForUpdate(companyID, positionID)
		if err != nil {
			return err
		}
		now := time.Now()
		if current != nil {
			endedUserID = current.UserID
			err = txStore.Update(companyID, current.ID, map[string]interface{}{
				"status": models.AssignmentStatusEnded,
				"end_at": now,
			})
			if err != nil {
				return err
			}
			txAudit.Log(companyID, actor, models.AuditActionAssignmentEnded, "position_assignment", current.ID,
				dbmodels.EntityChanges{
					Description: "назначение завершено при смене исполнителя",
					Data: []dbmodels.FieldChanges{
						{Field: "status", OldValue: string(models.AssignmentStatusActive), NewValue: string(models.AssignmentStatusEnded)},
					},
				})
		}
		created = dbmodels.PositionAssignment{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				CompanyID: companyID,
			},
			PositionID:     positionID,
			UserID:         request.UserID,
			AssignmentType: assignmentType,
			StartAt:        startAt,
			EndAt:          request.EndAt,
			Status:         models.AssignmentStatusActive,
			Reason:         request.Reason,
			Notes:          request.Notes,
			CreatedBy:      actor,
		}
		id, err := txStore.Create(created)
		if err != nil {
			return err
		}
		created.ID = id
		txAudit.Log(companyID, actor, models.AuditActionAssignmentCreated, "position_assignment", id,
			dbmodels.EntityChanges{
				Description: "создано назначение на должность",
				Data: []dbmodels.FieldChanges{
					{Field: "user_id", OldValue: endedUserID, NewValue: request.UserID},
				},
			})
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			logger.WithError(err).Warn("конкурентное назначение на должность")
			return orgapimodels.AssignmentView{}, err
		}
		return orgapimodels.AssignmentView{}, errors.Wrap(err, "ошибка назначения на должность")
	}

	i.publishChange(companyID, positionID, endedUserID, request.UserID, models.AuditActionAssignmentCreated)
	logger.
		WithField("user_id", request.UserID).
		WithField("rec_id", created.ID).
		Info("создано назначение на должность")
	return orgapimodels.AssignmentConvert(created), nil
}

func (i impl) GetCurrentAssignment(companyID, positionID string) (*dbmodels.PositionAssignment, error) {
	return i.store.GetActiveByPosition(companyID, positionID)
}

func (i impl) GetHistory(companyID, positionID string, pagination apimodels.Pagination) (list []orgapimodels.AssignmentView, rowCount int64, err error) {
	page, limit := pagination.GetPage()
	recList, rowCount, err := i.store.History(companyID, positionID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	list = make([]orgapimodels.AssignmentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, orgapimodels.AssignmentConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) End(companyID, assignmentID string, endAt *time.Time, actor string) error {
	rec, err := i.store.GetByID(companyID, assignmentID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "назначение не найдено")
	}
	if !rec.IsActive() {
		return errors.Wrapf(models.ErrInvalidState, "назначение в статусе %v не может быть завершено", rec.Status)
	}
	endTime := time.Now()
	if endAt != nil {
		endTime = *endAt
	}
	updated, err := i.store.EndActive(companyID, assignmentID, endTime)
	if err != nil {
		return err
	}
	if !updated {
		// строку успела изменить конкурентная операция
		return errors.Wrap(models.ErrInvalidState, "назначение уже завершено")
	}
	i.audit.Log(companyID, actor, models.AuditActionAssignmentEnded, "position_assignment", assignmentID,
		dbmodels.EntityChanges{
			Description: "назначение завершено",
			Data: []dbmodels.FieldChanges{
				{Field: "status", OldValue: string(models.AssignmentStatusActive), NewValue: string(models.AssignmentStatusEnded)},
			},
		})
	i.publishChange(companyID, rec.PositionID, rec.UserID, "", models.AuditActionAssignmentEnded)
	i.GetLogger(companyID, rec.PositionID).
		WithField("rec_id", assignmentID).
		Info("назначение завершено")
	return nil
}

func (i impl) publishChange(companyID, positionID, oldUserID, newUserID string, action models.AuditAction) {
	if i.events == nil {
		// транзакционный вариант, события публикует координатор после коммита
		return
	}
	i.events.Publish(orgevents.Event{
		Type:       orgevents.EventAssignmentChanged,
		CompanyID:  companyID,
		PositionID: positionID,
		OldUserID:  oldUserID,
		NewUserID:  newUserID,
		Action:     action,
	})
}
