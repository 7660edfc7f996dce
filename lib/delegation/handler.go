package delegationhandler

import (
	"time"

	assignmenthandler "mfg-ops-backend/lib/assignment"
	audithandler "mfg-ops-backend/lib/audit"
	delegationstore "mfg-ops-backend/lib/delegation/store"
	"mfg-ops-backend/db"
	orgevents "mfg-ops-backend/lib/org-events"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	"mfg-ops-backend/models"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Журнал делегирований. Делегирование накладывается поверх журнала
// назначений и никогда его не изменяет; цепочка строго в один переход.

type Provider interface {
	Activate(companyID string, request orgapimodels.DelegationData, actor string) (id string, err error)
	Revoke(companyID, delegationID, actor string) error
	GetActiveDelegation(companyID, positionID string, at time.Time) (rec *dbmodels.Delegation, err error)
	ListByPosition(companyID, positionID string) (list []orgapimodels.DelegationView, err error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:      delegationstore.NewInstance(db.DB),
		assignment: assignmenthandler.Instance,
		audit:      audithandler.Instance,
		events:     orgevents.Instance,
	}
	initchecker.CheckInit(
		"store", instance.store,
		"assignment", instance.assignment,
		"audit", instance.audit,
		"events", instance.events,
	)
	Instance = instance
}

type impl struct {
	store      delegationstore.Provider
	assignment assignmenthandler.Provider
	audit      audithandler.Provider
	events     orgevents.Provider
}

func (i impl) Activate(companyID string, request orgapimodels.DelegationData, actor string) (id string, err error) {
	logger := log.WithField("company_id", companyID).
		WithField("position_id", request.DelegatorPositionID)
	if err = request.Validate(); err != nil {
		return "", errors.Wrap(models.ErrValidation, err.Error())
	}
	// делегировать может только текущий занимающий должность
	current, err := i.assignment.GetCurrentAssignment(companyID, request.DelegatorPositionID)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", errors.Wrap(models.ErrValidation, "на должности нет активного назначения, делегирование невозможно")
	}
	rec := dbmodels.Delegation{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: companyID,
		},
		DelegatorPositionID: request.DelegatorPositionID,
		DelegatorUserID:     current.UserID,
		DelegateUserID:      request.DelegateUserID,
		StartAt:             request.StartAt,
		EndAt:               request.EndAt,
		Status:              models.DelegationStatusActive,
		Reason:              request.Reason,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	i.audit.Log(companyID, actor, models.AuditActionDelegationActivated, "delegation", id,
		dbmodels.EntityChanges{
			Description: "активировано делегирование",
			Data: []dbmodels.FieldChanges{
				{Field: "delegate_user_id", OldValue: current.UserID, NewValue: request.DelegateUserID},
			},
		})
	i.events.Publish(orgevents.Event{
		Type:       orgevents.EventDelegationChanged,
		CompanyID:  companyID,
		PositionID: request.DelegatorPositionID,
		OldUserID:  current.UserID,
		NewUserID:  request.DelegateUserID,
		Action:     models.AuditActionDelegationActivated,
	})
	logger.
		WithField("rec_id", id).
		WithField("delegate_user_id", request.DelegateUserID).
		Info("активировано делегирование")
	return id, nil
}

func (i impl) Revoke(companyID, delegationID, actor string) error {
	rec, err := i.store.GetByID(companyID, delegationID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "делегирование не найдено")
	}
	if rec.Status != models.DelegationStatusActive {
		return errors.Wrapf(models.ErrInvalidState, "делегирование в статусе %v не может быть отозвано", rec.Status)
	}
	err = i.store.Update(companyID, delegationID, map[string]interface{}{
		"status": models.DelegationStatusRevoked,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка отзыва делегирования")
	}
	i.audit.Log(companyID, actor, models.AuditActionDelegationRevoked, "delegation", delegationID,
		dbmodels.EntityChanges{
			Description: "делегирование отозвано",
		})
	i.events.Publish(orgevents.Event{
		Type:       orgevents.EventDelegationChanged,
		CompanyID:  companyID,
		PositionID: rec.DelegatorPositionID,
		OldUserID:  rec.DelegateUserID,
		NewUserID:  rec.DelegatorUserID,
		Action:     models.AuditActionDelegationRevoked,
	})
	log.WithField("company_id", companyID).
		WithField("rec_id", delegationID).
		Info("делегирование отозвано")
	return nil
}

// GetActiveDelegation возвращает делегирование, действующее в момент at.
// Несколько пересекающихся активных делегирований - аномалия данных:
// выбирается созданное последним, ситуация логируется
func (i impl) GetActiveDelegation(companyID, positionID string, at time.Time) (*dbmodels.Delegation, error) {
	list, err := i.store.ListActiveByPosition(companyID, positionID, at)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if len(list) > 1 {
		log.WithField("company_id", companyID).
			WithField("position_id", positionID).
			WithField("delegation_count", len(list)).
			Warn("несколько активных делегирований на должность, выбрано последнее созданное")
	}
	return &list[0], nil
}

func (i impl) ListByPosition(companyID, positionID string) (list []orgapimodels.DelegationView, err error) {
	recList, err := i.store.ListByPosition(companyID, positionID)
	if err != nil {
		return nil, err
	}
	list = make([]orgapimodels.DelegationView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, orgapimodels.DelegationConvert(rec))
	}
	return list, nil
}
