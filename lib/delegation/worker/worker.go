package delegationexpireworker

import (
	"context"
	"time"

	audithandler "mfg-ops-backend/lib/audit"
	delegationstore "mfg-ops-backend/lib/delegation/store"
	"mfg-ops-backend/db"
	orgevents "mfg-ops-backend/lib/org-events"
	baseworker "mfg-ops-backend/lib/utils/base-worker"
	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"
)

// Воркер переводит активные делегирования с истёкшим сроком в статус expired,
// чтобы разрешение исполнителя не зависело от момента чтения

const batchSize = 100

func StartWorker(ctx context.Context) {
	w := worker{
		BaseImpl: *baseworker.NewInstance("delegation_expire", 30*time.Second, 1*time.Minute),
		store:    delegationstore.NewInstance(db.DB),
		audit:    audithandler.Instance,
		events:   orgevents.Instance,
	}
	go w.Run(ctx, w.job)
}

type worker struct {
	baseworker.BaseImpl
	store  delegationstore.Provider
	audit  audithandler.Provider
	events orgevents.Provider
}

func (w worker) job(ctx context.Context) {
	logger := w.GetLogger()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		list, err := w.store.ListExpiredActive(batchSize)
		if err != nil {
			logger.WithError(err).Error("ошибка получения истёкших делегирований")
			return
		}
		if len(list) == 0 {
			return
		}
		updated := 0
		for _, rec := range list {
			err = w.store.Update(rec.CompanyID, rec.ID, map[string]interface{}{
				"status": models.DelegationStatusExpired,
			})
			if err != nil {
				logger.WithError(err).
					WithField("rec_id", rec.ID).
					Error("ошибка перевода делегирования в expired")
				continue
			}
			updated++
			w.audit.Log(rec.CompanyID, models.SystemUser, models.AuditActionDelegationExpired, "delegation", rec.ID,
				dbmodels.EntityChanges{
					Description: "делегирование истекло",
				})
			w.events.Publish(orgevents.Event{
				Type:       orgevents.EventDelegationChanged,
				CompanyID:  rec.CompanyID,
				PositionID: rec.DelegatorPositionID,
				OldUserID:  rec.DelegateUserID,
				NewUserID:  rec.DelegatorUserID,
				Action:     models.AuditActionDelegationExpired,
			})
		}
		if updated == 0 {
			// без прогресса повторная выборка вернёт те же строки
			logger.Warn("пакет истёкших делегирований не обработан, повтор в следующем запуске")
			return
		}
		if len(list) < batchSize {
			return
		}
	}
}
