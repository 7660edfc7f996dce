package audithandler

import (
	"mfg-ops-backend/db"
	orgauditstore "mfg-ops-backend/lib/audit/store"
	"mfg-ops-backend/models"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Log(companyID, actor string, action models.AuditAction, objectType, objectID string, changes dbmodels.EntityChanges)
	List(companyID string, page, limit int) (list []orgapimodels.AuditEntryView, rowCount int64, err error)
	Count(companyID string) (int64, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: orgauditstore.NewInstance(db.DB),
	}
}

// NewHandlerWithTx - записи аудита в рамках внешней транзакции
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: orgauditstore.NewInstance(tx),
	}
}

type impl struct {
	store orgauditstore.Provider
}

// Log пишет запись аудита, ошибка записи логируется, но не прерывает вызвавшую операцию
func (i impl) Log(companyID, actor string, action models.AuditAction, objectType, objectID string, changes dbmodels.EntityChanges) {
	rec := dbmodels.OrgAuditLogEntry{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: companyID,
		},
		Actor:      actor,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Changes:    changes,
	}
	_, err := i.store.Create(rec)
	if err != nil {
		log.WithError(err).
			WithField("company_id", companyID).
			WithField("action", string(action)).
			Error("не удалось записать событие в журнал аудита")
	}
}

func (i impl) List(companyID string, page, limit int) (list []orgapimodels.AuditEntryView, rowCount int64, err error) {
	recList, rowCount, err := i.store.List(companyID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	list = make([]orgapimodels.AuditEntryView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, orgapimodels.AuditEntryView{
			ID:         rec.ID,
			Sequence:   rec.Sequence,
			Actor:      rec.Actor,
			Action:     string(rec.Action),
			ActionName: rec.Action.ToHuman(),
			ObjectType: rec.ObjectType,
			ObjectID:   rec.ObjectID,
			CreatedAt:  rec.CreatedAt.Format("02.01.2006 15:04:05"),
		})
	}
	return list, rowCount, nil
}

func (i impl) Count(companyID string) (int64, error) {
	return i.store.CountByCompany(companyID)
}
