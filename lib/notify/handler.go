package notifyhandler

import (
	"fmt"

	orgevents "mfg-ops-backend/lib/org-events"
	"mfg-ops-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

// Уведомления об изменениях назначений. Отправка в фоне, ядро никогда
// не ждёт доставки; ошибки доставки только логируются.

type Provider interface {
	Notify(event orgevents.Event)
}

var Instance Provider

func NewHandler(senderEmail, opsEmail string) {
	instance := impl{
		senderEmail: senderEmail,
		opsEmail:    opsEmail,
	}
	Instance = instance
	orgevents.Instance.Subscribe("notify", instance.Notify)
}

type impl struct {
	senderEmail string
	opsEmail    string
}

func (i impl) Notify(event orgevents.Event) {
	if i.opsEmail == "" {
		return
	}
	subject := event.Action.ToHuman()
	message := fmt.Sprintf("Компания: %v\r\nДолжность: %v\r\nДействие: %v\r\nБыл: %v\r\nСтал: %v",
		event.CompanyID, event.PositionID, subject, event.OldUserID, event.NewUserID)
	go func() {
		err := smtp.Instance.SendEMail(i.senderEmail, i.opsEmail, message, subject)
		if err != nil {
			log.WithError(err).
				WithField("company_id", event.CompanyID).
				WithField("event_type", string(event.Type)).
				Error("не удалось отправить уведомление")
		}
	}()
}
