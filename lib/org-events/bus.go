package orgevents

import (
	"sync"
	"time"

	"mfg-ops-backend/models"

	log "github.com/sirupsen/logrus"
)

// Типизированная шина событий изменений назначений и делегирований.
// Мутации журналов публикуют события, подписчики (инвалидация кэша,
// уведомления) обрабатываются синхронно до возврата из мутации.

type EventType string

const (
	EventAssignmentChanged EventType = "ASSIGNMENT_CHANGED"
	EventDelegationChanged EventType = "DELEGATION_CHANGED"
	EventOccupantsSwapped  EventType = "OCCUPANTS_SWAPPED"
)

type Event struct {
	Type       EventType
	CompanyID  string
	PositionID string
	// вторая должность при ротации
	OtherPositionID string
	OldUserID       string
	NewUserID       string
	Action          models.AuditAction
	OccurredAt      time.Time
}

type Subscriber func(event Event)

type Provider interface {
	Publish(event Event)
	Subscribe(name string, subscriber Subscriber)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		subscribers: map[string]Subscriber{},
	}
}

type impl struct {
	mx          sync.RWMutex
	subscribers map[string]Subscriber
}

func (i *impl) Subscribe(name string, subscriber Subscriber) {
	i.mx.Lock()
	defer i.mx.Unlock()
	i.subscribers[name] = subscriber
}

func (i *impl) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	i.mx.RLock()
	defer i.mx.RUnlock()
	for name, subscriber := range i.subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("subscriber", name).
						WithField("event_type", string(event.Type)).
						Errorf("panic в обработчике события: (%v)", r)
				}
			}()
			subscriber(event)
		}()
	}
}
