package resolutionhandler

import (
	"context"
	"sync"
	"time"

	assignmenthandler "mfg-ops-backend/lib/assignment"
	delegationhandler "mfg-ops-backend/lib/delegation"
	orgevents "mfg-ops-backend/lib/org-events"
	resolutionmonitor "mfg-ops-backend/lib/resolution/monitor"
	initchecker "mfg-ops-backend/lib/utils/init-checker"
	orgapimodels "mfg-ops-backend/models/api/org"
	dbmodels "mfg-ops-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// Разрешение фактического исполнителя по должности: журнал назначений
// плюс накладка активного делегирования. Любая внутренняя ошибка или
// истёкший дедлайн дают ответ с исходным исполнителем, вызывающая
// сторона всегда получает какой-то результат.

const defaultBatchParallelism = 8

type Provider interface {
	Resolve(ctx context.Context, companyID, positionID string) (rec *orgapimodels.EffectiveAssignment, err error)
	ResolveAt(ctx context.Context, companyID, positionID string, at time.Time) (rec *orgapimodels.EffectiveAssignment, err error)
	ResolveWorkItem(ctx context.Context, companyID string, ref orgapimodels.WorkItemRef) orgapimodels.WorkItemAssignmentContext
	ResolveMany(ctx context.Context, companyID string, items []orgapimodels.WorkItemRef) []orgapimodels.WorkItemAssignmentContext
}

var Instance Provider

func NewHandler(batchParallelism int) {
	instance := newImpl(assignmenthandler.Instance, delegationhandler.Instance, resolutionmonitor.Instance, batchParallelism)
	initchecker.CheckInit(
		"assignment", instance.assignment,
		"delegation", instance.delegation,
		"monitor", instance.monitor,
	)
	// мутации журналов инвалидируют кэш до возврата из операции
	orgevents.Instance.Subscribe("resolution_cache", instance.onLedgerChange)
	Instance = instance
}

func newImpl(assignment assignmenthandler.Provider, delegation delegationhandler.Provider, monitor resolutionmonitor.Provider, batchParallelism int) *impl {
	if batchParallelism <= 0 {
		batchParallelism = defaultBatchParallelism
	}
	return &impl{
		assignment:       assignment,
		delegation:       delegation,
		monitor:          monitor,
		cache:            newAssignmentCache(),
		batchParallelism: batchParallelism,
	}
}

type impl struct {
	assignment       assignmenthandler.Provider
	delegation       delegationhandler.Provider
	monitor          resolutionmonitor.Provider
	cache            *assignmentCache
	batchParallelism int
}

func (i *impl) onLedgerChange(event orgevents.Event) {
	i.cache.Invalidate(event.CompanyID, event.PositionID)
	if event.OtherPositionID != "" {
		i.cache.Invalidate(event.CompanyID, event.OtherPositionID)
	}
}

// Resolve - текущий фактический исполнитель должности, nil если должность вакантна
func (i *impl) Resolve(ctx context.Context, companyID, positionID string) (*orgapimodels.EffectiveAssignment, error) {
	return i.resolve(ctx, companyID, positionID, time.Time{})
}

// ResolveAt - исполнитель на произвольный момент, кэш не используется
func (i *impl) ResolveAt(ctx context.Context, companyID, positionID string, at time.Time) (*orgapimodels.EffectiveAssignment, error) {
	return i.resolve(ctx, companyID, positionID, at)
}

func (i *impl) resolve(ctx context.Context, companyID, positionID string, at time.Time) (*orgapimodels.EffectiveAssignment, error) {
	started := time.Now()
	cacheable := at.IsZero()
	if at.IsZero() {
		at = started
	}
	var generation uint64
	if cacheable {
		if entry, ok := i.cache.Get(companyID, positionID); ok {
			entry.ResolvedAt = time.Now()
			entry.ResolutionTimeMs = time.Since(started).Milliseconds()
			i.record(positionID, time.Since(started), true)
			return &entry, nil
		}
		// поколение снимается до чтения журналов: инвалидация во время
		// чтения не даст записать устаревший результат
		generation = i.cache.Generation(companyID, positionID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assignment, err := i.assignment.GetCurrentAssignment(companyID, positionID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		// вакантная должность
		i.record(positionID, time.Since(started), false)
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	delegation, err := i.delegation.GetActiveDelegation(companyID, positionID, at)
	if err != nil {
		return nil, err
	}
	result := orgapimodels.EffectiveAssignment{
		PositionID:         positionID,
		UserID:             assignment.UserID,
		SourceAssignmentID: assignment.ID,
		SourceUserID:       assignment.UserID,
		ResolvedAt:         time.Now(),
	}
	if delegation != nil {
		result.UserID = delegation.DelegateUserID
		result.IsDelegated = true
		result.DelegationID = delegation.ID
		result.DelegationReason = delegation.Reason
	}
	result.ResolutionTimeMs = time.Since(started).Milliseconds()
	if cacheable {
		i.cache.SetIfCurrent(companyID, positionID, generation, result)
	}
	i.record(positionID, time.Since(started), false)
	return &result, nil
}

// ResolveWorkItem никогда не возвращает ошибку: при сбое или истёкшем
// дедлайне рабочий элемент остаётся на исходном исполнителе
func (i *impl) ResolveWorkItem(ctx context.Context, companyID string, ref orgapimodels.WorkItemRef) orgapimodels.WorkItemAssignmentContext {
	started := time.Now()
	result := orgapimodels.WorkItemAssignmentContext{
		ItemType:            ref.ItemType,
		ItemID:              ref.ItemID,
		OriginalPositionID:  ref.PositionID,
		OriginalUserID:      ref.UserID,
		EffectivePositionID: ref.PositionID,
		EffectiveUserID:     ref.UserID,
		DelegationChain:     []dbmodels.DelegationChainEntry{},
		ResolvedAt:          time.Now(),
	}
	if ref.PositionID == "" {
		// без должности делегирование невозможно, исходный исполнитель остаётся
		result.ResolutionTimeMs = time.Since(started).Milliseconds()
		return result
	}
	cached := false
	if entry, ok := i.cache.Get(companyID, ref.PositionID); ok {
		cached = true
		i.applyEffective(&result, entry)
	} else {
		effective, err := i.resolve(ctx, companyID, ref.PositionID, time.Time{})
		if err != nil {
			log.WithError(err).
				WithField("company_id", companyID).
				WithField("position_id", ref.PositionID).
				WithField("item_id", ref.ItemID).
				Warn("ошибка разрешения исполнителя, используется исходный")
		} else if effective != nil {
			i.applyEffective(&result, *effective)
		}
	}
	result.UsedCache = cached
	result.ResolvedAt = time.Now()
	result.ResolutionTimeMs = time.Since(started).Milliseconds()
	return result
}

func (i *impl) applyEffective(target *orgapimodels.WorkItemAssignmentContext, effective orgapimodels.EffectiveAssignment) {
	target.EffectiveUserID = effective.UserID
	target.EffectiveAssignmentID = effective.SourceAssignmentID
	if effective.IsDelegated {
		// цепочка делегирования строго в один переход
		target.DelegationChain = []dbmodels.DelegationChainEntry{
			{
				DelegationID: effective.DelegationID,
				FromUserID:   effective.SourceUserID,
				ToUserID:     effective.UserID,
				Reason:       effective.DelegationReason,
			},
		}
	}
}

// ResolveMany - пакетное разрешение с ограниченным параллелизмом,
// порядок результатов совпадает с порядком запроса
func (i *impl) ResolveMany(ctx context.Context, companyID string, items []orgapimodels.WorkItemRef) []orgapimodels.WorkItemAssignmentContext {
	started := time.Now()
	results := make([]orgapimodels.WorkItemAssignmentContext, len(items))
	semaphore := make(chan struct{}, i.batchParallelism)
	wg := sync.WaitGroup{}
	for idx, item := range items {
		wg.Add(1)
		go func(idx int, item orgapimodels.WorkItemRef) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			results[idx] = i.ResolveWorkItem(ctx, companyID, item)
		}(idx, item)
	}
	wg.Wait()
	total := time.Since(started)
	logger := log.WithField("company_id", companyID).
		WithField("item_count", len(items)).
		WithField("total_ms", total.Milliseconds())
	if len(items) > 0 {
		logger = logger.WithField("avg_ms", total.Milliseconds()/int64(len(items)))
	}
	logger.Info("пакетное разрешение исполнителей выполнено")
	return results
}

func (i *impl) record(positionID string, duration time.Duration, usedCache bool) {
	if i.monitor == nil {
		return
	}
	i.monitor.Record(resolutionmonitor.Sample{
		PositionID: positionID,
		Duration:   duration,
		UsedCache:  usedCache,
	})
}
