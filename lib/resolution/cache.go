package resolutionhandler

import (
	"sync"

	orgapimodels "mfg-ops-backend/models/api/org"
)

// Кэш разрешённых исполнителей по должностям. Инвалидация выполняется
// подписчиком на события изменений журналов до возврата из мутации.
// Счётчик поколений на ключ защищает от гонки читателя с писателем:
// разрешение, прочитавшее журнал до коммита, не может записать
// устаревший результат поверх выполненной инвалидации.

type assignmentCache struct {
	mx          sync.RWMutex
	entries     map[string]orgapimodels.EffectiveAssignment
	generations map[string]uint64
}

func newAssignmentCache() *assignmentCache {
	return &assignmentCache{
		entries:     map[string]orgapimodels.EffectiveAssignment{},
		generations: map[string]uint64{},
	}
}

func cacheKey(companyID, positionID string) string {
	return companyID + "/" + positionID
}

func (c *assignmentCache) Get(companyID, positionID string) (orgapimodels.EffectiveAssignment, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()
	entry, ok := c.entries[cacheKey(companyID, positionID)]
	return entry, ok
}

// Generation возвращает текущее поколение ключа, снимается до чтения журналов
func (c *assignmentCache) Generation(companyID, positionID string) uint64 {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.generations[cacheKey(companyID, positionID)]
}

// SetIfCurrent сохраняет значение только если ключ не инвалидировался
// с момента снятия поколения
func (c *assignmentCache) SetIfCurrent(companyID, positionID string, generation uint64, entry orgapimodels.EffectiveAssignment) bool {
	c.mx.Lock()
	defer c.mx.Unlock()
	key := cacheKey(companyID, positionID)
	if c.generations[key] != generation {
		return false
	}
	c.entries[key] = entry
	return true
}

func (c *assignmentCache) Invalidate(companyID, positionID string) {
	c.mx.Lock()
	defer c.mx.Unlock()
	key := cacheKey(companyID, positionID)
	delete(c.entries, key)
	c.generations[key]++
}
