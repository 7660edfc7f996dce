package lock

import (
	"context"
	"sync"
	"time"
)

// Блокировки по строковому ключу в пределах процесса. Используются для
// сериализации операций над пересекающимися ресурсами, например ротаций
// по одной и той же должности.

var lockMap sync.Map

const retryInterval = 50 * time.Millisecond

// WithDelay пытается захватить ключ в течение wait и выполняет safeCode
// под блокировкой. Возвращает false если ключ занят всё время ожидания
// или контекст завершён
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	deadline := time.After(wait)
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		if _, busy := lockMap.LoadOrStore(key, struct{}{}); !busy {
			defer lockMap.Delete(key)
			return true, safeCode()
		}
		select {
		case <-deadline:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-ticker.C:
		}
	}
}
