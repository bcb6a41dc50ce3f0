// Package locker короткоживущие блокировки по ключу.
// Используется вокруг транзакций бронирования: ключ slots:{professionalId}:{date}
package locker

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotAcquired возвращается, когда блокировку не удалось взять до истечения контекста
	ErrNotAcquired = errors.New("locker: lock not acquired")
)

// DefaultTTL время жизни блокировки, если вызывающий не передал своё
const DefaultTTL = 10 * time.Second

// retryInterval пауза между попытками взять занятую блокировку
const retryInterval = 20 * time.Millisecond

// UnlockFunc снимает блокировку. Повторный вызов безопасен
type UnlockFunc func()

// Locker блокировка по строковому ключу
type Locker interface {
	// Lock ждет освобождения ключа до отмены ctx
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// LockMany берет блокировки на все ключи в отсортированном порядке (без дублей)
// При ошибке уже взятые блокировки снимаются
func LockMany(ctx context.Context, l Locker, ttl time.Duration, keys ...string) (UnlockFunc, error) {
	unique := make(map[string]struct{}, len(keys))
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := unique[k]; ok {
			continue
		}
		unique[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	unlocks := make([]UnlockFunc, 0, len(sorted))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range sorted {
		unlock, err := l.Lock(ctx, key, ttl)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}

	return releaseAll, nil
}
