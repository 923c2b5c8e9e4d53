package lock

import (
	"context"
	"sync"
)

// LocalLocker блокировка внутри одного процесса
// Используется, когда Redis не настроен (один экземпляр сервиса)
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker создает локальную блокировку
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

// TryLock захватывает блокировку name без ожидания
func (l *LocalLocker) TryLock(_ context.Context, name string) (UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[name]; ok {
		return nil, ErrLockHeld
	}
	l.held[name] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
