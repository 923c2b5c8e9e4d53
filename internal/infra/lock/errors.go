package lock

import "errors"

var (
	// ErrLockHeld возвращается, когда блокировка уже захвачена другим владельцем
	ErrLockHeld = errors.New("lock: already held")

	// ErrLockBackend возвращается при ошибке хранилища блокировок
	ErrLockBackend = errors.New("lock: backend error")
)
