package reconcile_slots

import "errors"

var (
	// ErrAlreadyRunning возвращается, когда реконсиляция уже выполняется
	ErrAlreadyRunning = errors.New("reconcile_slots: already running")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reconcile_slots: internal error")
)
