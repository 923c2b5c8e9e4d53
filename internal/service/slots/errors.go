package slots

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда свободного слота нет (занят или не существует)
	ErrSlotUnavailable = errors.New("slots: slot unavailable")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("slots: internal error")
)
