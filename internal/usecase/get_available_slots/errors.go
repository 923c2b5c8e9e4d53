package get_available_slots

import "errors"

var (
	// ErrInternal возвращается при ошибках хранилища слотов
	// Некорректный ввод ошибкой не считается: для него возвращается пустой список
	ErrInternal = errors.New("get_available_slots: internal error")
)
