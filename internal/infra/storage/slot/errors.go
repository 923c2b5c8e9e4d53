package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот с указанным ключом не существует
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotUnavailable возвращается, когда свободного слота с указанным ключом нет
	ErrSlotUnavailable = errors.New("slot.repository: slot unavailable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
