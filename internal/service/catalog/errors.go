package catalog

import "errors"

var (
	// ErrResourceNotFound возвращается, когда объект (жилой комплекс) не обслуживается
	ErrResourceNotFound = errors.New("catalog: resource not found")
)
