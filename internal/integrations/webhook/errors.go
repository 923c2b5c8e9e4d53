package webhook

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента (сборка запроса, сеть)
	ErrInternal = errors.New("webhook client: internal error")

	// ErrUnexpectedStatus возвращается, когда получатель ответил не 2xx
	ErrUnexpectedStatus = errors.New("webhook client: unexpected status code")

	// ErrDispatcherClosed возвращается при закрытии уже закрытого диспетчера
	ErrDispatcherClosed = errors.New("webhook dispatcher: closed")
)
