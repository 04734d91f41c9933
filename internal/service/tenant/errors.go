package tenant

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("tenant: tenant not found")

	// ErrAccessDenied возвращается, когда администратор не управляет тенантом
	ErrAccessDenied = errors.New("tenant: access denied")

	// ErrInvalidInput возвращается при некорректных настройках
	ErrInvalidInput = errors.New("tenant: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tenant: internal error")
)
