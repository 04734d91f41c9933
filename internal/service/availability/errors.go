package availability

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило не найдено
	ErrRuleNotFound = errors.New("availability: rule not found")

	// ErrRuleOverlap возвращается, когда новое окно пересекается с существующим в тот же день
	ErrRuleOverlap = errors.New("availability: rule overlaps an existing rule")

	// ErrAccessDenied возвращается, когда администратор не управляет тенантом
	ErrAccessDenied = errors.New("availability: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
