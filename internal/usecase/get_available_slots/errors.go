package get_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("get_available_slots: tenant not found")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = timeutil.ErrInvalidDate

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrStoreUnavailable возвращается при ошибках хранилища
	ErrStoreUnavailable = errors.New("get_available_slots: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
