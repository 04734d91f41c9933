package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("create_booking: tenant not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = timeutil.ErrInvalidDate

	// ErrInvalidTimeFormat возвращается при некорректном времени начала
	ErrInvalidTimeFormat = timeutil.ErrInvalidTimeFormat

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrSlotUnavailable слот отсутствует среди рассчитанных, уже занят или занят параллельным запросом.
	// Клиент должен перезапросить слоты.
	ErrSlotUnavailable = errors.New("create_booking: slot unavailable")

	// ErrStoreUnavailable возвращается при ошибках хранилища, без повторов
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
