package create_booking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

// parseRequest проверяет входные данные без обращения к хранилищу
func parseRequest(req *Request) (*submission, error) {
	if req.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime %q", ErrInvalidTimeFormat, req.StartTime)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxClientNameLength {
		return nil, fmt.Errorf("%w: clientName is too long", ErrInvalidInput)
	}

	if isBlank(req.ClientEmail) && isBlank(req.ClientPhone) {
		return nil, fmt.Errorf("%w: clientEmail or clientPhone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	attendees := req.Attendees
	if attendees == 0 {
		attendees = domain.MinAttendees
	}
	if attendees < domain.MinAttendees {
		return nil, fmt.Errorf("%w: attendees must be positive", ErrInvalidInput)
	}

	return &submission{
		state:     StateRequested,
		date:      timeutil.FormatDate(date),
		startTime: startTime,
		attendees: attendees,
	}, nil
}

// validateAgainstSettings ограничения тенанта: тип бронирования и число участников
func validateAgainstSettings(req *Request, sub *submission, settings domain.TenantSettings) error {
	if !settings.AllowsBookingType(req.BookingType) {
		return fmt.Errorf("%w: booking type is not allowed", ErrInvalidInput)
	}

	maxAttendees := settings.MaxAttendees
	if maxAttendees < domain.MinAttendees {
		maxAttendees = domain.DefaultMaxAttendees
	}
	if sub.attendees > maxAttendees {
		return fmt.Errorf("%w: at most %d attendees allowed", ErrInvalidInput, maxAttendees)
	}

	return nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// trimmed nil для пустых строк
func trimmed(s *string) *string {
	if isBlank(s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
