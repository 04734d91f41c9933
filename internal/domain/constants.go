package domain

// Default tenant settings
const (
	DefaultTimezone              = "UTC"
	DefaultMinBookingNoticeHours = 24
	DefaultMaxAttendees          = 1
)

// Business validation constants
const (
	MinBookingNoticeHours       = 0
	MaxBookingNoticeHours       = 720 // 30 дней
	MinAttendees                = 1
	MaxAttendeesLimit           = 100
	MaxAllowedBookingTypes      = 20
	MaxBookingTypeLength        = 64
	MaxClientNameLength         = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxRulesPerDay              = 48
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
