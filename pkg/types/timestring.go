package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

const (
	layoutSeconds = "15:04:05"
	layoutMinutes = "15:04"
	secondsPerDay = 24 * 60 * 60
)

// TimeString время суток (wall clock) в формате HH:MM:SS.
// Хранит только время без даты и часового пояса.
type TimeString string

// NewTimeString берет время суток из time.Time в его собственной локации
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layoutSeconds))
}

// NewTimeStringFromString парсит "HH:MM" или "HH:MM:SS" и нормализует к "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{layoutSeconds, layoutMinutes} {
		if len(s) != len(layout) {
			continue
		}
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewTimeString(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат HH:MM:SS
func (t TimeString) Validate() error {
	_, err := t.Seconds()
	return err
}

// Clock возвращает часы, минуты и секунды
func (t TimeString) Clock() (hour, min, sec int, err error) {
	parsed, err := time.Parse(layoutSeconds, string(t))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour(), parsed.Minute(), parsed.Second(), nil
}

// Seconds количество секунд от полуночи
func (t TimeString) Seconds() (int, error) {
	h, m, s, err := t.Clock()
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + s, nil
}

// AddMinutes сдвигает время. Выход за пределы суток считается ошибкой.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	secs, err := t.Seconds()
	if err != nil {
		return "", err
	}
	total := secs + minutes*60
	if total < 0 || total >= secondsPerDay {
		return "", fmt.Errorf("%w: %s%+d minutes crosses day boundary", ErrInvalidTimeString, t, minutes)
	}
	return fromSeconds(total), nil
}

// IsBefore сравнивает время суток. Некорректные значения считаются несравнимыми.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Seconds()
	b, errB := other.Seconds()
	return errA == nil && errB == nil && a < b
}

// IsAfter сравнивает время суток
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// Scan реализует sql.Scanner (Postgres TIME приходит как []byte "09:00:00")
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// UnmarshalJSON принимает "HH:MM" и "HH:MM:SS"
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *TimeString) scanString(s string) error {
	// TIME может прийти с дробной частью секунд: "09:00:00.000000"
	if idx := strings.IndexByte(s, '.'); idx > 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func fromSeconds(total int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60))
}
