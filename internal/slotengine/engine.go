// Package slotengine turns weekly availability rules into the bookable slots of one date.
//
// Resolve is a pure function of its Input: it performs no I/O and holds no state,
// so it is safe to call concurrently. Callers read rules and bookings as close
// to the call as they can; the booking workflow does so inside its transaction.
package slotengine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

var (
	ErrInvalidDate       = timeutil.ErrInvalidDate
	ErrInvalidTimeFormat = timeutil.ErrInvalidTimeFormat
)

// Input снимок данных, по которому считаются слоты
type Input struct {
	TenantID    uuid.UUID
	Date        string // YYYY-MM-DD в часовом поясе тенанта
	Rules       []*domain.AvailabilityRule
	Bookings    []*domain.Booking
	NoticeHours int
	Location    *time.Location // nil = UTC
	Now         time.Time
}

// Resolve returns the slots of in.Date ordered by start instant.
//
// A rule yields a slot only when its weekday matches the date and its start
// instant is not earlier than Now + NoticeHours. A slot is booked iff an
// active booking on that date starts at exactly the same wall-clock time.
// No matching rules, or every candidate inside the notice window, gives an
// empty result rather than an error. Overlapping rules are not deduplicated.
func Resolve(in Input) ([]domain.TimeSlot, error) {
	date, err := timeutil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	// 1. Правила на этот день недели
	weekday := timeutil.DayOfWeek(date)
	matching := make([]*domain.AvailabilityRule, 0, len(in.Rules))
	for _, rule := range in.Rules {
		if rule.DayOfWeek == weekday {
			matching = append(matching, rule)
		}
	}
	if len(matching) == 0 {
		return []domain.TimeSlot{}, nil
	}

	// 2. Минимальное время начала с учётом notice
	minBookable := earliestStart(in.Now, in.NoticeHours)

	// 3. Кандидаты
	booked := bookedStarts(date, in.Bookings)
	slots := make([]domain.TimeSlot, 0, len(matching))
	for _, rule := range matching {
		startsAt, err := timeutil.Combine(date, rule.StartTime, loc)
		if err != nil {
			return nil, fmt.Errorf("rule id=%d start: %w", rule.ID, err)
		}
		endsAt, err := timeutil.Combine(date, rule.EndTime, loc)
		if err != nil {
			return nil, fmt.Errorf("rule id=%d end: %w", rule.ID, err)
		}

		if startsAt.Before(minBookable) {
			continue
		}

		// 4. Занятость
		startSec, _ := rule.StartTime.Seconds()
		_, isBooked := booked[startSec]

		slots = append(slots, domain.TimeSlot{
			Start:    rule.StartTime,
			End:      rule.EndTime,
			StartsAt: startsAt.UTC(),
			EndsAt:   endsAt.UTC(),
			IsBooked: isBooked,
		})
	}

	// 5. Сортировка по абсолютному времени начала
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartsAt.Before(slots[j].StartsAt)
	})

	return slots, nil
}

// ApplyNotice drops slots that start before now + noticeHours.
// Slots resolved earlier (e.g. read from cache) pass through it so the notice
// window is always checked against the current time.
func ApplyNotice(slots []domain.TimeSlot, noticeHours int, now time.Time) []domain.TimeSlot {
	minBookable := earliestStart(now, noticeHours)
	result := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.StartsAt.Before(minBookable) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// earliestStart первый момент, на который ещё можно записаться
func earliestStart(now time.Time, noticeHours int) time.Time {
	if noticeHours < 0 {
		noticeHours = 0
	}
	return now.Add(time.Duration(noticeHours) * time.Hour)
}

// Find returns the slot starting at start, if any
func Find(slots []domain.TimeSlot, start types.TimeString) (domain.TimeSlot, bool) {
	want, err := start.Seconds()
	if err != nil {
		return domain.TimeSlot{}, false
	}
	for _, s := range slots {
		if got, err := s.Start.Seconds(); err == nil && got == want {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}

// bookedStarts start times (seconds from midnight) held by active bookings on date.
// A booking without a date is assumed to belong to it.
func bookedStarts(date time.Time, bookings []*domain.Booking) map[int]struct{} {
	starts := make(map[int]struct{}, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if !b.BookingDate.IsZero() && !timeutil.SameDate(b.BookingDate, date) {
			continue
		}
		sec, err := b.StartTime.Seconds()
		if err != nil {
			continue
		}
		starts[sec] = struct{}{}
	}
	return starts
}
