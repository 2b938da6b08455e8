// Package slots owns the clinic's fixed daily menu of bookable times.
package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/SamarthKalavadia/hospital-management-system/internal/clock"
)

// Slot is one entry of the daily menu.
type Slot struct {
	Time      string `json:"time"`
	TimeValue string `json:"timeValue"`
}

// Availability is a menu slot resolved against a date's bookings.
type Availability struct {
	Slot
	IsBooked bool `json:"isBooked"`
}

var menu = buildMenu("09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00")

func buildMenu(values ...string) []Slot {
	out := make([]Slot, 0, len(values))
	for _, v := range values {
		out = append(out, Slot{Time: clock.FormatDisplayTime(v), TimeValue: v})
	}
	return out
}

// Menu returns a copy of the daily menu in chronological order.
func Menu() []Slot {
	return append([]Slot(nil), menu...)
}

// Lookup finds the menu slot for a time value in either accepted format.
func Lookup(timeValue string) (Slot, bool) {
	v, err := clock.NormalizeTimeValue(timeValue)
	if err != nil {
		return Slot{}, false
	}
	for _, s := range menu {
		if s.TimeValue == v {
			return s, true
		}
	}
	return Slot{}, false
}

// IsClosedDay reports whether the clinic is closed on date.
func IsClosedDay(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// Key identifies a (day, time value) pair.
func Key(date time.Time, timeValue string) string {
	return fmt.Sprintf("%s %s", date.Format(time.DateOnly), timeValue)
}

// BookedSource lists the time values already held on a calendar day.
type BookedSource interface {
	BookedTimeValues(ctx context.Context, date time.Time) ([]string, error)
}

// Registry answers availability questions for a date.
type Registry struct {
	source BookedSource
}

func NewRegistry(source BookedSource) *Registry {
	return &Registry{source: source}
}

// ForDate returns every menu slot with its booking state.
func (r *Registry) ForDate(ctx context.Context, date time.Time) ([]Availability, error) {
	booked, err := r.booked(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]Availability, 0, len(menu))
	for _, s := range menu {
		out = append(out, Availability{Slot: s, IsBooked: booked[s.TimeValue]})
	}
	return out, nil
}

// IsFree reports whether timeValue is unclaimed on date. Values outside the
// menu are never free.
func (r *Registry) IsFree(ctx context.Context, date time.Time, timeValue string) (bool, error) {
	s, ok := Lookup(timeValue)
	if !ok {
		return false, nil
	}
	booked, err := r.booked(ctx, date)
	if err != nil {
		return false, err
	}
	return !booked[s.TimeValue], nil
}

func (r *Registry) booked(ctx context.Context, date time.Time) (map[string]bool, error) {
	values, err := r.source.BookedTimeValues(ctx, clock.StartOfDay(date))
	if err != nil {
		return nil, fmt.Errorf("listing booked slots: %w", err)
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set, nil
}
