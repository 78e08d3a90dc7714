package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventFilter narrows an event listing to a calendar month in Location.
// A zero Year or Month disables the filter.
type EventFilter struct {
	Year     int
	Month    int
	Location *time.Location
}

// Bounds returns the half-open interval [from, to) covered by the filter.
func (f EventFilter) Bounds() (from, to time.Time, ok bool) {
	if f.Year == 0 || f.Month < 1 || f.Month > 12 {
		return time.Time{}, time.Time{}, false
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	from = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0), true
}

type EventPage struct {
	Total  int64
	Events []Event
}

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Create persists ev. Times are normalized to UTC, whole seconds.
func (s *EventStore) Create(ctx context.Context, ev *Event) error {
	ev.StartDatetime = ev.StartDatetime.UTC().Truncate(time.Second)
	ev.EndDatetime = ev.EndDatetime.UTC().Truncate(time.Second)

	if err := s.db.WithContext(ctx).Omit("Host", "Participants").Create(ev).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// List returns events ordered by start time. With a month filter only events
// whose interval intersects that month are returned.
func (s *EventStore) List(ctx context.Context, page, limit int, filter EventFilter) (EventPage, error) {
	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&Event{})
		if from, to, ok := filter.Bounds(); ok {
			q = q.Where("start_datetime < ? AND end_datetime > ?", to.UTC(), from.UTC())
		}
		return q
	}

	var result EventPage
	if err := query().Count(&result.Total).Error; err != nil {
		return EventPage{}, fmt.Errorf("count events: %w", err)
	}

	err := query().
		Preload("Host").
		Preload("Participants").
		Order("start_datetime ASC, id ASC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&result.Events).Error
	if err != nil {
		return EventPage{}, fmt.Errorf("list events: %w", err)
	}
	return result, nil
}
