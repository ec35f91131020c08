package mapview

import (
	"time"

	"branchout/internal/models"
)

// Window narrows the event list by start time.
type Window string

const (
	WindowAll      Window = "all"
	WindowToday    Window = "today"
	WindowThisWeek Window = "week"
)

// ParseWindow maps a wire value to a Window, defaulting to WindowAll.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowToday:
		return WindowToday
	case WindowThisWeek:
		return WindowThisWeek
	default:
		return WindowAll
	}
}

// VisibleEvents filters events by start time. It is pure: safe to call on
// every update tick, no internal state.
//
// today spans the evaluator's local calendar day, inclusive on both ends.
// week spans [now, now+7d] from the instant of evaluation, so an event that
// started earlier today is excluded. Events with an absent start time are
// excluded from both windows but retained under all.
func VisibleEvents(events []models.Event, w Window, now time.Time) []models.Event {
	if w == WindowAll {
		return events
	}

	var lower, upper time.Time
	switch w {
	case WindowToday:
		lower = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		upper = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999_000_000, now.Location())
	case WindowThisWeek:
		lower = now
		upper = now.Add(7 * 24 * time.Hour)
	default:
		return events
	}

	visible := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.StartTime.IsZero() {
			continue
		}
		if e.StartTime.Before(lower) || e.StartTime.After(upper) {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

// VisiblePlaces returns the full list when the places layer is on, otherwise
// an empty list.
func VisiblePlaces(places []models.Place, show bool) []models.Place {
	if !show {
		return []models.Place{}
	}
	return places
}
