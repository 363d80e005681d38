// Package domain contains the core data types for the itinerary planner.
// This package has no dependencies on any other internal package and is
// imported by every other internal package (repo, store, service, handler, cli).
package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Trip is a planned journey with a date range and a time-ordered list of
// activities. Activities is always sorted ascending by Time after any
// insertion or update.
//
// The entity does not validate Title or StartDate <= EndDate; that happens
// at the form boundary (see service.TripService).
type Trip struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	Activities []Activity `json:"activities"`
}

// NewTrip builds a Trip with a fresh id and no activities.
func NewTrip(title string, start, end time.Time) Trip {
	return Trip{
		ID:         uuid.New(),
		Title:      title,
		StartDate:  start,
		EndDate:    end,
		Activities: []Activity{},
	}
}

// AddActivity appends a and re-sorts the list by time.
func (t *Trip) AddActivity(a Activity) {
	t.Activities = append(t.Activities, a)
	t.sortActivities()
}

// RemoveActivity removes the activity at index i.
// An out-of-range index leaves the trip unchanged.
func (t *Trip) RemoveActivity(i int) Outcome {
	if !inRange(i, len(t.Activities)) {
		return IgnoredOutOfRange
	}
	t.Activities = slices.Delete(t.Activities, i, i+1)
	return Applied
}

// UpdateActivity replaces the activity at index i with a and re-sorts.
// The replacement may end up at a different index afterwards.
// An out-of-range index leaves the trip unchanged.
func (t *Trip) UpdateActivity(i int, a Activity) Outcome {
	if !inRange(i, len(t.Activities)) {
		return IgnoredOutOfRange
	}
	t.Activities[i] = a
	t.sortActivities()
	return Applied
}

// sortActivities orders activities by time. The sort is stable, so entries
// with equal timestamps keep their relative order.
func (t *Trip) sortActivities() {
	slices.SortStableFunc(t.Activities, func(a, b Activity) int {
		return a.Time.Compare(b.Time)
	})
}

// Clone returns a deep copy that shares no mutable state with t.
func (t Trip) Clone() Trip {
	out := t
	out.Activities = make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		if a.Duration != nil {
			d := *a.Duration
			a.Duration = &d
		}
		out.Activities[i] = a
	}
	return out
}

// Days returns the inclusive number of calendar days the trip spans.
// Returns 0 when EndDate is before StartDate.
func (t Trip) Days() int {
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ActivitySummary returns "1 activity" or "N activities".
func (t Trip) ActivitySummary() string {
	n := len(t.Activities)
	if n == 1 {
		return "1 activity"
	}
	return fmt.Sprintf("%d activities", n)
}
