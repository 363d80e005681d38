package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivityType is the closed set of categories an Activity can belong to.
// The string value is the persisted tag.
type ActivityType string

const (
	ActivityTransport     ActivityType = "transport"
	ActivityAccommodation ActivityType = "accommodation"
	ActivityActivity      ActivityType = "activity"
	ActivityFood          ActivityType = "food"
	ActivityOther         ActivityType = "other"
)

// ActivityTypes returns every category in display order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityTransport,
		ActivityAccommodation,
		ActivityActivity,
		ActivityFood,
		ActivityOther,
	}
}

// ParseActivityType converts a tag into an ActivityType.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseActivityType(s string) (ActivityType, error) {
	want := ActivityType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range ActivityTypes() {
		if t == want {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity type %q", ErrValidation, s)
}

// Icon returns the rendering icon key for the category.
func (t ActivityType) Icon() string {
	switch t {
	case ActivityTransport:
		return "airplane"
	case ActivityAccommodation:
		return "bed.double"
	case ActivityActivity:
		return "star"
	case ActivityFood:
		return "fork.knife"
	default:
		return "mappin.and.ellipse"
	}
}

// Color returns the rendering color key for the category.
func (t ActivityType) Color() string {
	switch t {
	case ActivityTransport:
		return "orange"
	case ActivityAccommodation:
		return "blue"
	case ActivityActivity:
		return "green"
	case ActivityFood:
		return "red"
	default:
		return "gray"
	}
}

// Activity is a single scheduled event within a trip.
// Duration is free text; nil and "" both mean no duration was set.
type Activity struct {
	ID       uuid.UUID    `json:"id"`
	Time     time.Time    `json:"time"`
	Title    string       `json:"title"`
	Location string       `json:"location"`
	Type     ActivityType `json:"type"`
	Duration *string      `json:"duration,omitempty"`
}

// NewActivity builds an Activity with a fresh id. Fields are stored verbatim;
// an empty duration is stored as absent.
func NewActivity(at time.Time, title, location string, typ ActivityType, duration string) Activity {
	a := Activity{
		ID:       uuid.New(),
		Time:     at,
		Title:    title,
		Location: location,
		Type:     typ,
	}
	if duration != "" {
		a.Duration = &duration
	}
	return a
}

// DurationText returns the duration, or "" when none is set.
func (a Activity) DurationText() string {
	if a.Duration == nil {
		return ""
	}
	return *a.Duration
}

// HasDuration reports whether a non-empty duration is set.
func (a Activity) HasDuration() bool {
	return a.DurationText() != ""
}
