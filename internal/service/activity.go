package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// ActivityInput is the raw activity form. Type is the string tag.
type ActivityInput struct {
	Time     time.Time
	Title    string
	Location string
	Type     string
	Duration string
}

// ActivityService implements the activity form workflows.
// Activities are addressed by their current index within the trip, which
// is how list screens refer to rows.
type ActivityService struct {
	store Store
}

// NewActivityService constructs an ActivityService backed by the provided Store.
func NewActivityService(s Store) *ActivityService {
	return &ActivityService{store: s}
}

// Add validates the form and inserts a new activity into the trip.
// Returns the trip's state after the insert.
func (s *ActivityService) Add(ctx context.Context, tripID uuid.UUID, in ActivityInput) (domain.Trip, error) {
	a, err := buildActivity(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ActivityService.Add: %w", err)
	}
	if out := s.store.AddActivity(ctx, tripID, a); !out.Applied() {
		return domain.Trip{}, fmt.Errorf("service.ActivityService.Add: %w", outcomeErr(out))
	}
	return s.current(tripID, "Add")
}

// Update validates the form and replaces the activity at index.
// The replacement gets a fresh id and may move to a different index.
func (s *ActivityService) Update(ctx context.Context, tripID uuid.UUID, index int, in ActivityInput) (domain.Trip, error) {
	a, err := buildActivity(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	if out := s.store.UpdateActivity(ctx, tripID, index, a); !out.Applied() {
		return domain.Trip{}, fmt.Errorf("service.ActivityService.Update: %w", outcomeErr(out))
	}
	return s.current(tripID, "Update")
}

// Delete removes the activity at index.
func (s *ActivityService) Delete(ctx context.Context, tripID uuid.UUID, index int) (domain.Trip, error) {
	if out := s.store.DeleteActivity(ctx, tripID, index); !out.Applied() {
		return domain.Trip{}, fmt.Errorf("service.ActivityService.Delete: %w", outcomeErr(out))
	}
	return s.current(tripID, "Delete")
}

func (s *ActivityService) current(tripID uuid.UUID, op string) (domain.Trip, error) {
	trip, ok := s.store.GetTrip(tripID)
	if !ok {
		// Deleted by a concurrent caller between the mutation and this read.
		return domain.Trip{}, fmt.Errorf("service.ActivityService.%s: trip %w", op, domain.ErrNotFound)
	}
	return trip, nil
}

// outcomeErr maps an ignored outcome to a wrapped domain.ErrNotFound.
func outcomeErr(out domain.Outcome) error {
	if out == domain.IgnoredOutOfRange {
		return fmt.Errorf("activity %w", domain.ErrNotFound)
	}
	return fmt.Errorf("trip %w", domain.ErrNotFound)
}

// buildActivity enforces the activity form rules and constructs the entity.
//   - Title and Location are trimmed and must be non-empty.
//   - Type must be one of the known tags.
//   - Duration is trimmed; blank means none.
func buildActivity(in ActivityInput) (domain.Activity, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Activity{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return domain.Activity{}, fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	typ, err := domain.ParseActivityType(in.Type)
	if err != nil {
		return domain.Activity{}, err
	}
	if in.Time.IsZero() {
		return domain.Activity{}, fmt.Errorf("%w: time is required", domain.ErrValidation)
	}
	return domain.NewActivity(in.Time, title, location, typ, strings.TrimSpace(in.Duration)), nil
}
