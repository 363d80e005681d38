// Package service contains the form-boundary rules for the itinerary planner.
// Services trim and validate user input, build entities, and translate
// ignored store outcomes into domain.ErrNotFound for presentation layers.
// No persistence lives here; services depend on the Store interface.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// Store is the subset of *store.TripStore the services depend on.
type Store interface {
	Trips() []domain.Trip
	AddTrip(ctx context.Context, trip domain.Trip) domain.Outcome
	DeleteTrip(ctx context.Context, index int) domain.Outcome
	RemoveTrip(ctx context.Context, id uuid.UUID) domain.Outcome
	EditTrip(ctx context.Context, id uuid.UUID, fn func(*domain.Trip)) domain.Outcome
	GetTrip(id uuid.UUID) (domain.Trip, bool)
	AddActivity(ctx context.Context, tripID uuid.UUID, a domain.Activity) domain.Outcome
	DeleteActivity(ctx context.Context, tripID uuid.UUID, index int) domain.Outcome
	UpdateActivity(ctx context.Context, tripID uuid.UUID, index int, a domain.Activity) domain.Outcome
}

// TripInput is the raw trip form.
type TripInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
}

// TripService implements the trip form workflows.
type TripService struct {
	store Store
}

// NewTripService constructs a TripService backed by the provided Store.
func NewTripService(s Store) *TripService {
	return &TripService{store: s}
}

// Create validates the form and appends a new trip.
// Returns domain.ErrValidation if input violates the form rules.
func (s *TripService) Create(ctx context.Context, in TripInput) (domain.Trip, error) {
	in, err := normalizeTrip(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	trip := domain.NewTrip(in.Title, in.StartDate, in.EndDate)
	s.store.AddTrip(ctx, trip)
	return trip, nil
}

// GetByID returns a trip's current state.
// Returns domain.ErrNotFound if no trip has that id.
func (s *TripService) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, ok := s.store.GetTrip(id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: trip %w", domain.ErrNotFound)
	}
	return trip, nil
}

// List returns every trip in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(_ context.Context) ([]domain.Trip, error) {
	trips := s.store.Trips()
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips plus the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error) {
	trips, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	lo, hi := p.Window(len(trips))
	return trips[lo:hi], len(trips), nil
}

// Update validates the form and replaces the trip's title and dates.
// The trip keeps its id and activities.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, in TripInput) (domain.Trip, error) {
	in, err := normalizeTrip(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	out := s.store.EditTrip(ctx, id, func(t *domain.Trip) {
		t.Title = in.Title
		t.StartDate = in.StartDate
		t.EndDate = in.EndDate
	})
	if !out.Applied() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: trip %w", domain.ErrNotFound)
	}
	trip, ok := s.store.GetTrip(id)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: trip %w", domain.ErrNotFound)
	}
	return trip, nil
}

// Delete removes a trip by id.
// Returns domain.ErrNotFound if no trip has that id.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if out := s.store.RemoveTrip(ctx, id); !out.Applied() {
		return fmt.Errorf("service.TripService.Delete: trip %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteAt removes the trip at a list position, as shown by List.
// Returns domain.ErrNotFound if the position is out of range.
func (s *TripService) DeleteAt(ctx context.Context, index int) error {
	if out := s.store.DeleteTrip(ctx, index); !out.Applied() {
		return fmt.Errorf("service.TripService.DeleteAt: trip %w", domain.ErrNotFound)
	}
	return nil
}

// At returns the trip at a list position, as shown by List.
func (s *TripService) At(_ context.Context, index int) (domain.Trip, error) {
	trips := s.store.Trips()
	if index < 0 || index >= len(trips) {
		return domain.Trip{}, fmt.Errorf("service.TripService.At: trip %w", domain.ErrNotFound)
	}
	return trips[index], nil
}

// UpdateAt validates the form and replaces the title and dates of the trip
// at a list position, keeping its id and activities. The position is
// resolved once; the edit then targets that trip by id.
func (s *TripService) UpdateAt(ctx context.Context, index int, in TripInput) (domain.Trip, error) {
	in, err := normalizeTrip(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateAt: %w", err)
	}
	trip, err := s.At(ctx, index)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateAt: %w", err)
	}
	out := s.store.EditTrip(ctx, trip.ID, func(t *domain.Trip) {
		t.Title = in.Title
		t.StartDate = in.StartDate
		t.EndDate = in.EndDate
	})
	if !out.Applied() {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateAt: trip %w", domain.ErrNotFound)
	}
	trip, ok := s.store.GetTrip(trip.ID)
	if !ok {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateAt: trip %w", domain.ErrNotFound)
	}
	return trip, nil
}

// normalizeTrip enforces the trip form rules.
//   - Title is trimmed and must be non-empty.
//   - EndDate must not be before StartDate (a same-day trip is valid).
func normalizeTrip(in TripInput) (TripInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if in.EndDate.Before(in.StartDate) {
		return in, fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return in, nil
}
