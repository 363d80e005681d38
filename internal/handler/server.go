// Package handler implements the HTTP handlers for the itinerary API.
// All handlers are methods on Server; Routes mounts them on a chi router.
// Methods are split into resource files (health.go, trip.go, activity.go,
// export.go) but share the same Server struct and its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the store.
type TripServicer interface {
	Create(ctx context.Context, in service.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int, error)
	Update(ctx context.Context, id uuid.UUID, in service.TripInput) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityServicer defines the activity operations the handlers depend on.
type ActivityServicer interface {
	Add(ctx context.Context, tripID uuid.UUID, in service.ActivityInput) (domain.Trip, error)
	Update(ctx context.Context, tripID uuid.UUID, index int, in service.ActivityInput) (domain.Trip, error)
	Delete(ctx context.Context, tripID uuid.UUID, index int) (domain.Trip, error)
}

// ExportServicer produces the flat export of all trips and activities.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the handler dependencies.
type Server struct {
	trips      TripServicer
	activities ActivityServicer
	export     ExportServicer
	openAPI    []byte
}

// NewServer constructs the Server with all its dependencies.
// openAPI is the document served at /openapi.yaml; nil disables the route.
func NewServer(trips TripServicer, activities ActivityServicer, export ExportServicer, openAPI []byte) *Server {
	return &Server{trips: trips, activities: activities, export: export, openAPI: openAPI}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a chi router with every endpoint registered.
// Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	if s.openAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}
	if s.trips != nil {
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				if s.activities != nil {
					r.Post("/activities", s.AddActivity)
					r.Put("/activities/{index}", s.UpdateActivity)
					r.Delete("/activities/{index}", s.DeleteActivity)
				}
			})
		})
	}
	if s.export != nil {
		r.Get("/export", s.GetExport)
	}
	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.openAPI)
}
