package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/internal/service"
)

// TripRequest is the body of POST /trips and PUT /trips/{id}.
// EndDate may be omitted, in which case it defaults to the day after StartDate.
type TripRequest struct {
	Title     string              `json:"title"`
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Days          int                `json:"days"`
	ActivityCount int                `json:"activity_count"`
	Summary       string             `json:"summary"`
	Activities    []Activity         `json:"activities"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in, err := requestToTripInput(body)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Returns every trip in insertion order. When ?page= or ?limit= is given the
// result is paged and X-Total-Count carries the full count.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, pageOK := queryInt(r, "page")
	limit, limitOK := queryInt(r, "limit")

	var (
		trips []domain.Trip
		err   error
	)
	if pageOK || limitOK {
		var total int
		trips, total, err = s.trips.ListPaged(r.Context(), domain.NewPaginationParams(page, limit))
		if err == nil {
			w.Header().Set("X-Total-Count", strconv.Itoa(total))
		}
	} else {
		trips, err = s.trips.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
// Replaces the title and dates; the trip's activities are kept.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in, err := requestToTripInput(body)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	updated, err := s.trips.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- request helpers --------------------------------------------------------

// decodeBody decodes the JSON request body into v.
// On failure it writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		badRequest(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: "payload_too_large", Message: "request body too large"}})
			return false
		}
		badRequest(w, "invalid request body")
		return false
	}
	return true
}

// tripID parses the {id} path parameter. An unparseable id can never match a
// trip, so it is reported as not found.
func tripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, "trip not found")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
// Unparseable values are treated as absent.
func queryInt(r *http.Request, key string) (*int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// --- mapping helpers --------------------------------------------------------

// requestToTripInput converts a TripRequest into the service form.
func requestToTripInput(body TripRequest) (service.TripInput, error) {
	if body.StartDate == nil {
		return service.TripInput{}, errors.New("start_date is required")
	}
	in := service.TripInput{
		Title:     body.Title,
		StartDate: body.StartDate.Time,
		EndDate:   body.StartDate.Time.AddDate(0, 0, 1),
	}
	if body.EndDate != nil {
		in.EndDate = body.EndDate.Time
	}
	return in, nil
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) Trip {
	activities := make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		activities[i] = activityToResponse(i, a)
	}
	return Trip{
		ID:            t.ID,
		Title:         t.Title,
		StartDate:     openapi_types.Date{Time: dateOnly(t.StartDate)},
		EndDate:       openapi_types.Date{Time: dateOnly(t.EndDate)},
		Days:          t.Days(),
		ActivityCount: len(t.Activities),
		Summary:       t.ActivitySummary(),
		Activities:    activities,
	}
}

// dateOnly drops the clock portion, keeping the calendar day of t.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
