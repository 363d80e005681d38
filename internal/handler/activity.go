package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/internal/service"
)

// ActivityRequest is the body of POST /trips/{id}/activities and
// PUT /trips/{id}/activities/{index}.
type ActivityRequest struct {
	Time     *time.Time `json:"time"`
	Title    string     `json:"title"`
	Location string     `json:"location"`
	Type     string     `json:"type"`
	Duration *string    `json:"duration,omitempty"`
}

// Activity is the JSON representation of an activity. Index is its current
// position in the trip, which is how the activity routes address it.
type Activity struct {
	Index    int       `json:"index"`
	ID       uuid.UUID `json:"id"`
	Time     time.Time `json:"time"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Type     string    `json:"type"`
	Duration *string   `json:"duration,omitempty"`
	Icon     string    `json:"icon"`
	Color    string    `json:"color"`
}

// AddActivity handles POST /trips/{id}/activities.
// Responds with the trip after the insert.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var body ActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in, err := requestToActivityInput(body)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	trip, err := s.activities.Add(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// UpdateActivity handles PUT /trips/{id}/activities/{index}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	index, ok := activityIndex(w, r)
	if !ok {
		return
	}
	var body ActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in, err := requestToActivityInput(body)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	trip, err := s.activities.Update(r.Context(), id, index, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// DeleteActivity handles DELETE /trips/{id}/activities/{index}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	index, ok := activityIndex(w, r)
	if !ok {
		return
	}

	trip, err := s.activities.Delete(r.Context(), id, index)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// activityIndex parses the {index} path parameter.
func activityIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		notFound(w, "activity not found")
		return 0, false
	}
	return index, true
}

func requestToActivityInput(body ActivityRequest) (service.ActivityInput, error) {
	if body.Time == nil {
		return service.ActivityInput{}, errors.New("time is required")
	}
	in := service.ActivityInput{
		Time:     *body.Time,
		Title:    body.Title,
		Location: body.Location,
		Type:     body.Type,
	}
	if body.Duration != nil {
		in.Duration = *body.Duration
	}
	return in, nil
}

func activityToResponse(index int, a domain.Activity) Activity {
	return Activity{
		Index:    index,
		ID:       a.ID,
		Time:     a.Time,
		Title:    a.Title,
		Location: a.Location,
		Type:     string(a.Type),
		Duration: a.Duration,
		Icon:     a.Type.Icon(),
		Color:    a.Type.Color(),
	}
}
