package store

import (
	"encoding/json"
	"fmt"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// encodeTrips serializes the collection as a JSON array of trips.
func encodeTrips(trips []domain.Trip) ([]byte, error) {
	b, err := json.Marshal(trips)
	if err != nil {
		return nil, fmt.Errorf("store.encodeTrips: %w", err)
	}
	return b, nil
}

// decodeTrips parses a JSON array of trips. A JSON null decodes to an empty
// collection, and trips without an activities field get an empty list.
func decodeTrips(b []byte) ([]domain.Trip, error) {
	var trips []domain.Trip
	if err := json.Unmarshal(b, &trips); err != nil {
		return nil, fmt.Errorf("store.decodeTrips: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	for i := range trips {
		if trips[i].Activities == nil {
			trips[i].Activities = []domain.Activity{}
		}
	}
	return trips, nil
}
