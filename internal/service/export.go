package service

import (
	"context"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// ExportService assembles a flat export of every trip and activity.
type ExportService struct {
	store Store
}

// NewExportService constructs an ExportService backed by the provided Store.
func NewExportService(s Store) *ExportService {
	return &ExportService{store: s}
}

// Export returns one ExportRow per activity across all trips.
// Trips with no activities contribute one row with empty activity fields.
func (s *ExportService) Export(_ context.Context) ([]domain.ExportRow, error) {
	return domain.ExportRows(s.store.Trips()), nil
}
