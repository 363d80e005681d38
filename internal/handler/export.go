package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_end_date",
	"activity_time", "activity_title", "activity_location",
	"activity_type", "activity_duration",
}

// ExportRow is the JSON representation of one export row.
// Activity fields are omitted for trips with no activities.
type ExportRow struct {
	TripID           uuid.UUID          `json:"trip_id"`
	TripTitle        string             `json:"trip_title"`
	TripStartDate    openapi_types.Date `json:"trip_start_date"`
	TripEndDate      openapi_types.Date `json:"trip_end_date"`
	ActivityTime     *time.Time         `json:"activity_time,omitempty"`
	ActivityTitle    *string            `json:"activity_title,omitempty"`
	ActivityLocation *string            `json:"activity_location,omitempty"`
	ActivityType     *string            `json:"activity_type,omitempty"`
	ActivityDuration *string            `json:"activity_duration,omitempty"`
}

// GetExport handles GET /export.
// It returns one row per activity across all trips.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToResponse maps a domain.ExportRow to its JSON representation.
// Empty activity strings become nil pointers (omitempty in JSON).
func domainRowToResponse(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripID:        tripID,
		TripTitle:     r.TripTitle,
		TripStartDate: parseDate(r.TripStartDate),
		TripEndDate:   parseDate(r.TripEndDate),
		ActivityTime:  r.ActivityTime,
	}
	row.ActivityTitle = optional(r.ActivityTitle)
	row.ActivityLocation = optional(r.ActivityLocation)
	row.ActivityType = optional(r.ActivityType)
	row.ActivityDuration = optional(r.ActivityDuration)
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A nil activity time is encoded as an empty string.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	activityTime := ""
	if r.ActivityTime != nil {
		activityTime = r.ActivityTime.UTC().Format(time.RFC3339)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		r.TripStartDate,
		r.TripEndDate,
		activityTime,
		r.ActivityTitle,
		r.ActivityLocation,
		r.ActivityType,
		r.ActivityDuration,
	}
}

// parseDate parses a "2006-01-02" string produced by domain.ExportRows.
// A malformed date yields the zero Date.
func parseDate(s string) openapi_types.Date {
	t, _ := time.Parse(time.DateOnly, s)
	return openapi_types.Date{Time: t}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
