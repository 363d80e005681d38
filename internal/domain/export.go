package domain

import "time"

// ExportRow is a single row in the flat itinerary export: one row per
// activity, with trip fields repeated. Trips with no activities yield one
// row with zero values for all activity fields.
type ExportRow struct {
	TripID        string
	TripTitle     string
	TripStartDate string // "2006-01-02"
	TripEndDate   string // "2006-01-02"

	ActivityTime     *time.Time
	ActivityTitle    string
	ActivityLocation string
	ActivityType     string
	ActivityDuration string
}

// ExportRows flattens trips into export rows, preserving collection order
// and each trip's activity order.
func ExportRows(trips []Trip) []ExportRow {
	rows := make([]ExportRow, 0, len(trips))
	for _, t := range trips {
		base := ExportRow{
			TripID:        t.ID.String(),
			TripTitle:     t.Title,
			TripStartDate: t.StartDate.Format(time.DateOnly),
			TripEndDate:   t.EndDate.Format(time.DateOnly),
		}
		if len(t.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range t.Activities {
			row := base
			at := a.Time
			row.ActivityTime = &at
			row.ActivityTitle = a.Title
			row.ActivityLocation = a.Location
			row.ActivityType = string(a.Type)
			row.ActivityDuration = a.DurationText()
			rows = append(rows, row)
		}
	}
	return rows
}
