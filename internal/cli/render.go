package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pkordes/itinerary/backend/internal/domain"
)

const (
	mediumDate = "Jan 2, 2006"
	shortTime  = "3:04 PM"
	dayHeader  = "Mon, Jan 2"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "62"}).Width(4)
	dayStyle      = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	timeStyle     = lipgloss.NewStyle().Width(9).Align(lipgloss.Right)
	durationStyle = mutedStyle.Italic(true)
)

// typeColors maps an ActivityType color key to a terminal color.
var typeColors = map[string]lipgloss.TerminalColor{
	"orange": lipgloss.AdaptiveColor{Light: "166", Dark: "208"},
	"blue":   lipgloss.AdaptiveColor{Light: "26", Dark: "39"},
	"green":  lipgloss.AdaptiveColor{Light: "28", Dark: "42"},
	"red":    lipgloss.AdaptiveColor{Light: "160", Dark: "203"},
	"gray":   lipgloss.AdaptiveColor{Light: "240", Dark: "245"},
}

// typeGlyphs maps an ActivityType icon key to a terminal glyph.
var typeGlyphs = map[string]string{
	"airplane":           "✈",
	"bed.double":         "⌂",
	"star":               "★",
	"fork.knife":         "♨",
	"mappin.and.ellipse": "•",
}

func typeStyle(t domain.ActivityType) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := typeColors[t.Color()]; ok {
		st = st.Foreground(c)
	}
	return st
}

// FormatDateRange renders "Aug 1, 2025 - Aug 10, 2025".
func FormatDateRange(start, end time.Time) string {
	return start.Format(mediumDate) + " - " + end.Format(mediumDate)
}

// PlannedSummary renders "1 activity planned" / "N activities planned".
func PlannedSummary(t domain.Trip) string {
	return t.ActivitySummary() + " planned"
}

// RenderTripList renders the numbered trip list. Numbers are the positions
// the other trip commands accept.
func RenderTripList(trips []domain.Trip) string {
	if len(trips) == 0 {
		return mutedStyle.Render("No trips yet. Create one with: itinerary trips create --title <title>") + "\n"
	}
	var b strings.Builder
	for i, t := range trips {
		b.WriteString(numberStyle.Render(fmt.Sprintf("%d.", i+1)))
		b.WriteString(titleStyle.Render(t.Title))
		b.WriteString("\n    ")
		b.WriteString(mutedStyle.Render(FormatDateRange(t.StartDate, t.EndDate)))
		b.WriteString("\n    ")
		b.WriteString(mutedStyle.Render(t.ActivitySummary()))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTrip renders a trip header followed by its activities grouped by day.
// Activity numbers are the positions the activity commands accept.
func RenderTrip(t domain.Trip) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(FormatDateRange(t.StartDate, t.EndDate)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(PlannedSummary(t)))
	b.WriteString("\n")

	lastDay := ""
	for i, a := range t.Activities {
		if day := a.Time.Format(dayHeader); day != lastDay {
			b.WriteString(dayStyle.Render(day))
			b.WriteString("\n")
			lastDay = day
		}
		b.WriteString(renderActivity(i, a))
	}
	return b.String()
}

func renderActivity(i int, a domain.Activity) string {
	var b strings.Builder
	b.WriteString(numberStyle.Render(fmt.Sprintf("%d.", i+1)))
	b.WriteString(timeStyle.Render(a.Time.Format(shortTime)))
	b.WriteString("  ")
	b.WriteString(typeStyle(a.Type).Render(typeGlyphs[a.Type.Icon()]))
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(a.Title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", 16))
	b.WriteString(mutedStyle.Render(a.Location))
	b.WriteString("\n")
	if a.HasDuration() {
		b.WriteString(strings.Repeat(" ", 16))
		b.WriteString(durationStyle.Render("Duration: " + a.DurationText()))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTypes renders every activity type with its glyph in its color.
func RenderTypes(types []domain.ActivityType) string {
	var b strings.Builder
	for _, t := range types {
		st := typeStyle(t)
		b.WriteString(st.Render(typeGlyphs[t.Icon()]))
		b.WriteString(" ")
		b.WriteString(st.Render(string(t)))
		b.WriteString("\n")
	}
	return b.String()
}
