package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/backend/internal/domain"
	"github.com/pkordes/itinerary/backend/internal/service"
)

// activityTimeLayouts are the accepted --time formats, tried in order.
var activityTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// activityFlags holds the activity form as entered on the command line.
type activityFlags struct {
	at       string
	title    string
	location string
	typ      string
	duration string
}

func (f *activityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.at, "time", "", `Start time ("YYYY-MM-DD HH:MM" or RFC 3339)`)
	cmd.Flags().StringVar(&f.title, "title", "", "Activity title")
	cmd.Flags().StringVar(&f.location, "location", "", "Where it happens")
	cmd.Flags().StringVar(&f.typ, "type", string(domain.ActivityActivity), "Activity type (see: itinerary types)")
	cmd.Flags().StringVar(&f.duration, "duration", "", "Free-text duration, e.g. 2h")
}

// input builds the service form. Flags the user did not set keep the values
// from base, so update only needs the fields that change.
func (f *activityFlags) input(cmd *cobra.Command, base service.ActivityInput) (service.ActivityInput, error) {
	in := base
	if cmd.Flags().Changed("time") || base.Time.IsZero() {
		at, err := parseActivityTime(f.at)
		if err != nil {
			return in, err
		}
		in.Time = at
	}
	if cmd.Flags().Changed("title") || base.Title == "" {
		in.Title = f.title
	}
	if cmd.Flags().Changed("location") || base.Location == "" {
		in.Location = f.location
	}
	if cmd.Flags().Changed("type") || base.Type == "" {
		in.Type = f.typ
	}
	if cmd.Flags().Changed("duration") {
		in.Duration = f.duration
	}
	return in, nil
}

func newActivitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity"},
		Short:   "Activity commands",
	}
	cmd.AddCommand(newActivitiesAddCmd(app))
	cmd.AddCommand(newActivitiesUpdateCmd(app))
	cmd.AddCommand(newActivitiesDeleteCmd(app))
	return cmd
}

func newActivitiesAddCmd(app *App) *cobra.Command {
	var flags activityFlags

	cmd := &cobra.Command{
		Use:   "add <trip>",
		Short: "Add an activity to a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition("trip", args[0])
			if err != nil {
				return err
			}
			in, err := flags.input(cmd, service.ActivityInput{})
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trip, err := s.trips.At(ctx, index)
				if err != nil {
					return err
				}
				trip, err = s.activities.Add(ctx, trip.ID, in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTrip(trip))
				return err
			})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newActivitiesUpdateCmd(app *App) *cobra.Command {
	var flags activityFlags

	cmd := &cobra.Command{
		Use:   "update <trip> <activity>",
		Short: "Edit an activity; unset flags keep their current values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripIndex, err := parsePosition("trip", args[0])
			if err != nil {
				return err
			}
			index, err := parsePosition("activity", args[1])
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trip, err := s.trips.At(ctx, tripIndex)
				if err != nil {
					return err
				}
				if index >= len(trip.Activities) {
					return fmt.Errorf("activity %w", domain.ErrNotFound)
				}
				current := trip.Activities[index]
				in, err := flags.input(cmd, service.ActivityInput{
					Time:     current.Time,
					Title:    current.Title,
					Location: current.Location,
					Type:     string(current.Type),
					Duration: current.DurationText(),
				})
				if err != nil {
					return err
				}
				trip, err = s.activities.Update(ctx, trip.ID, index, in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTrip(trip))
				return err
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newActivitiesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip> <activity>",
		Short: "Remove an activity from a trip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripIndex, err := parsePosition("trip", args[0])
			if err != nil {
				return err
			}
			index, err := parsePosition("activity", args[1])
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trip, err := s.trips.At(ctx, tripIndex)
				if err != nil {
					return err
				}
				trip, err = s.activities.Delete(ctx, trip.ID, index)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTrip(trip))
				return err
			})
		},
	}
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the activity types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), RenderTypes(domain.ActivityTypes()))
			return err
		},
	}
}

// parseActivityTime reads a --time value in local time.
func parseActivityTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: time is required", domain.ErrValidation)
	}
	for _, layout := range activityTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want \"YYYY-MM-DD HH:MM\")", s)
}
