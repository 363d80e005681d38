package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/backend/internal/service"
)

func newTripsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Trip commands",
	}
	cmd.AddCommand(newTripsListCmd(app))
	cmd.AddCommand(newTripsCreateCmd(app))
	cmd.AddCommand(newTripsShowCmd(app))
	cmd.AddCommand(newTripsRenameCmd(app))
	cmd.AddCommand(newTripsDeleteCmd(app))
	return cmd
}

func newTripsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trips, err := s.trips.List(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTripList(trips))
				return err
			})
		},
	}
}

func newTripsCreateCmd(app *App) *cobra.Command {
	var title, start, end string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := tripInput(title, start, end)
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trip, err := s.trips.Create(ctx, in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTrip(trip))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Trip title")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, default the day after start)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTripsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip>",
		Short: "Show a trip and its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition("trip", args[0])
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trip, err := s.trips.At(ctx, index)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTrip(trip))
				return err
			})
		},
	}
}

func newTripsRenameCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "rename <trip> <title>",
		Short: "Change a trip's title and, optionally, its dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition("trip", args[0])
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				current, err := s.trips.At(ctx, index)
				if err != nil {
					return err
				}
				in := service.TripInput{Title: args[1], StartDate: current.StartDate, EndDate: current.EndDate}
				if start != "" {
					if in.StartDate, err = parseDate(start); err != nil {
						return err
					}
				}
				if end != "" {
					if in.EndDate, err = parseDate(end); err != nil {
						return err
					}
				}
				trip, err := s.trips.UpdateAt(ctx, index, in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(s.out, RenderTrip(trip))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	return cmd
}

func newTripsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip>",
		Short: "Delete a trip and all of its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition("trip", args[0])
			if err != nil {
				return err
			}
			return run(cmd, app, func(ctx context.Context, s *session) error {
				trip, err := s.trips.At(ctx, index)
				if err != nil {
					return err
				}
				if err := s.trips.DeleteAt(ctx, index); err != nil {
					return err
				}
				_, err = fmt.Fprintf(s.out, "Deleted %s\n", trip.Title)
				return err
			})
		},
	}
}

// tripInput builds the trip form from flag values. A missing start date
// means today and a missing end date means the day after the start.
func tripInput(title, start, end string) (service.TripInput, error) {
	in := service.TripInput{Title: title, StartDate: today()}
	if strings.TrimSpace(start) != "" {
		d, err := parseDate(start)
		if err != nil {
			return in, err
		}
		in.StartDate = d
	}
	in.EndDate = in.StartDate.AddDate(0, 0, 1)
	if strings.TrimSpace(end) != "" {
		d, err := parseDate(end)
		if err != nil {
			return in, err
		}
		in.EndDate = d
	}
	return in, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
