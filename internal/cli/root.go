// Package cli implements the itinerary command-line interface.
// Every command opens the configured key-value backend, runs one workflow
// through the service layer, and closes the store (flushing it) on exit.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary/backend/internal/repo"
	"github.com/pkordes/itinerary/backend/internal/service"
	"github.com/pkordes/itinerary/backend/internal/store"
)

// App carries the persistent flag values shared by every command.
type App struct {
	Driver string
	Path   string
	Key    string
}

// session bundles the services a single command invocation works with.
type session struct {
	trips      *service.TripService
	activities *service.ActivityService
	out        io.Writer
}

// NewRootCmd builds the itinerary command tree. Each subcommand opens the
// configured store for the duration of one invocation.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "itinerary",
		Short:        "Plan trips and their activities",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a trip and list it
  itinerary trips create --title Japan --start 2025-08-01 --end 2025-08-10
  itinerary trips list

  # Add an activity to the first trip
  itinerary activities add 1 --time "2025-08-01 09:00" --title Flight --location Narita --type transport --duration 2h
`),
	}

	cmd.PersistentFlags().StringVar(&app.Driver, "driver", envOr("STORE_DRIVER", repo.DriverFile), "Storage driver ("+strings.Join(repo.Drivers(), "|")+")")
	cmd.PersistentFlags().StringVar(&app.Path, "path", envOr("STORE_PATH", "data"), "Directory (file driver) or database file (sqlite driver)")
	cmd.PersistentFlags().StringVar(&app.Key, "key", envOr("STORE_KEY", store.DefaultKey), "Slot the trip collection is saved under")

	cmd.AddCommand(newTripsCmd(app))
	cmd.AddCommand(newActivitiesCmd(app))
	cmd.AddCommand(newTypesCmd())

	return cmd
}

// run opens the store, hands a session to fn, and closes the store.
// A failure to flush on close is reported even when fn succeeded.
func run(cmd *cobra.Command, app *App, fn func(ctx context.Context, s *session) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := repo.Open(ctx, repo.Options{
		Driver:      strings.ToLower(app.Driver),
		Path:        app.Path,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})
	if err != nil {
		return err
	}
	st := store.New(ctx, kv, store.WithKey(app.Key))
	defer func() {
		if cerr := st.Close(ctx); cerr != nil {
			err = errors.Join(err, fmt.Errorf("save trips: %w", cerr))
		}
	}()

	return fn(ctx, &session{
		trips:      service.NewTripService(st),
		activities: service.NewActivityService(st),
		out:        cmd.OutOrStdout(),
	})
}

// parsePosition converts a 1-based list number as shown by the list
// commands into a 0-based index.
func parsePosition(kind, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s number %q", kind, s)
	}
	return n - 1, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
