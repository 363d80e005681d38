// Package main is the entry point for the itinerary command-line tool.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkordes/itinerary/backend/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
