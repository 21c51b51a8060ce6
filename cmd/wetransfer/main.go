// Command wetransfer sends files with the WeTransfer public API.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
