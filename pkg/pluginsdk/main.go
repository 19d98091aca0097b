package pluginsdk

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Main serves a single exchange over stdin and stdout and terminates the process:
// status 0 after a response was delivered, 1 otherwise. Diagnostics go to stderr.
func Main(h Handler) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	if os.Getenv("TUICHER_PLUGIN_DEBUG") != "" {
		log = log.Level(zerolog.DebugLevel)
	}

	os.Exit(run(context.Background(), New(os.Stdin, os.Stdout, WithLogger(log)), h, log))
}

func run(ctx context.Context, rt *Runtime, h Handler, log zerolog.Logger) int {
	if err := rt.Serve(ctx, h); err != nil {
		log.Error().Err(err).Msg("plugin failed")
		return 1
	}
	return 0
}
