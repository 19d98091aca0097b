package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.NewRenderer(config.DefaultTheme(), false).RenderError(err))
		stop()
		os.Exit(1)
	}
}
