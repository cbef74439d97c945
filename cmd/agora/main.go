package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/nasermirzaei89/agora"
	"github.com/nasermirzaei89/env"
)

func main() {
	ctx := context.Background()

	handlerOpts := &slog.HandlerOptions{Level: agora.GetLogLevelFromEnv()}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	if env.GetString("LOG_FORMAT", "json") == "text" {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))

	app, err := agora.NewApp(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create app", "error", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run app", "error", err)
		os.Exit(1)
	}
}
