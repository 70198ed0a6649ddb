package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/userfeedback/internal/logging"
	"github.com/dmitrijs2005/userfeedback/internal/server"
	"github.com/dmitrijs2005/userfeedback/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:], ".env")
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.NewJSON(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
