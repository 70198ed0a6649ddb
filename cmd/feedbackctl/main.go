package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/userfeedback/internal/admin"
	"github.com/dmitrijs2005/userfeedback/internal/logging"
	"github.com/dmitrijs2005/userfeedback/internal/server"
	"github.com/dmitrijs2005/userfeedback/internal/server/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if !errors.Is(err, admin.ErrUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmdArgs := admin.CommandArgs(args)
	if len(cmdArgs) == 0 || cmdArgs[0] == "help" {
		return admin.New(nil, os.Stdin, os.Stdout).Run(ctx, cmdArgs)
	}

	cfg, err := config.LoadConfig(args, ".env")
	if err != nil {
		return err
	}

	logger, err := logging.NewJSON(os.Stderr, "warn")
	if err != nil {
		return err
	}

	app, err := server.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	return admin.New(app.Users(), os.Stdin, os.Stdout).Run(ctx, cmdArgs)
}
