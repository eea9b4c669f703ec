package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/litscript/cli"
	"github.com/ardnew/litscript/cli/cmd"
	"github.com/ardnew/litscript/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	var status cmd.ExitStatus

	switch {
	case err == nil:
	case errors.As(err, &status):
		os.Exit(status.Code())
	default:
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
